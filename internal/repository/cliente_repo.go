package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteFilter holds the optional list filters for clients.
type ClienteFilter struct {
	Buscar string
	Activo *bool
	Skip   int
	Limit  int
}

// ClienteRepository defines the interface for data access of Cliente entities
type ClienteRepository interface {
	Create(ctx context.Context, cliente *model.Cliente) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, cliente *model.Cliente) error
	RFCEnUso(ctx context.Context, rfc string, excludeID uuid.UUID) (bool, error)
	EmailEnUso(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

type clienteRepository struct {
	db *gorm.DB
}

// NewClienteRepository returns a new instance of ClienteRepository
func NewClienteRepository(db *gorm.DB) ClienteRepository {
	return &clienteRepository{db: db}
}

func (r *clienteRepository) Create(ctx context.Context, cliente *model.Cliente) error {
	return GetDB(ctx, r.db).Create(cliente).Error
}

func (r *clienteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var cliente model.Cliente
	if err := GetDB(ctx, r.db).Preload("Sucursales").First(&cliente, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *clienteRepository) List(ctx context.Context, filter ClienteFilter) ([]model.Cliente, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Cliente{})

	if filter.Buscar != "" {
		pattern := "%" + filter.Buscar + "%"
		query = query.Where(
			"nombre ILIKE ? OR apellido_paterno ILIKE ? OR apellido_materno ILIKE ? OR razon_social ILIKE ? OR rfc ILIKE ? OR telefono ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}
	if filter.Activo != nil {
		query = query.Where("activo = ?", *filter.Activo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientes []model.Cliente
	if err := query.Order("created_at DESC").Offset(filter.Skip).Limit(filter.Limit).Find(&clientes).Error; err != nil {
		return nil, 0, err
	}

	return clientes, total, nil
}

func (r *clienteRepository) Update(ctx context.Context, cliente *model.Cliente) error {
	return GetDB(ctx, r.db).Save(cliente).Error
}

func (r *clienteRepository) RFCEnUso(ctx context.Context, rfc string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Cliente{}).
		Where("rfc = ? AND id <> ?", rfc, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *clienteRepository) EmailEnUso(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Cliente{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}
