package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SucursalRepository defines the interface for data access of Sucursal entities
type SucursalRepository interface {
	Create(ctx context.Context, sucursal *model.Sucursal) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	ListByCliente(ctx context.Context, clienteID uuid.UUID, activo *bool) ([]model.Sucursal, error)
	Update(ctx context.Context, sucursal *model.Sucursal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sucursalRepository struct {
	db *gorm.DB
}

// NewSucursalRepository returns a new instance of SucursalRepository
func NewSucursalRepository(db *gorm.DB) SucursalRepository {
	return &sucursalRepository{db: db}
}

func (r *sucursalRepository) Create(ctx context.Context, sucursal *model.Sucursal) error {
	return GetDB(ctx, r.db).Create(sucursal).Error
}

func (r *sucursalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var sucursal model.Sucursal
	if err := GetDB(ctx, r.db).First(&sucursal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sucursal, nil
}

func (r *sucursalRepository) ListByCliente(ctx context.Context, clienteID uuid.UUID, activo *bool) ([]model.Sucursal, error) {
	query := GetDB(ctx, r.db).Where("cliente_id = ?", clienteID)
	if activo != nil {
		query = query.Where("activo = ?", *activo)
	}
	var sucursales []model.Sucursal
	if err := query.Order("nombre_sucursal").Find(&sucursales).Error; err != nil {
		return nil, err
	}
	return sucursales, nil
}

func (r *sucursalRepository) Update(ctx context.Context, sucursal *model.Sucursal) error {
	return GetDB(ctx, r.db).Save(sucursal).Error
}

func (r *sucursalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Branches are hard-deleted, unlike clients.
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Sucursal{}).Error
}
