package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SolicitudFilter holds the optional list filters for vacation requests.
type SolicitudFilter struct {
	EmpleadoID *uuid.UUID
	Estado     string
	FechaDesde *time.Time
	FechaHasta *time.Time
	Skip       int
	Limit      int
}

// SolicitudRepository defines the interface for data access of
// SolicitudVacaciones entities.
type SolicitudRepository interface {
	Create(ctx context.Context, solicitud *model.SolicitudVacaciones) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SolicitudVacaciones, error)
	List(ctx context.Context, filter SolicitudFilter) ([]model.SolicitudVacaciones, int64, error)
	Update(ctx context.Context, solicitud *model.SolicitudVacaciones) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type solicitudRepository struct {
	db *gorm.DB
}

// NewSolicitudRepository returns a new instance of SolicitudRepository
func NewSolicitudRepository(db *gorm.DB) SolicitudRepository {
	return &solicitudRepository{db: db}
}

func (r *solicitudRepository) Create(ctx context.Context, solicitud *model.SolicitudVacaciones) error {
	return GetDB(ctx, r.db).Create(solicitud).Error
}

func (r *solicitudRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SolicitudVacaciones, error) {
	var solicitud model.SolicitudVacaciones
	err := GetDB(ctx, r.db).
		Preload("Empleado").
		Preload("AprobadaPor").
		First(&solicitud, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &solicitud, nil
}

func (r *solicitudRepository) List(ctx context.Context, filter SolicitudFilter) ([]model.SolicitudVacaciones, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.SolicitudVacaciones{})

	if filter.EmpleadoID != nil {
		query = query.Where("empleado_id = ?", *filter.EmpleadoID)
	}
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}
	if filter.FechaDesde != nil {
		query = query.Where("fecha_inicio >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		query = query.Where("fecha_fin <= ?", *filter.FechaHasta)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var solicitudes []model.SolicitudVacaciones
	err := query.
		Preload("Empleado").
		Preload("AprobadaPor").
		Order("fecha_solicitud DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&solicitudes).Error
	if err != nil {
		return nil, 0, err
	}

	return solicitudes, total, nil
}

func (r *solicitudRepository) Update(ctx context.Context, solicitud *model.SolicitudVacaciones) error {
	return GetDB(ctx, r.db).Omit("Empleado", "AprobadaPor").Save(solicitud).Error
}

func (r *solicitudRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SolicitudVacaciones{}).Error
}
