package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidenciaFilter holds the optional list filters for HR incidents.
type IncidenciaFilter struct {
	EmpleadoID          *uuid.UUID
	Tipo                string
	Severidad           string
	FechaDesde          *time.Time
	FechaHasta          *time.Time
	RequiereSeguimiento *bool
	Skip                int
	Limit               int
}

// IncidenciaRepository defines the interface for data access of
// IncidenciaEmpleado entities.
type IncidenciaRepository interface {
	Create(ctx context.Context, incidencia *model.IncidenciaEmpleado) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.IncidenciaEmpleado, error)
	List(ctx context.Context, filter IncidenciaFilter) ([]model.IncidenciaEmpleado, int64, error)
	Update(ctx context.Context, incidencia *model.IncidenciaEmpleado) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type incidenciaRepository struct {
	db *gorm.DB
}

// NewIncidenciaRepository returns a new instance of IncidenciaRepository
func NewIncidenciaRepository(db *gorm.DB) IncidenciaRepository {
	return &incidenciaRepository{db: db}
}

func (r *incidenciaRepository) Create(ctx context.Context, incidencia *model.IncidenciaEmpleado) error {
	return GetDB(ctx, r.db).Create(incidencia).Error
}

func (r *incidenciaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.IncidenciaEmpleado, error) {
	var incidencia model.IncidenciaEmpleado
	err := GetDB(ctx, r.db).
		Preload("Empleado").
		Preload("RegistradoPor").
		First(&incidencia, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &incidencia, nil
}

func (r *incidenciaRepository) List(ctx context.Context, filter IncidenciaFilter) ([]model.IncidenciaEmpleado, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.IncidenciaEmpleado{})

	if filter.EmpleadoID != nil {
		query = query.Where("empleado_id = ?", *filter.EmpleadoID)
	}
	if filter.Tipo != "" {
		query = query.Where("tipo = ?", filter.Tipo)
	}
	if filter.Severidad != "" {
		query = query.Where("severidad = ?", filter.Severidad)
	}
	if filter.FechaDesde != nil {
		query = query.Where("fecha_incidencia >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		query = query.Where("fecha_incidencia <= ?", *filter.FechaHasta)
	}
	if filter.RequiereSeguimiento != nil {
		query = query.Where("requiere_seguimiento = ?", *filter.RequiereSeguimiento)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var incidencias []model.IncidenciaEmpleado
	err := query.
		Preload("Empleado").
		Preload("RegistradoPor").
		Order("fecha_incidencia DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&incidencias).Error
	if err != nil {
		return nil, 0, err
	}

	return incidencias, total, nil
}

func (r *incidenciaRepository) Update(ctx context.Context, incidencia *model.IncidenciaEmpleado) error {
	return GetDB(ctx, r.db).Omit("Empleado", "RegistradoPor").Save(incidencia).Error
}

func (r *incidenciaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.IncidenciaEmpleado{}).Error
}
