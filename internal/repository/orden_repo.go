package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrdenFilter holds the optional list filters for work orders.
type OrdenFilter struct {
	Estatus     string
	ClienteID   *uuid.UUID
	TecnicoID   *uuid.UUID
	CategoriaID *uuid.UUID
	Prioridad   string
	Search      string
	Skip        int
	Limit       int
}

// OrdenRepository defines the interface for data access of OrdenTrabajo
// entities and their owned subtasks and photos.
type OrdenRepository interface {
	Create(ctx context.Context, orden *model.OrdenTrabajo) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrdenTrabajo, error)
	List(ctx context.Context, filter OrdenFilter) ([]model.OrdenTrabajo, int64, error)
	Update(ctx context.Context, orden *model.OrdenTrabajo) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextFolio(ctx context.Context, year int) (string, error)

	CreateSubtarea(ctx context.Context, subtarea *model.SubtareaOrden) error
	GetSubtarea(ctx context.Context, id uuid.UUID) (*model.SubtareaOrden, error)
	UpdateSubtarea(ctx context.Context, subtarea *model.SubtareaOrden) error
	DeleteSubtarea(ctx context.Context, id uuid.UUID) error

	CreateFoto(ctx context.Context, foto *model.FotoOrden) error
}

type ordenRepository struct {
	db *gorm.DB
}

// NewOrdenRepository returns a new instance of OrdenRepository
func NewOrdenRepository(db *gorm.DB) OrdenRepository {
	return &ordenRepository{db: db}
}

func (r *ordenRepository) Create(ctx context.Context, orden *model.OrdenTrabajo) error {
	return GetDB(ctx, r.db).Create(orden).Error
}

func (r *ordenRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrdenTrabajo, error) {
	var orden model.OrdenTrabajo
	err := GetDB(ctx, r.db).
		Preload("Cliente").
		Preload("Categoria").
		Preload("Subcategoria").
		Preload("UsuarioRecepcion").
		Preload("Tecnico").
		Preload("Subtareas", func(db *gorm.DB) *gorm.DB { return db.Order("subtarea_ordens.orden") }).
		Preload("Subtareas.Tecnico").
		Preload("Fotos").
		First(&orden, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &orden, nil
}

func (r *ordenRepository) List(ctx context.Context, filter OrdenFilter) ([]model.OrdenTrabajo, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.OrdenTrabajo{})

	if filter.Estatus != "" {
		query = query.Where("orden_trabajos.estatus = ?", filter.Estatus)
	}
	if filter.ClienteID != nil {
		query = query.Where("orden_trabajos.cliente_id = ?", *filter.ClienteID)
	}
	if filter.TecnicoID != nil {
		query = query.Where("orden_trabajos.tecnico_asignado_id = ?", *filter.TecnicoID)
	}
	if filter.CategoriaID != nil {
		query = query.Where("orden_trabajos.categoria_id = ?", *filter.CategoriaID)
	}
	if filter.Prioridad != "" {
		query = query.Where("orden_trabajos.prioridad = ?", filter.Prioridad)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN clientes ON clientes.id = orden_trabajos.cliente_id").
			Where("orden_trabajos.folio ILIKE ? OR orden_trabajos.descripcion ILIKE ? OR clientes.nombre ILIKE ? OR clientes.razon_social ILIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ordenes []model.OrdenTrabajo
	err := query.
		Preload("Cliente").
		Preload("Categoria").
		Preload("Subcategoria").
		Preload("Tecnico").
		Preload("Subtareas").
		Order("orden_trabajos.fecha_recepcion DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&ordenes).Error
	if err != nil {
		return nil, 0, err
	}

	return ordenes, total, nil
}

func (r *ordenRepository) Update(ctx context.Context, orden *model.OrdenTrabajo) error {
	return GetDB(ctx, r.db).Omit("Cliente", "Categoria", "Subcategoria", "UsuarioRecepcion", "Tecnico", "Subtareas", "Fotos").Save(orden).Error
}

func (r *ordenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.OrdenTrabajo{}).Error
}

// NextFolio assigns the next folio for the calendar year. The sequence is
// the highest existing suffix plus one, read under an advisory transaction
// lock keyed on the year prefix so two concurrent creations cannot observe
// the same number. A count would shrink when orders in RECIBIDO get deleted
// and collide with the surviving folios. Must be called inside a transaction.
func (r *ordenRepository) NextFolio(ctx context.Context, year int) (string, error) {
	db := GetDB(ctx, r.db)
	prefix := model.FolioPrefix(year)

	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
		return "", err
	}

	var maxSeq int64
	if err := db.Model(&model.OrdenTrabajo{}).
		Where("folio LIKE ?", prefix+"%").
		Select("COALESCE(MAX(split_part(folio, '-', 3)::int), 0)").
		Scan(&maxSeq).Error; err != nil {
		return "", err
	}

	return model.FormatFolio(year, int(maxSeq)+1), nil
}

func (r *ordenRepository) CreateSubtarea(ctx context.Context, subtarea *model.SubtareaOrden) error {
	return GetDB(ctx, r.db).Create(subtarea).Error
}

func (r *ordenRepository) GetSubtarea(ctx context.Context, id uuid.UUID) (*model.SubtareaOrden, error) {
	var subtarea model.SubtareaOrden
	if err := GetDB(ctx, r.db).Preload("Tecnico").First(&subtarea, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subtarea, nil
}

func (r *ordenRepository) UpdateSubtarea(ctx context.Context, subtarea *model.SubtareaOrden) error {
	return GetDB(ctx, r.db).Omit("Tecnico").Save(subtarea).Error
}

func (r *ordenRepository) DeleteSubtarea(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SubtareaOrden{}).Error
}

func (r *ordenRepository) CreateFoto(ctx context.Context, foto *model.FotoOrden) error {
	foto.CreatedAt = time.Now()
	return GetDB(ctx, r.db).Create(foto).Error
}
