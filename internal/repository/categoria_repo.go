package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines the interface for data access of the order
// classification taxonomy.
type CategoriaRepository interface {
	Create(ctx context.Context, categoria *model.CategoriaOrden) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CategoriaOrden, error)
	List(ctx context.Context, activo *bool) ([]model.CategoriaOrden, error)
	Update(ctx context.Context, categoria *model.CategoriaOrden) error

	CreateSubcategoria(ctx context.Context, subcategoria *model.SubcategoriaOrden) error
	ListSubcategorias(ctx context.Context, categoriaID uuid.UUID, activo *bool) ([]model.SubcategoriaOrden, error)
}

type categoriaRepository struct {
	db *gorm.DB
}

// NewCategoriaRepository returns a new instance of CategoriaRepository
func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Create(ctx context.Context, categoria *model.CategoriaOrden) error {
	return GetDB(ctx, r.db).Create(categoria).Error
}

func (r *categoriaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CategoriaOrden, error) {
	var categoria model.CategoriaOrden
	if err := GetDB(ctx, r.db).First(&categoria, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &categoria, nil
}

func (r *categoriaRepository) List(ctx context.Context, activo *bool) ([]model.CategoriaOrden, error) {
	query := GetDB(ctx, r.db).Model(&model.CategoriaOrden{})
	if activo != nil {
		query = query.Where("activo = ?", *activo)
	}
	var categorias []model.CategoriaOrden
	if err := query.Order("nombre").Find(&categorias).Error; err != nil {
		return nil, err
	}
	return categorias, nil
}

func (r *categoriaRepository) Update(ctx context.Context, categoria *model.CategoriaOrden) error {
	return GetDB(ctx, r.db).Save(categoria).Error
}

func (r *categoriaRepository) CreateSubcategoria(ctx context.Context, subcategoria *model.SubcategoriaOrden) error {
	return GetDB(ctx, r.db).Create(subcategoria).Error
}

func (r *categoriaRepository) ListSubcategorias(ctx context.Context, categoriaID uuid.UUID, activo *bool) ([]model.SubcategoriaOrden, error) {
	query := GetDB(ctx, r.db).Where("categoria_id = ?", categoriaID)
	if activo != nil {
		query = query.Where("activo = ?", *activo)
	}
	var subcategorias []model.SubcategoriaOrden
	if err := query.Order("nombre").Find(&subcategorias).Error; err != nil {
		return nil, err
	}
	return subcategorias, nil
}
