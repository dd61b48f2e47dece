package service

import (
	"context"
	"errors"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaInput carries the fields for creating or updating a category.
type CategoriaInput struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
	Activo      *bool  `json:"activo"`
}

// SubcategoriaInput carries the fields for creating a subcategory.
type SubcategoriaInput struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
}

// CategoriaService handles the order classification taxonomy.
type CategoriaService interface {
	Create(ctx context.Context, input CategoriaInput) (*model.CategoriaOrden, error)
	List(ctx context.Context, activo *bool) ([]model.CategoriaOrden, error)
	Update(ctx context.Context, id uuid.UUID, input CategoriaInput) (*model.CategoriaOrden, error)

	CreateSubcategoria(ctx context.Context, categoriaID uuid.UUID, input SubcategoriaInput) (*model.SubcategoriaOrden, error)
	ListSubcategorias(ctx context.Context, categoriaID uuid.UUID, activo *bool) ([]model.SubcategoriaOrden, error)
}

type categoriaService struct {
	categoriaRepo repository.CategoriaRepository
}

// NewCategoriaService returns a new instance of CategoriaService
func NewCategoriaService(categoriaRepo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{categoriaRepo: categoriaRepo}
}

func (s *categoriaService) Create(ctx context.Context, input CategoriaInput) (*model.CategoriaOrden, error) {
	categoria := &model.CategoriaOrden{
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Activo:      true,
	}
	if err := s.categoriaRepo.Create(ctx, categoria); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe una categoría con ese nombre")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al crear la categoría", err)
	}
	return categoria, nil
}

func (s *categoriaService) List(ctx context.Context, activo *bool) ([]model.CategoriaOrden, error) {
	categorias, err := s.categoriaRepo.List(ctx, activo)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al listar categorías", err)
	}
	return categorias, nil
}

func (s *categoriaService) Update(ctx context.Context, id uuid.UUID, input CategoriaInput) (*model.CategoriaOrden, error) {
	categoria, err := s.categoriaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Categoría no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la categoría", err)
	}

	categoria.Nombre = input.Nombre
	categoria.Descripcion = input.Descripcion
	if input.Activo != nil {
		categoria.Activo = *input.Activo
	}

	if err := s.categoriaRepo.Update(ctx, categoria); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "Ya existe una categoría con ese nombre")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la categoría", err)
	}

	return categoria, nil
}

func (s *categoriaService) CreateSubcategoria(ctx context.Context, categoriaID uuid.UUID, input SubcategoriaInput) (*model.SubcategoriaOrden, error) {
	if _, err := s.categoriaRepo.GetByID(ctx, categoriaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Categoría no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la categoría", err)
	}

	subcategoria := &model.SubcategoriaOrden{
		CategoriaID: categoriaID,
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Activo:      true,
	}
	if err := s.categoriaRepo.CreateSubcategoria(ctx, subcategoria); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al crear la subcategoría", err)
	}
	return subcategoria, nil
}

func (s *categoriaService) ListSubcategorias(ctx context.Context, categoriaID uuid.UUID, activo *bool) ([]model.SubcategoriaOrden, error) {
	subcategorias, err := s.categoriaRepo.ListSubcategorias(ctx, categoriaID, activo)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al listar subcategorías", err)
	}
	return subcategorias, nil
}
