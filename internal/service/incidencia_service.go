package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateIncidenciaInput carries the fields for logging an HR incident.
type CreateIncidenciaInput struct {
	EmpleadoID      uuid.UUID `json:"empleado_id" binding:"required"`
	FechaIncidencia time.Time `json:"fecha_incidencia" binding:"required"`
	Tipo            string    `json:"tipo" binding:"required"`
	Severidad       string    `json:"severidad"`

	Titulo        string `json:"titulo" binding:"required"`
	Descripcion   string `json:"descripcion" binding:"required"`
	Consecuencias string `json:"consecuencias"`
	DocumentoURL  string `json:"documento_url"`

	RequiereSeguimiento bool       `json:"requiere_seguimiento"`
	FechaSeguimiento    *time.Time `json:"fecha_seguimiento"`
}

// UpdateIncidenciaInput carries the optional fields for updating an incident.
type UpdateIncidenciaInput struct {
	FechaIncidencia *time.Time `json:"fecha_incidencia"`
	Tipo            *string    `json:"tipo"`
	Severidad       *string    `json:"severidad"`

	Titulo        *string `json:"titulo"`
	Descripcion   *string `json:"descripcion"`
	Consecuencias *string `json:"consecuencias"`
	DocumentoURL  *string `json:"documento_url"`

	RequiereSeguimiento   *bool      `json:"requiere_seguimiento"`
	FechaSeguimiento      *time.Time `json:"fecha_seguimiento"`
	SeguimientoCompletado *bool      `json:"seguimiento_completado"`
	NotasSeguimiento      *string    `json:"notas_seguimiento"`
}

// IncidenciaService handles HR incident records.
type IncidenciaService interface {
	Create(ctx context.Context, principal *model.User, input CreateIncidenciaInput) (*model.IncidenciaEmpleado, error)
	GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.IncidenciaEmpleado, error)
	List(ctx context.Context, principal *model.User, filter repository.IncidenciaFilter) ([]model.IncidenciaEmpleado, int64, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateIncidenciaInput) (*model.IncidenciaEmpleado, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type incidenciaService struct {
	incidenciaRepo repository.IncidenciaRepository
	userRepo       repository.UserRepository
	auditRepo      repository.AuditRepository
}

// NewIncidenciaService returns a new instance of IncidenciaService
func NewIncidenciaService(
	incidenciaRepo repository.IncidenciaRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
) IncidenciaService {
	return &incidenciaService{
		incidenciaRepo: incidenciaRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
	}
}

func (s *incidenciaService) Create(ctx context.Context, principal *model.User, input CreateIncidenciaInput) (*model.IncidenciaEmpleado, error) {
	empleado, err := s.userRepo.GetByID(ctx, input.EmpleadoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Empleado no encontrado")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el empleado", err)
	}

	if !model.ValidTipoIncidencia(input.Tipo) {
		return nil, apierror.Newf(apierror.InvalidInput, "Tipo de incidencia inválido: %s", input.Tipo)
	}

	severidad := input.Severidad
	if severidad == "" {
		severidad = model.SeveridadLeve
	}
	if !model.ValidSeveridad(severidad) {
		return nil, apierror.Newf(apierror.InvalidInput, "Severidad inválida: %s", severidad)
	}

	incidencia := &model.IncidenciaEmpleado{
		EmpleadoID:          input.EmpleadoID,
		FechaIncidencia:     input.FechaIncidencia,
		Tipo:                input.Tipo,
		Severidad:           severidad,
		Titulo:              input.Titulo,
		Descripcion:         input.Descripcion,
		Consecuencias:       input.Consecuencias,
		DocumentoURL:        input.DocumentoURL,
		RegistradoPorID:     principal.ID,
		RequiereSeguimiento: input.RequiereSeguimiento,
		FechaSeguimiento:    input.FechaSeguimiento,
	}

	if err := s.incidenciaRepo.Create(ctx, incidencia); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al crear la incidencia", err)
	}

	details, _ := json.Marshal(map[string]string{
		"empleado":  empleado.NombreCompleto,
		"tipo":      incidencia.Tipo,
		"severidad": incidencia.Severidad,
	})
	registradoPor := principal.ID
	_ = s.auditRepo.Create(ctx, &model.AuditLog{
		UserID:     &registradoPor,
		Action:     model.ActionCreateIncidencia,
		EntityID:   incidencia.ID.String(),
		EntityName: empleado.NombreCompleto,
		Details:    string(details),
		CreatedAt:  time.Now(),
	})

	return incidencia, nil
}

func (s *incidenciaService) GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.IncidenciaEmpleado, error) {
	incidencia, err := s.getIncidencia(ctx, id)
	if err != nil {
		return nil, err
	}
	if incidencia.EmpleadoID != principal.ID && !puedeGestionar(principal) {
		return nil, apierror.New(apierror.Forbidden, "No tienes acceso a esta incidencia")
	}
	return incidencia, nil
}

func (s *incidenciaService) List(ctx context.Context, principal *model.User, filter repository.IncidenciaFilter) ([]model.IncidenciaEmpleado, int64, error) {
	// Regular employees only ever see their own record.
	if !puedeGestionar(principal) {
		id := principal.ID
		filter.EmpleadoID = &id
	}

	incidencias, total, err := s.incidenciaRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar incidencias", err)
	}
	return incidencias, total, nil
}

func (s *incidenciaService) getIncidencia(ctx context.Context, id uuid.UUID) (*model.IncidenciaEmpleado, error) {
	incidencia, err := s.incidenciaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Incidencia no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la incidencia", err)
	}
	return incidencia, nil
}

func (s *incidenciaService) Update(ctx context.Context, id uuid.UUID, input UpdateIncidenciaInput) (*model.IncidenciaEmpleado, error) {
	incidencia, err := s.getIncidencia(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Tipo != nil {
		if !model.ValidTipoIncidencia(*input.Tipo) {
			return nil, apierror.Newf(apierror.InvalidInput, "Tipo de incidencia inválido: %s", *input.Tipo)
		}
		incidencia.Tipo = *input.Tipo
	}
	if input.Severidad != nil {
		if !model.ValidSeveridad(*input.Severidad) {
			return nil, apierror.Newf(apierror.InvalidInput, "Severidad inválida: %s", *input.Severidad)
		}
		incidencia.Severidad = *input.Severidad
	}
	if input.FechaIncidencia != nil {
		incidencia.FechaIncidencia = *input.FechaIncidencia
	}
	if input.Titulo != nil {
		incidencia.Titulo = *input.Titulo
	}
	if input.Descripcion != nil {
		incidencia.Descripcion = *input.Descripcion
	}
	if input.Consecuencias != nil {
		incidencia.Consecuencias = *input.Consecuencias
	}
	if input.DocumentoURL != nil {
		incidencia.DocumentoURL = *input.DocumentoURL
	}
	if input.RequiereSeguimiento != nil {
		incidencia.RequiereSeguimiento = *input.RequiereSeguimiento
	}
	if input.FechaSeguimiento != nil {
		incidencia.FechaSeguimiento = input.FechaSeguimiento
	}
	if input.SeguimientoCompletado != nil {
		incidencia.SeguimientoCompletado = *input.SeguimientoCompletado
	}
	if input.NotasSeguimiento != nil {
		incidencia.NotasSeguimiento = *input.NotasSeguimiento
	}

	if err := s.incidenciaRepo.Update(ctx, incidencia); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la incidencia", err)
	}
	return incidencia, nil
}

func (s *incidenciaService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getIncidencia(ctx, id); err != nil {
		return err
	}
	if err := s.incidenciaRepo.Delete(ctx, id); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar la incidencia", err)
	}
	return nil
}
