package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Photo kind values accepted by the evidence upload endpoint.
const (
	FotoEntrada = "entrada"
	FotoSalida  = "salida"
)

// CreateOrdenInput carries the fields for receiving a work order.
type CreateOrdenInput struct {
	ClienteID         uuid.UUID  `json:"cliente_id" binding:"required"`
	SucursalID        *uuid.UUID `json:"sucursal_id"`
	CategoriaID       *uuid.UUID `json:"categoria_id"`
	SubcategoriaID    *uuid.UUID `json:"subcategoria_id"`
	TecnicoAsignadoID *uuid.UUID `json:"tecnico_asignado_id"`

	Descripcion   string `json:"descripcion" binding:"required"`
	Observaciones string `json:"observaciones"`

	TipoPermiso   string `json:"tipo_permiso"`
	NumeroPermiso string `json:"numero_permiso"`

	PrecioEstimado decimal.NullDecimal `json:"precio_estimado"`
	Anticipo       *decimal.Decimal    `json:"anticipo"`

	Prioridad    string     `json:"prioridad"`
	FechaPromesa *time.Time `json:"fecha_promesa"`
}

// UpdateOrdenInput carries the optional fields for updating a work order.
// Nil pointers leave the stored value untouched.
type UpdateOrdenInput struct {
	SucursalID        *uuid.UUID `json:"sucursal_id"`
	CategoriaID       *uuid.UUID `json:"categoria_id"`
	SubcategoriaID    *uuid.UUID `json:"subcategoria_id"`
	TecnicoAsignadoID *uuid.UUID `json:"tecnico_asignado_id"`

	Descripcion   *string `json:"descripcion"`
	Observaciones *string `json:"observaciones"`

	TipoPermiso   *string `json:"tipo_permiso"`
	NumeroPermiso *string `json:"numero_permiso"`

	PrecioEstimado *decimal.NullDecimal `json:"precio_estimado"`
	Anticipo       *decimal.Decimal     `json:"anticipo"`
	PrecioFinal    *decimal.NullDecimal `json:"precio_final"`

	Estatus      *string    `json:"estatus"`
	Prioridad    *string    `json:"prioridad"`
	FechaPromesa *time.Time `json:"fecha_promesa"`
}

// SubtareaInput carries the fields for creating a subtask.
type SubtareaInput struct {
	Titulo            string     `json:"titulo" binding:"required"`
	Descripcion       string     `json:"descripcion"`
	Orden             int        `json:"orden"`
	TecnicoAsignadoID *uuid.UUID `json:"tecnico_asignado_id"`
}

// UpdateSubtareaInput carries the optional fields for updating a subtask.
type UpdateSubtareaInput struct {
	Titulo            *string    `json:"titulo"`
	Descripcion       *string    `json:"descripcion"`
	Orden             *int       `json:"orden"`
	Estado            *string    `json:"estado"`
	TecnicoAsignadoID *uuid.UUID `json:"tecnico_asignado_id"`
}

// OrdenService handles the work order lifecycle: reception, status changes,
// subtasks and photo evidence.
type OrdenService interface {
	Create(ctx context.Context, principal *model.User, input CreateOrdenInput) (*model.OrdenTrabajo, error)
	GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.OrdenTrabajo, error)
	List(ctx context.Context, principal *model.User, filter repository.OrdenFilter) ([]model.OrdenTrabajo, int64, error)
	Update(ctx context.Context, principal *model.User, id uuid.UUID, input UpdateOrdenInput) (*model.OrdenTrabajo, error)
	CambiarEstado(ctx context.Context, principal *model.User, id uuid.UUID, estado, nota string) (*model.OrdenTrabajo, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error

	CreateSubtarea(ctx context.Context, principal *model.User, ordenID uuid.UUID, input SubtareaInput) (*model.SubtareaOrden, error)
	UpdateSubtarea(ctx context.Context, principal *model.User, ordenID, subtareaID uuid.UUID, input UpdateSubtareaInput) (*model.SubtareaOrden, error)
	DeleteSubtarea(ctx context.Context, principal *model.User, ordenID, subtareaID uuid.UUID) error

	SubirFoto(ctx context.Context, principal *model.User, ordenID uuid.UUID, tipo, filename string, file io.Reader) (*model.OrdenTrabajo, error)
}

type ordenService struct {
	ordenRepo   repository.OrdenRepository
	clienteRepo repository.ClienteRepository
	userRepo    repository.UserRepository
	auditRepo   repository.AuditRepository
	tx          repository.TransactionManager
	hub         *websocket.Hub
	files       *storage.FileStore
}

// NewOrdenService returns a new instance of OrdenService
func NewOrdenService(
	ordenRepo repository.OrdenRepository,
	clienteRepo repository.ClienteRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	tx repository.TransactionManager,
	hub *websocket.Hub,
	files *storage.FileStore,
) OrdenService {
	return &ordenService{
		ordenRepo:   ordenRepo,
		clienteRepo: clienteRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		hub:         hub,
		files:       files,
	}
}

func (s *ordenService) audit(ctx context.Context, principal *model.User, action, entityID, entityName string, details interface{}) {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
		CreatedAt:  time.Now(),
	}
	if principal != nil {
		id := principal.ID
		entry.UserID = &id
	}
	// Audit failures never abort the business operation.
	_ = s.auditRepo.Create(ctx, entry)
}

func (s *ordenService) validarTecnico(ctx context.Context, tecnicoID uuid.UUID) error {
	tecnico, err := s.userRepo.GetByID(ctx, tecnicoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.New(apierror.NotFound, "Técnico no encontrado")
		}
		return apierror.Wrap(apierror.Internal, "error al consultar el técnico", err)
	}
	if tecnico.Rol != model.RoleTecnico {
		return apierror.New(apierror.InvalidInput, "El usuario asignado no tiene rol de técnico")
	}
	if !tecnico.Activo {
		return apierror.New(apierror.InvalidInput, "El técnico asignado está inactivo")
	}
	return nil
}

func (s *ordenService) Create(ctx context.Context, principal *model.User, input CreateOrdenInput) (*model.OrdenTrabajo, error) {
	cliente, err := s.clienteRepo.GetByID(ctx, input.ClienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Cliente no encontrado")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el cliente", err)
	}
	if !cliente.Activo {
		return nil, apierror.New(apierror.InvalidInput, "El cliente está inactivo")
	}

	if input.TecnicoAsignadoID != nil {
		if err := s.validarTecnico(ctx, *input.TecnicoAsignadoID); err != nil {
			return nil, err
		}
	}

	prioridad := input.Prioridad
	if prioridad == "" {
		prioridad = model.PrioridadNormal
	}
	if prioridad != model.PrioridadNormal && prioridad != model.PrioridadUrgente {
		return nil, apierror.Newf(apierror.InvalidInput, "Prioridad inválida: %s", prioridad)
	}

	now := time.Now()
	orden := &model.OrdenTrabajo{
		ClienteID:          input.ClienteID,
		SucursalID:         input.SucursalID,
		CategoriaID:        input.CategoriaID,
		SubcategoriaID:     input.SubcategoriaID,
		TecnicoAsignadoID:  input.TecnicoAsignadoID,
		UsuarioRecepcionID: principal.ID,
		Descripcion:        input.Descripcion,
		Observaciones:      input.Observaciones,
		TipoPermiso:        input.TipoPermiso,
		NumeroPermiso:      input.NumeroPermiso,
		PrecioEstimado:     input.PrecioEstimado,
		Estatus:            model.OrdenRecibido,
		Prioridad:          prioridad,
		FechaRecepcion:     now,
		FechaPromesa:       input.FechaPromesa,
	}
	if input.Anticipo != nil {
		orden.Anticipo = *input.Anticipo
	}

	crear := func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			folio, err := s.ordenRepo.NextFolio(txCtx, now.Year())
			if err != nil {
				return err
			}
			orden.Folio = folio
			return s.ordenRepo.Create(txCtx, orden)
		})
	}

	err = crear()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the folio race against a writer outside this process.
		// One retry re-derives the sequence under the lock.
		err = crear()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.New(apierror.Conflict, "No se pudo asignar un folio único, intente de nuevo")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al crear la orden", err)
	}

	s.audit(ctx, principal, model.ActionCreateOrden, orden.ID.String(), orden.Folio, map[string]string{
		"folio":   orden.Folio,
		"cliente": cliente.NombreCompleto(),
	})

	return s.GetByID(ctx, principal, orden.ID)
}

func (s *ordenService) GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.OrdenTrabajo, error) {
	orden, err := s.ordenRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Orden no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la orden", err)
	}
	if !orden.VisiblePara(principal.ID, principal.Rol) {
		return nil, apierror.New(apierror.Forbidden, "No tienes acceso a esta orden")
	}
	return orden, nil
}

func (s *ordenService) List(ctx context.Context, principal *model.User, filter repository.OrdenFilter) ([]model.OrdenTrabajo, int64, error) {
	// Technicians only ever see their own assignments, whatever the filter says.
	if principal.Rol == model.RoleTecnico {
		id := principal.ID
		filter.TecnicoID = &id
	}

	ordenes, total, err := s.ordenRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar órdenes", err)
	}
	return ordenes, total, nil
}

// tecnicoPuedeEditar limits technician updates to the work narrative. Any
// other field on a technician request is rejected rather than ignored.
func tecnicoPuedeEditar(input UpdateOrdenInput) bool {
	return input.SucursalID == nil && input.CategoriaID == nil && input.SubcategoriaID == nil &&
		input.TecnicoAsignadoID == nil && input.TipoPermiso == nil && input.NumeroPermiso == nil &&
		input.PrecioEstimado == nil && input.Anticipo == nil && input.PrecioFinal == nil &&
		input.Prioridad == nil && input.FechaPromesa == nil
}

func (s *ordenService) Update(ctx context.Context, principal *model.User, id uuid.UUID, input UpdateOrdenInput) (*model.OrdenTrabajo, error) {
	orden, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if principal.Rol == model.RoleTecnico && !tecnicoPuedeEditar(input) {
		return nil, apierror.New(apierror.Forbidden, "Un técnico solo puede actualizar descripción, observaciones y estatus")
	}

	if input.TecnicoAsignadoID != nil {
		if err := s.validarTecnico(ctx, *input.TecnicoAsignadoID); err != nil {
			return nil, err
		}
		orden.TecnicoAsignadoID = input.TecnicoAsignadoID
	}
	if input.SucursalID != nil {
		orden.SucursalID = input.SucursalID
	}
	if input.CategoriaID != nil {
		orden.CategoriaID = input.CategoriaID
	}
	if input.SubcategoriaID != nil {
		orden.SubcategoriaID = input.SubcategoriaID
	}
	if input.Descripcion != nil {
		orden.Descripcion = *input.Descripcion
	}
	if input.Observaciones != nil {
		orden.Observaciones = *input.Observaciones
	}
	if input.TipoPermiso != nil {
		orden.TipoPermiso = *input.TipoPermiso
	}
	if input.NumeroPermiso != nil {
		orden.NumeroPermiso = *input.NumeroPermiso
	}
	if input.PrecioEstimado != nil {
		orden.PrecioEstimado = *input.PrecioEstimado
	}
	if input.Anticipo != nil {
		orden.Anticipo = *input.Anticipo
	}
	if input.PrecioFinal != nil {
		orden.PrecioFinal = *input.PrecioFinal
	}
	if input.Prioridad != nil {
		if *input.Prioridad != model.PrioridadNormal && *input.Prioridad != model.PrioridadUrgente {
			return nil, apierror.Newf(apierror.InvalidInput, "Prioridad inválida: %s", *input.Prioridad)
		}
		orden.Prioridad = *input.Prioridad
	}
	if input.FechaPromesa != nil {
		orden.FechaPromesa = input.FechaPromesa
	}

	estadoCambiado := false
	if input.Estatus != nil && *input.Estatus != orden.Estatus {
		if !model.ValidEstadoOrden(*input.Estatus) {
			return nil, apierror.Newf(apierror.InvalidInput, "Estatus inválido: %s", *input.Estatus)
		}
		orden.AplicarEstado(*input.Estatus, "", time.Now())
		estadoCambiado = true
	}

	if err := s.ordenRepo.Update(ctx, orden); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la orden", err)
	}

	s.audit(ctx, principal, model.ActionUpdateOrden, orden.ID.String(), orden.Folio, map[string]string{"folio": orden.Folio})
	if estadoCambiado {
		s.hub.NotifyEstado(orden.Folio, orden.Estatus)
	}

	return s.GetByID(ctx, principal, orden.ID)
}

func (s *ordenService) CambiarEstado(ctx context.Context, principal *model.User, id uuid.UUID, estado, nota string) (*model.OrdenTrabajo, error) {
	if !model.ValidEstadoOrden(estado) {
		return nil, apierror.Newf(apierror.InvalidInput, "Estatus inválido: %s", estado)
	}

	orden, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	anterior := orden.Estatus
	orden.AplicarEstado(estado, nota, time.Now())

	if err := s.ordenRepo.Update(ctx, orden); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la orden", err)
	}

	s.audit(ctx, principal, model.ActionCambiarEstado, orden.ID.String(), orden.Folio, map[string]string{
		"folio":    orden.Folio,
		"anterior": anterior,
		"nuevo":    estado,
	})
	s.hub.NotifyEstado(orden.Folio, orden.Estatus)

	return orden, nil
}

// Delete removes an order, allowed only while it is still freshly received.
// Anything past RECIBIDO has accumulated work history worth keeping.
func (s *ordenService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	orden, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return err
	}

	if orden.Estatus != model.OrdenRecibido {
		return apierror.New(apierror.Conflict, "Solo se pueden eliminar órdenes en estatus RECIBIDO")
	}

	if err := s.ordenRepo.Delete(ctx, id); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar la orden", err)
	}

	s.audit(ctx, principal, model.ActionDeleteOrden, orden.ID.String(), orden.Folio, map[string]string{"folio": orden.Folio})
	return nil
}

func (s *ordenService) CreateSubtarea(ctx context.Context, principal *model.User, ordenID uuid.UUID, input SubtareaInput) (*model.SubtareaOrden, error) {
	if _, err := s.GetByID(ctx, principal, ordenID); err != nil {
		return nil, err
	}

	if input.TecnicoAsignadoID != nil {
		if err := s.validarTecnico(ctx, *input.TecnicoAsignadoID); err != nil {
			return nil, err
		}
	}

	subtarea := &model.SubtareaOrden{
		OrdenTrabajoID:    ordenID,
		TecnicoAsignadoID: input.TecnicoAsignadoID,
		Titulo:            input.Titulo,
		Descripcion:       input.Descripcion,
		Orden:             input.Orden,
		Estado:            model.SubtareaPendiente,
	}
	if err := s.ordenRepo.CreateSubtarea(ctx, subtarea); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al crear la subtarea", err)
	}
	return subtarea, nil
}

func (s *ordenService) getSubtarea(ctx context.Context, principal *model.User, ordenID, subtareaID uuid.UUID) (*model.SubtareaOrden, error) {
	if _, err := s.GetByID(ctx, principal, ordenID); err != nil {
		return nil, err
	}
	subtarea, err := s.ordenRepo.GetSubtarea(ctx, subtareaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Subtarea no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la subtarea", err)
	}
	if subtarea.OrdenTrabajoID != ordenID {
		return nil, apierror.New(apierror.NotFound, "Subtarea no encontrada")
	}
	return subtarea, nil
}

func (s *ordenService) UpdateSubtarea(ctx context.Context, principal *model.User, ordenID, subtareaID uuid.UUID, input UpdateSubtareaInput) (*model.SubtareaOrden, error) {
	subtarea, err := s.getSubtarea(ctx, principal, ordenID, subtareaID)
	if err != nil {
		return nil, err
	}

	if input.Titulo != nil {
		subtarea.Titulo = *input.Titulo
	}
	if input.Descripcion != nil {
		subtarea.Descripcion = *input.Descripcion
	}
	if input.Orden != nil {
		subtarea.Orden = *input.Orden
	}
	if input.TecnicoAsignadoID != nil {
		if err := s.validarTecnico(ctx, *input.TecnicoAsignadoID); err != nil {
			return nil, err
		}
		subtarea.TecnicoAsignadoID = input.TecnicoAsignadoID
	}
	if input.Estado != nil && *input.Estado != subtarea.Estado {
		if !model.ValidEstadoSubtarea(*input.Estado) {
			return nil, apierror.Newf(apierror.InvalidInput, "Estado de subtarea inválido: %s", *input.Estado)
		}
		now := time.Now()
		switch *input.Estado {
		case model.SubtareaEnProceso:
			if subtarea.FechaInicio == nil {
				subtarea.FechaInicio = &now
			}
		case model.SubtareaCompletada:
			if subtarea.FechaCompletada == nil {
				subtarea.FechaCompletada = &now
			}
		}
		subtarea.Estado = *input.Estado
	}

	if err := s.ordenRepo.UpdateSubtarea(ctx, subtarea); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la subtarea", err)
	}
	return subtarea, nil
}

func (s *ordenService) DeleteSubtarea(ctx context.Context, principal *model.User, ordenID, subtareaID uuid.UUID) error {
	if _, err := s.getSubtarea(ctx, principal, ordenID, subtareaID); err != nil {
		return err
	}
	if err := s.ordenRepo.DeleteSubtarea(ctx, subtareaID); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar la subtarea", err)
	}
	return nil
}

// SubirFoto stores photo evidence. Entry photos accumulate as history rows
// and the first one also fills the legacy single-URL field; the exit photo
// is a single slot that each upload overwrites.
func (s *ordenService) SubirFoto(ctx context.Context, principal *model.User, ordenID uuid.UUID, tipo, filename string, file io.Reader) (*model.OrdenTrabajo, error) {
	if tipo != FotoEntrada && tipo != FotoSalida {
		return nil, apierror.Newf(apierror.InvalidInput, "Tipo de foto inválido: %s", tipo)
	}

	orden, err := s.GetByID(ctx, principal, ordenID)
	if err != nil {
		return nil, err
	}

	name := storage.UploadName(orden.Folio, tipo, filename, time.Now())
	url, err := s.files.Save("ordenes", name, file)
	if err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al guardar la foto", err)
	}

	switch tipo {
	case FotoEntrada:
		foto := &model.FotoOrden{OrdenTrabajoID: orden.ID, URL: url}
		if err := s.ordenRepo.CreateFoto(ctx, foto); err != nil {
			return nil, apierror.Wrap(apierror.Internal, "error al registrar la foto", err)
		}
		if orden.FotoEntrada == "" {
			orden.FotoEntrada = url
		}
	case FotoSalida:
		orden.FotoSalida = url
	}

	if err := s.ordenRepo.Update(ctx, orden); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la orden", err)
	}

	s.audit(ctx, principal, model.ActionSubirFoto, orden.ID.String(), orden.Folio, map[string]string{
		"folio": orden.Folio,
		"tipo":  tipo,
		"url":   url,
	})

	return s.GetByID(ctx, principal, orden.ID)
}
