package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/pdf"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var horasPorDia = decimal.NewFromInt(8)

// VacacionesResumen is the derived balance snapshot for one employee.
type VacacionesResumen struct {
	EmpleadoID              uuid.UUID `json:"empleado_id"`
	NombreCompleto          string    `json:"nombre_completo"`
	AntiguedadAnios         int       `json:"antiguedad_anios"`
	DiasPorLey              int       `json:"dias_por_ley"`
	DiasAniosAnteriores     int       `json:"dias_anios_anteriores"`
	DiasTomados             int       `json:"dias_tomados"`
	DiasDisponibles         int       `json:"dias_disponibles"`
}

// CreateSolicitudInput carries the fields for submitting a vacation request.
type CreateSolicitudInput struct {
	EmpleadoID    *uuid.UUID      `json:"empleado_id"`
	FechaInicio   time.Time       `json:"fecha_inicio" binding:"required"`
	FechaFin      time.Time       `json:"fecha_fin" binding:"required"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad" binding:"required"`
	Observaciones string          `json:"observaciones"`
}

// UpdateSolicitudInput carries the optional fields for editing a still
// pending request.
type UpdateSolicitudInput struct {
	FechaInicio   *time.Time       `json:"fecha_inicio"`
	FechaFin      *time.Time       `json:"fecha_fin"`
	Tipo          *string          `json:"tipo"`
	Cantidad      *decimal.Decimal `json:"cantidad"`
	Observaciones *string          `json:"observaciones"`
}

// VacacionesService handles vacation balances and the request workflow.
type VacacionesService interface {
	Resumen(ctx context.Context, empleadoID uuid.UUID) (*VacacionesResumen, error)
	Create(ctx context.Context, principal *model.User, input CreateSolicitudInput) (*model.SolicitudVacaciones, error)
	GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.SolicitudVacaciones, error)
	Update(ctx context.Context, principal *model.User, id uuid.UUID, input UpdateSolicitudInput) (*model.SolicitudVacaciones, error)
	List(ctx context.Context, principal *model.User, filter repository.SolicitudFilter) ([]model.SolicitudVacaciones, int64, error)
	Aprobar(ctx context.Context, principal *model.User, id uuid.UUID) (*model.SolicitudVacaciones, error)
	Rechazar(ctx context.Context, principal *model.User, id uuid.UUID, motivo string) (*model.SolicitudVacaciones, error)
	Delete(ctx context.Context, principal *model.User, id uuid.UUID) error
	GenerarPDF(ctx context.Context, principal *model.User, id uuid.UUID) ([]byte, string, error)
}

type vacacionesService struct {
	solicitudRepo repository.SolicitudRepository
	userRepo      repository.UserRepository
	auditRepo     repository.AuditRepository
	tx            repository.TransactionManager
	files         *storage.FileStore
}

// NewVacacionesService returns a new instance of VacacionesService
func NewVacacionesService(
	solicitudRepo repository.SolicitudRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	tx repository.TransactionManager,
	files *storage.FileStore,
) VacacionesService {
	return &vacacionesService{
		solicitudRepo: solicitudRepo,
		userRepo:      userRepo,
		auditRepo:     auditRepo,
		tx:            tx,
		files:         files,
	}
}

// puedeGestionar reports whether the principal may decide requests and see
// other employees' requests.
func puedeGestionar(principal *model.User) bool {
	return principal.Rol == model.RoleAdmin || principal.Rol == model.RoleJefeTaller
}

// DiasEquivalentes converts a request quantity to whole-day terms for
// balance math: half days and hour requests consume fractions of a day.
func DiasEquivalentes(tipo string, cantidad decimal.Decimal) decimal.Decimal {
	switch tipo {
	case model.SolicitudMedioDia:
		return cantidad.Div(decimal.NewFromInt(2))
	case model.SolicitudHoras:
		return cantidad.Div(horasPorDia)
	default:
		return cantidad
	}
}

func (s *vacacionesService) getEmpleado(ctx context.Context, id uuid.UUID) (*model.User, error) {
	empleado, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Empleado no encontrado")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar el empleado", err)
	}
	return empleado, nil
}

// Resumen re-derives the employee's balance from tenure and counters. The
// available figure is never stored so it can never drift stale.
func (s *vacacionesService) Resumen(ctx context.Context, empleadoID uuid.UUID) (*VacacionesResumen, error) {
	empleado, err := s.getEmpleado(ctx, empleadoID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &VacacionesResumen{
		EmpleadoID:          empleado.ID,
		NombreCompleto:      empleado.NombreCompleto,
		AntiguedadAnios:     empleado.TenureYears(now),
		DiasPorLey:          empleado.VacationDaysPerYear(now),
		DiasAniosAnteriores: empleado.DiasVacacionesAnteriores,
		DiasTomados:         empleado.DiasVacacionesTomados,
		DiasDisponibles:     empleado.AvailableVacationDays(now),
	}, nil
}

func (s *vacacionesService) Create(ctx context.Context, principal *model.User, input CreateSolicitudInput) (*model.SolicitudVacaciones, error) {
	empleadoID := principal.ID
	if input.EmpleadoID != nil && *input.EmpleadoID != principal.ID {
		if !puedeGestionar(principal) {
			return nil, apierror.New(apierror.Forbidden, "No puedes crear solicitudes para otros empleados")
		}
		empleadoID = *input.EmpleadoID
	}

	empleado, err := s.getEmpleado(ctx, empleadoID)
	if err != nil {
		return nil, err
	}

	tipo := input.Tipo
	if tipo == "" {
		tipo = model.SolicitudDiasCompletos
	}
	if !model.ValidTipoSolicitud(tipo) {
		return nil, apierror.Newf(apierror.InvalidInput, "Tipo de solicitud inválido: %s", tipo)
	}
	if !input.Cantidad.IsPositive() {
		return nil, apierror.New(apierror.InvalidInput, "La cantidad debe ser mayor a cero")
	}

	now := time.Now()
	dias := DiasEquivalentes(tipo, input.Cantidad)
	disponibles := empleado.AvailableVacationDays(now)
	if dias.GreaterThan(decimal.NewFromInt(int64(disponibles))) {
		return nil, apierror.Newf(apierror.InvalidInput,
			"Días insuficientes: solicita %s y solo tiene %d disponibles", dias.String(), disponibles)
	}

	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if input.FechaInicio.Before(hoy) {
		return nil, apierror.New(apierror.InvalidInput, "La fecha de inicio no puede ser anterior a hoy")
	}
	if input.FechaFin.Before(input.FechaInicio) {
		return nil, apierror.New(apierror.InvalidInput, "La fecha de fin no puede ser anterior a la de inicio")
	}

	solicitud := &model.SolicitudVacaciones{
		EmpleadoID:     empleadoID,
		FechaSolicitud: now,
		FechaInicio:    input.FechaInicio,
		FechaFin:       input.FechaFin,
		Tipo:           tipo,
		Cantidad:       input.Cantidad,
		Estado:         model.SolicitudPendiente,
		Observaciones:  input.Observaciones,
	}

	if err := s.solicitudRepo.Create(ctx, solicitud); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al crear la solicitud", err)
	}

	// The printable form is generated at submission and its URL stored with
	// the request. A rendering failure does not undo the submission.
	if contenido, err := pdf.SolicitudVacaciones(solicitud, empleado, disponibles, now); err == nil {
		nombre := fmt.Sprintf("solicitud_%s.pdf", solicitud.ID.String()[:8])
		if url, err := s.files.SaveBytes("vacaciones", nombre, contenido); err == nil {
			solicitud.PdfURL = url
			_ = s.solicitudRepo.Update(ctx, solicitud)
		}
	}

	s.auditVacaciones(ctx, principal, model.ActionCreateSolicitud, solicitud, empleado)
	return solicitud, nil
}

func (s *vacacionesService) auditVacaciones(ctx context.Context, principal *model.User, action string, solicitud *model.SolicitudVacaciones, empleado *model.User) {
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   solicitud.ID.String(),
		EntityName: empleado.NombreCompleto,
		Details: fmt.Sprintf(`{"empleado":%q,"tipo":%q,"cantidad":%q,"estado":%q}`,
			empleado.NombreCompleto, solicitud.Tipo, solicitud.Cantidad.String(), solicitud.Estado),
		CreatedAt: time.Now(),
	}
	id := principal.ID
	entry.UserID = &id
	_ = s.auditRepo.Create(ctx, entry)
}

func (s *vacacionesService) GetByID(ctx context.Context, principal *model.User, id uuid.UUID) (*model.SolicitudVacaciones, error) {
	solicitud, err := s.solicitudRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.New(apierror.NotFound, "Solicitud no encontrada")
		}
		return nil, apierror.Wrap(apierror.Internal, "error al consultar la solicitud", err)
	}
	if solicitud.EmpleadoID != principal.ID && !puedeGestionar(principal) {
		return nil, apierror.New(apierror.Forbidden, "No tienes acceso a esta solicitud")
	}
	return solicitud, nil
}

// Update edits a request that has not been decided yet. Only the requesting
// employee may edit it; managers decide, they do not rewrite.
func (s *vacacionesService) Update(ctx context.Context, principal *model.User, id uuid.UUID, input UpdateSolicitudInput) (*model.SolicitudVacaciones, error) {
	solicitud, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if solicitud.EmpleadoID != principal.ID {
		return nil, apierror.New(apierror.Forbidden, "Solo el empleado solicitante puede editar su solicitud")
	}
	if solicitud.Decidida() {
		return nil, apierror.New(apierror.Conflict, "La solicitud ya fue decidida")
	}

	if input.Tipo != nil {
		if !model.ValidTipoSolicitud(*input.Tipo) {
			return nil, apierror.Newf(apierror.InvalidInput, "Tipo de solicitud inválido: %s", *input.Tipo)
		}
		solicitud.Tipo = *input.Tipo
	}
	if input.Cantidad != nil {
		if !input.Cantidad.IsPositive() {
			return nil, apierror.New(apierror.InvalidInput, "La cantidad debe ser mayor a cero")
		}
		solicitud.Cantidad = *input.Cantidad
	}
	if input.FechaInicio != nil {
		solicitud.FechaInicio = *input.FechaInicio
	}
	if input.FechaFin != nil {
		solicitud.FechaFin = *input.FechaFin
	}
	if input.Observaciones != nil {
		solicitud.Observaciones = *input.Observaciones
	}

	// The edited request must pass the same checks as a fresh one.
	empleado, err := s.getEmpleado(ctx, solicitud.EmpleadoID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	dias := DiasEquivalentes(solicitud.Tipo, solicitud.Cantidad)
	disponibles := empleado.AvailableVacationDays(now)
	if dias.GreaterThan(decimal.NewFromInt(int64(disponibles))) {
		return nil, apierror.Newf(apierror.InvalidInput,
			"Días insuficientes: solicita %s y solo tiene %d disponibles", dias.String(), disponibles)
	}
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if solicitud.FechaInicio.Before(hoy) {
		return nil, apierror.New(apierror.InvalidInput, "La fecha de inicio no puede ser anterior a hoy")
	}
	if solicitud.FechaFin.Before(solicitud.FechaInicio) {
		return nil, apierror.New(apierror.InvalidInput, "La fecha de fin no puede ser anterior a la de inicio")
	}

	if err := s.solicitudRepo.Update(ctx, solicitud); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al actualizar la solicitud", err)
	}
	return solicitud, nil
}

func (s *vacacionesService) List(ctx context.Context, principal *model.User, filter repository.SolicitudFilter) ([]model.SolicitudVacaciones, int64, error) {
	// Regular employees only ever see their own requests.
	if !puedeGestionar(principal) {
		id := principal.ID
		filter.EmpleadoID = &id
	}

	solicitudes, total, err := s.solicitudRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apierror.Wrap(apierror.Internal, "error al listar solicitudes", err)
	}
	return solicitudes, total, nil
}

// Aprobar grants a pending request and debits the employee's counter in the
// same transaction, so a crash cannot leave an approved request whose days
// were never discounted. The balance is re-validated at decision time: it may
// have shrunk since submission if other requests were approved in between.
func (s *vacacionesService) Aprobar(ctx context.Context, principal *model.User, id uuid.UUID) (*model.SolicitudVacaciones, error) {
	solicitud, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if solicitud.Decidida() {
		return nil, apierror.New(apierror.Conflict, "La solicitud ya fue decidida")
	}

	now := time.Now()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction: a concurrent decision may have
		// landed after the check above, and a second debit must not happen.
		actual, err := s.solicitudRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if actual.Decidida() {
			return apierror.New(apierror.Conflict, "La solicitud ya fue decidida")
		}
		dias := int(DiasEquivalentes(actual.Tipo, actual.Cantidad).Ceil().IntPart())

		empleado, err := s.userRepo.GetByID(txCtx, actual.EmpleadoID)
		if err != nil {
			return err
		}
		if disponibles := empleado.AvailableVacationDays(now); dias > disponibles {
			return apierror.Newf(apierror.InvalidInput,
				"Días insuficientes: la solicitud requiere %d y el empleado tiene %d disponibles", dias, disponibles)
		}
		empleado.DiasVacacionesTomados += dias
		if err := s.userRepo.Update(txCtx, empleado); err != nil {
			return err
		}

		actual.Estado = model.SolicitudAprobada
		aprobadaPor := principal.ID
		actual.AprobadaPorID = &aprobadaPor
		actual.FechaAprobacion = &now
		if err := s.solicitudRepo.Update(txCtx, actual); err != nil {
			return err
		}
		solicitud = actual
		return nil
	})
	if err != nil {
		var ae *apierror.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apierror.Wrap(apierror.Internal, "error al aprobar la solicitud", err)
	}

	if solicitud.Empleado != nil {
		s.auditVacaciones(ctx, principal, model.ActionAprobarSolicitud, solicitud, solicitud.Empleado)
	}
	return solicitud, nil
}

func (s *vacacionesService) Rechazar(ctx context.Context, principal *model.User, id uuid.UUID, motivo string) (*model.SolicitudVacaciones, error) {
	if motivo == "" {
		return nil, apierror.New(apierror.InvalidInput, "El motivo de rechazo es obligatorio")
	}

	solicitud, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if solicitud.Decidida() {
		return nil, apierror.New(apierror.Conflict, "La solicitud ya fue decidida")
	}

	now := time.Now()
	solicitud.Estado = model.SolicitudRechazada
	aprobadaPor := principal.ID
	solicitud.AprobadaPorID = &aprobadaPor
	solicitud.FechaAprobacion = &now
	solicitud.MotivoRechazo = motivo

	if err := s.solicitudRepo.Update(ctx, solicitud); err != nil {
		return nil, apierror.Wrap(apierror.Internal, "error al rechazar la solicitud", err)
	}

	if solicitud.Empleado != nil {
		s.auditVacaciones(ctx, principal, model.ActionRechazarSolicitud, solicitud, solicitud.Empleado)
	}
	return solicitud, nil
}

// Delete removes a request that never consumed days. An approved request
// holds a counter debit and must stay on record.
func (s *vacacionesService) Delete(ctx context.Context, principal *model.User, id uuid.UUID) error {
	solicitud, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return err
	}

	if solicitud.Estado != model.SolicitudPendiente && solicitud.Estado != model.SolicitudRechazada {
		return apierror.New(apierror.Conflict, "Solo se pueden eliminar solicitudes pendientes o rechazadas")
	}

	if err := s.solicitudRepo.Delete(ctx, id); err != nil {
		return apierror.Wrap(apierror.Internal, "error al eliminar la solicitud", err)
	}
	return nil
}

// GenerarPDF re-renders the request form on demand, so the download works
// even when the stored copy was lost or the request predates PDF storage.
func (s *vacacionesService) GenerarPDF(ctx context.Context, principal *model.User, id uuid.UUID) ([]byte, string, error) {
	solicitud, err := s.GetByID(ctx, principal, id)
	if err != nil {
		return nil, "", err
	}

	empleado, err := s.getEmpleado(ctx, solicitud.EmpleadoID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	contenido, err := pdf.SolicitudVacaciones(solicitud, empleado, empleado.AvailableVacationDays(now), now)
	if err != nil {
		return nil, "", apierror.Wrap(apierror.Internal, "error al generar el PDF", err)
	}

	return contenido, fmt.Sprintf("solicitud_%s.pdf", solicitud.ID.String()[:8]), nil
}
