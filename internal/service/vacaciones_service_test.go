package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVacacionesFixture(t *testing.T, empleados ...*model.User) (VacacionesService, *memSolicitudRepo, *memUserRepo) {
	t.Helper()

	solicitudRepo := newMemSolicitudRepo()
	userRepo := newMemUserRepo(empleados...)
	files, err := storage.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := NewVacacionesService(solicitudRepo, userRepo, &memAuditRepo{}, memTx{}, files)
	return svc, solicitudRepo, userRepo
}

// empleadoConAntiguedad builds an active employee with the given whole years
// of tenure and vacation counters.
func empleadoConAntiguedad(anios, tomados, anteriores int) *model.User {
	ingreso := time.Now().AddDate(-anios, 0, -30)
	return &model.User{
		Username:                 "empleado",
		NombreCompleto:           "Empleado de Prueba",
		Rol:                      model.RoleTecnico,
		Activo:                   true,
		FechaIngreso:             &ingreso,
		DiasVacacionesTomados:    tomados,
		DiasVacacionesAnteriores: anteriores,
	}
}

func TestResumenDerivesBalance(t *testing.T) {
	empleado := empleadoConAntiguedad(3, 4, 2)
	svc, _, _ := newVacacionesFixture(t, empleado)

	resumen, err := svc.Resumen(context.Background(), empleado.ID)
	require.NoError(t, err)

	// 3 years of tenure: 18 by law, +2 carried, -4 taken.
	assert.Equal(t, 3, resumen.AntiguedadAnios)
	assert.Equal(t, 18, resumen.DiasPorLey)
	assert.Equal(t, 16, resumen.DiasDisponibles)
}

func TestCreateSolicitudInsufficientBalance(t *testing.T) {
	empleado := empleadoConAntiguedad(0, 10, 0) // 12 - 10 = 2 available
	svc, _, _ := newVacacionesFixture(t, empleado)

	manana := time.Now().AddDate(0, 0, 1)
	_, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, 4),
		Cantidad:    decimal.NewFromInt(5),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
	assert.Contains(t, err.Error(), "insuficientes")
}

func TestCreateSolicitudDateValidation(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	svc, _, _ := newVacacionesFixture(t, empleado)

	ayer := time.Now().AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: ayer,
		FechaFin:    ayer.AddDate(0, 0, 2),
		Cantidad:    decimal.NewFromInt(2),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))

	manana := time.Now().AddDate(0, 0, 1)
	_, err = svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, -3),
		Cantidad:    decimal.NewFromInt(2),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestAprobarDebitsCounterOnce(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	jefe := &model.User{Username: "jefe", Rol: model.RoleJefeTaller, Activo: true}
	svc, _, userRepo := newVacacionesFixture(t, empleado, jefe)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, 2),
		Cantidad:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SolicitudPendiente, solicitud.Estado)

	aprobada, err := svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SolicitudAprobada, aprobada.Estado)
	require.NotNil(t, aprobada.AprobadaPorID)
	assert.Equal(t, jefe.ID, *aprobada.AprobadaPorID)

	actualizado, err := userRepo.GetByID(context.Background(), empleado.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, actualizado.DiasVacacionesTomados)

	// The decision is final: a second approval or a rejection conflicts.
	_, err = svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	_, err = svc.Rechazar(context.Background(), jefe, solicitud.ID, "cambio de planes")
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	assert.Equal(t, 3, actualizado.DiasVacacionesTomados)
}

// memTxRechazaAntes simulates a concurrent decision landing between the
// service's precheck and its transaction: the request flips to RECHAZADA
// right before the transactional section runs.
type memTxRechazaAntes struct {
	solicitud *model.SolicitudVacaciones
}

func (t memTxRechazaAntes) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	t.solicitud.Estado = model.SolicitudRechazada
	return fn(ctx)
}

func TestAprobarConcurrentDecisionConflicts(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	jefe := &model.User{Username: "jefe", Rol: model.RoleJefeTaller, Activo: true}

	solicitudRepo := newMemSolicitudRepo()
	userRepo := newMemUserRepo(empleado, jefe)
	files, err := storage.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	plain := NewVacacionesService(solicitudRepo, userRepo, &memAuditRepo{}, memTx{}, files)
	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := plain.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, 2),
		Cantidad:    decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	guardada, err := solicitudRepo.GetByID(context.Background(), solicitud.ID)
	require.NoError(t, err)

	svc := NewVacacionesService(solicitudRepo, userRepo, &memAuditRepo{}, memTxRechazaAntes{solicitud: guardada}, files)
	_, err = svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	// The losing approval must not debit the counter or override the state.
	assert.Equal(t, 0, empleado.DiasVacacionesTomados)
	assert.Equal(t, model.SolicitudRechazada, guardada.Estado)
}

func TestAprobarRevalidatesBalance(t *testing.T) {
	empleado := empleadoConAntiguedad(0, 0, 0) // 12 available
	jefe := &model.User{Username: "jefe", Rol: model.RoleJefeTaller, Activo: true}
	svc, solicitudRepo, _ := newVacacionesFixture(t, empleado, jefe)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, 9),
		Cantidad:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// The balance shrank between submission and decision.
	empleado.DiasVacacionesTomados = 5

	_, err = svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))

	// Nothing was committed.
	guardada, err := solicitudRepo.GetByID(context.Background(), solicitud.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SolicitudPendiente, guardada.Estado)
	assert.Equal(t, 5, empleado.DiasVacacionesTomados)
}

func TestUpdateSolicitudOnlyOwnerWhilePending(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	jefe := &model.User{Username: "jefe", Rol: model.RoleAdmin, Activo: true}
	svc, _, _ := newVacacionesFixture(t, empleado, jefe)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana,
		Cantidad:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	// A manager can see the request but not rewrite it.
	obs := "cambio"
	_, err = svc.Update(context.Background(), jefe, solicitud.ID, UpdateSolicitudInput{Observaciones: &obs})
	require.Error(t, err)
	assert.Equal(t, apierror.Forbidden, apierror.KindOf(err))

	dos := decimal.NewFromInt(2)
	actualizada, err := svc.Update(context.Background(), empleado, solicitud.ID, UpdateSolicitudInput{Cantidad: &dos, Observaciones: &obs})
	require.NoError(t, err)
	assert.True(t, actualizada.Cantidad.Equal(dos))
	assert.Equal(t, "cambio", actualizada.Observaciones)

	// Once decided the request is frozen.
	_, err = svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), empleado, solicitud.ID, UpdateSolicitudInput{Observaciones: &obs})
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))
}

func TestRechazarRequiresMotivo(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	jefe := &model.User{Username: "jefe", Rol: model.RoleAdmin, Activo: true}
	svc, _, _ := newVacacionesFixture(t, empleado, jefe)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana,
		Cantidad:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	_, err = svc.Rechazar(context.Background(), jefe, solicitud.ID, "")
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))

	rechazada, err := svc.Rechazar(context.Background(), jefe, solicitud.ID, "temporada alta")
	require.NoError(t, err)
	assert.Equal(t, model.SolicitudRechazada, rechazada.Estado)
	assert.Equal(t, "temporada alta", rechazada.MotivoRechazo)
}

func TestDeleteSolicitudOnlyUndecidedOrRejected(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	jefe := &model.User{Username: "jefe", Rol: model.RoleAdmin, Activo: true}
	svc, _, _ := newVacacionesFixture(t, empleado, jefe)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana,
		Cantidad:    decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	_, err = svc.Aprobar(context.Background(), jefe, solicitud.ID)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), jefe, solicitud.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))
}

func TestListScopesToOwnRequests(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	otro := empleadoConAntiguedad(5, 0, 0)
	otro.Username = "otro"
	svc, _, _ := newVacacionesFixture(t, empleado, otro)

	manana := time.Now().AddDate(0, 0, 1)
	_, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana, FechaFin: manana, Cantidad: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), otro, CreateSolicitudInput{
		FechaInicio: manana, FechaFin: manana, Cantidad: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	solicitudes, total, err := svc.List(context.Background(), empleado, repository.SolicitudFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, solicitudes, 1)
	assert.Equal(t, empleado.ID, solicitudes[0].EmpleadoID)
}

func TestCreateForOtherRequiresManager(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	otro := empleadoConAntiguedad(5, 0, 0)
	otro.Username = "otro"
	svc, _, _ := newVacacionesFixture(t, empleado, otro)

	manana := time.Now().AddDate(0, 0, 1)
	_, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		EmpleadoID:  &otro.ID,
		FechaInicio: manana,
		FechaFin:    manana,
		Cantidad:    decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.Forbidden, apierror.KindOf(err))
}

func TestDiasEquivalentes(t *testing.T) {
	assert.True(t, DiasEquivalentes(model.SolicitudDiasCompletos, decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)))
	assert.True(t, DiasEquivalentes(model.SolicitudMedioDia, decimal.NewFromInt(1)).Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, DiasEquivalentes(model.SolicitudHoras, decimal.NewFromInt(8)).Equal(decimal.NewFromInt(1)))
	assert.True(t, DiasEquivalentes(model.SolicitudHoras, decimal.NewFromInt(4)).Equal(decimal.NewFromFloat(0.5)))
}

func TestCreateGeneratesPDF(t *testing.T) {
	empleado := empleadoConAntiguedad(5, 0, 0)
	svc, solicitudRepo, _ := newVacacionesFixture(t, empleado)

	manana := time.Now().AddDate(0, 0, 1)
	solicitud, err := svc.Create(context.Background(), empleado, CreateSolicitudInput{
		FechaInicio: manana,
		FechaFin:    manana.AddDate(0, 0, 1),
		Cantidad:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	guardada, err := solicitudRepo.GetByID(context.Background(), solicitud.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, guardada.PdfURL)

	contenido, nombre, err := svc.GenerarPDF(context.Background(), empleado, solicitud.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, contenido)
	assert.Contains(t, nombre, ".pdf")
}
