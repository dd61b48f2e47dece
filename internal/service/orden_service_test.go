package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"backend/internal/apierror"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimal500() decimal.Decimal {
	return decimal.NewFromInt(500)
}

func newOrdenFixture(t *testing.T) (OrdenService, *memOrdenRepo, *memClienteRepo, *memUserRepo, *memAuditRepo) {
	t.Helper()

	ordenRepo := newMemOrdenRepo()
	clienteRepo := newMemClienteRepo(&model.Cliente{Nombre: "Juan", Telefono: "8112345678", Activo: true})
	userRepo := newMemUserRepo()
	auditRepo := &memAuditRepo{}

	files, err := storage.NewFileStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := NewOrdenService(ordenRepo, clienteRepo, userRepo, auditRepo, memTx{}, websocket.NewHub(), files)
	return svc, ordenRepo, clienteRepo, userRepo, auditRepo
}

func soloClienteID(r *memClienteRepo) uuid.UUID {
	for id := range r.clientes {
		return id
	}
	return uuid.Nil
}

func adminPrincipal() *model.User {
	return &model.User{ID: uuid.New(), Rol: model.RoleAdmin, Activo: true}
}

func TestCreateOrdenAssignsSequentialFolios(t *testing.T) {
	svc, _, clienteRepo, _, auditRepo := newOrdenFixture(t)
	principal := adminPrincipal()
	clienteID := soloClienteID(clienteRepo)
	year := time.Now().Year()

	for i := 1; i <= 3; i++ {
		orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
			ClienteID:   clienteID,
			Descripcion: "Reparación de bomba",
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("OT-%d-%04d", year, i), orden.Folio)
		assert.Equal(t, model.OrdenRecibido, orden.Estatus)
		assert.Equal(t, principal.ID, orden.UsuarioRecepcionID)
	}

	assert.Len(t, auditRepo.entries, 3)
	assert.Equal(t, model.ActionCreateOrden, auditRepo.entries[0].Action)
}

func TestFolioSurvivesDeletedOrders(t *testing.T) {
	svc, _, clienteRepo, _, _ := newOrdenFixture(t)
	principal := adminPrincipal()
	clienteID := soloClienteID(clienteRepo)
	year := time.Now().Year()

	primera, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   clienteID,
		Descripcion: "x",
	})
	require.NoError(t, err)

	segunda, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   clienteID,
		Descripcion: "y",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OT-%d-0002", year), segunda.Folio)

	// Deleting an earlier order must not make the sequence collide with
	// the surviving folio.
	require.NoError(t, svc.Delete(context.Background(), principal, primera.ID))

	tercera, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   clienteID,
		Descripcion: "z",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("OT-%d-0003", year), tercera.Folio)
}

func TestCreateOrdenRejectsClienteInactivo(t *testing.T) {
	svc, _, clienteRepo, _, _ := newOrdenFixture(t)
	clienteID := soloClienteID(clienteRepo)
	clienteRepo.clientes[clienteID].Activo = false

	_, err := svc.Create(context.Background(), adminPrincipal(), CreateOrdenInput{
		ClienteID:   clienteID,
		Descripcion: "x",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestCambiarEstadoStampsAndAudits(t *testing.T) {
	svc, ordenRepo, clienteRepo, _, auditRepo := newOrdenFixture(t)
	principal := adminPrincipal()

	orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "Cambio de balatas",
	})
	require.NoError(t, err)

	actualizada, err := svc.CambiarEstado(context.Background(), principal, orden.ID, model.OrdenProceso, "inicia trabajo")
	require.NoError(t, err)
	assert.Equal(t, model.OrdenProceso, actualizada.Estatus)
	require.NotNil(t, actualizada.FechaInicioTrabajo)
	assert.Contains(t, actualizada.Observaciones, "inicia trabajo")

	primera := *actualizada.FechaInicioTrabajo

	// Pause and resume: the start stamp must not move.
	_, err = svc.CambiarEstado(context.Background(), principal, orden.ID, model.OrdenPausa, "")
	require.NoError(t, err)
	actualizada, err = svc.CambiarEstado(context.Background(), principal, orden.ID, model.OrdenProceso, "")
	require.NoError(t, err)
	assert.Equal(t, primera, *actualizada.FechaInicioTrabajo)

	assert.Equal(t, model.OrdenProceso, ordenRepo.ordenes[orden.ID].Estatus)

	var cambios int
	for _, e := range auditRepo.entries {
		if e.Action == model.ActionCambiarEstado {
			cambios++
		}
	}
	assert.Equal(t, 3, cambios)
}

func TestCambiarEstadoRejectsUnknownStatus(t *testing.T) {
	svc, _, clienteRepo, _, _ := newOrdenFixture(t)
	principal := adminPrincipal()

	orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "x",
	})
	require.NoError(t, err)

	_, err = svc.CambiarEstado(context.Background(), principal, orden.ID, "VOLANDO", "")
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestDeleteOrdenOnlyWhileRecibido(t *testing.T) {
	svc, _, clienteRepo, _, _ := newOrdenFixture(t)
	principal := adminPrincipal()

	orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "x",
	})
	require.NoError(t, err)

	_, err = svc.CambiarEstado(context.Background(), principal, orden.ID, model.OrdenProceso, "")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), principal, orden.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Conflict, apierror.KindOf(err))

	fresca, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "y",
	})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(context.Background(), principal, fresca.ID))
}

func TestTecnicoScoping(t *testing.T) {
	svc, ordenRepo, clienteRepo, userRepo, _ := newOrdenFixture(t)
	principal := adminPrincipal()

	tecnico := &model.User{Rol: model.RoleTecnico, Activo: true}
	require.NoError(t, userRepo.Create(context.Background(), tecnico))

	asignada, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:         soloClienteID(clienteRepo),
		Descripcion:       "suya",
		TecnicoAsignadoID: &tecnico.ID,
	})
	require.NoError(t, err)

	ajena, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "de otro",
	})
	require.NoError(t, err)

	// The list is forced to the technician's own orders.
	ordenes, total, err := svc.List(context.Background(), tecnico, repository.OrdenFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, ordenes, 1)
	assert.Equal(t, asignada.ID, ordenes[0].ID)

	// Direct access to someone else's order is refused.
	_, err = svc.GetByID(context.Background(), tecnico, ajena.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.Forbidden, apierror.KindOf(err))

	// A technician cannot touch pricing.
	precio := decimal500()
	_, err = svc.Update(context.Background(), tecnico, asignada.ID, UpdateOrdenInput{Anticipo: &precio})
	require.Error(t, err)
	assert.Equal(t, apierror.Forbidden, apierror.KindOf(err))

	// But may update the narrative fields.
	obs := "se detectó fuga"
	actualizada, err := svc.Update(context.Background(), tecnico, asignada.ID, UpdateOrdenInput{Observaciones: &obs})
	require.NoError(t, err)
	assert.Equal(t, obs, actualizada.Observaciones)
	assert.Equal(t, obs, ordenRepo.ordenes[asignada.ID].Observaciones)
}

func TestSubirFotoEntradaSalidaAsymmetry(t *testing.T) {
	svc, ordenRepo, clienteRepo, _, _ := newOrdenFixture(t)
	principal := adminPrincipal()

	orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "x",
	})
	require.NoError(t, err)

	// Entry photos accumulate; the first fills the legacy field for good.
	conFoto, err := svc.SubirFoto(context.Background(), principal, orden.ID, FotoEntrada, "frente.jpg", strings.NewReader("img1"))
	require.NoError(t, err)
	primera := conFoto.FotoEntrada
	assert.NotEmpty(t, primera)

	conFoto, err = svc.SubirFoto(context.Background(), principal, orden.ID, FotoEntrada, "lateral.jpg", strings.NewReader("img2"))
	require.NoError(t, err)
	assert.Equal(t, primera, conFoto.FotoEntrada)
	assert.Len(t, ordenRepo.fotos, 2)

	// The exit photo is a single overwritable slot, no history rows.
	conFoto, err = svc.SubirFoto(context.Background(), principal, orden.ID, FotoSalida, "final.jpg", strings.NewReader("img3"))
	require.NoError(t, err)
	salida1 := conFoto.FotoSalida
	conFoto, err = svc.SubirFoto(context.Background(), principal, orden.ID, FotoSalida, "final2.jpg", strings.NewReader("img4"))
	require.NoError(t, err)
	assert.NotEqual(t, salida1, conFoto.FotoSalida)
	assert.Len(t, ordenRepo.fotos, 2)

	_, err = svc.SubirFoto(context.Background(), principal, orden.ID, "panoramica", "x.jpg", strings.NewReader("img"))
	require.Error(t, err)
	assert.Equal(t, apierror.InvalidInput, apierror.KindOf(err))
}

func TestSubtareaLifecycle(t *testing.T) {
	svc, _, clienteRepo, _, _ := newOrdenFixture(t)
	principal := adminPrincipal()

	orden, err := svc.Create(context.Background(), principal, CreateOrdenInput{
		ClienteID:   soloClienteID(clienteRepo),
		Descripcion: "x",
	})
	require.NoError(t, err)

	subtarea, err := svc.CreateSubtarea(context.Background(), principal, orden.ID, SubtareaInput{Titulo: "Desarmar"})
	require.NoError(t, err)
	assert.Equal(t, model.SubtareaPendiente, subtarea.Estado)

	enProceso := model.SubtareaEnProceso
	subtarea, err = svc.UpdateSubtarea(context.Background(), principal, orden.ID, subtarea.ID, UpdateSubtareaInput{Estado: &enProceso})
	require.NoError(t, err)
	require.NotNil(t, subtarea.FechaInicio)
	inicio := *subtarea.FechaInicio

	completada := model.SubtareaCompletada
	subtarea, err = svc.UpdateSubtarea(context.Background(), principal, orden.ID, subtarea.ID, UpdateSubtareaInput{Estado: &completada})
	require.NoError(t, err)
	require.NotNil(t, subtarea.FechaCompletada)
	assert.Equal(t, inicio, *subtarea.FechaInicio)
}
