package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFolio(t *testing.T) {
	assert.Equal(t, "OT-2026-0001", FormatFolio(2026, 1))
	assert.Equal(t, "OT-2026-0042", FormatFolio(2026, 42))
	assert.Equal(t, "OT-2027-10000", FormatFolio(2027, 10000))
	assert.Equal(t, "OT-2026-", FolioPrefix(2026))
}

func TestPorcentajeCompletado(t *testing.T) {
	orden := &OrdenTrabajo{}
	assert.Equal(t, 0, orden.PorcentajeCompletado())

	orden.Subtareas = []SubtareaOrden{
		{Estado: SubtareaCompletada},
		{Estado: SubtareaPendiente},
		{Estado: SubtareaEnProceso},
	}
	assert.Equal(t, 33, orden.PorcentajeCompletado())

	orden.Subtareas = []SubtareaOrden{
		{Estado: SubtareaCompletada},
		{Estado: SubtareaCompletada},
	}
	assert.Equal(t, 100, orden.PorcentajeCompletado())
}

func TestAplicarEstadoStampsMilestonesOnce(t *testing.T) {
	primero := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	despues := primero.Add(48 * time.Hour)

	orden := &OrdenTrabajo{Estatus: OrdenRecibido}

	orden.AplicarEstado(OrdenProceso, "", primero)
	assert.Equal(t, OrdenProceso, orden.Estatus)
	assert.NotNil(t, orden.FechaInicioTrabajo)
	assert.Equal(t, primero, *orden.FechaInicioTrabajo)

	// Leaving and re-entering the milestone keeps the first stamp.
	orden.AplicarEstado(OrdenPausa, "", despues)
	orden.AplicarEstado(OrdenProceso, "", despues)
	assert.Equal(t, primero, *orden.FechaInicioTrabajo)

	orden.AplicarEstado(OrdenTerminado, "", despues)
	assert.Equal(t, despues, *orden.FechaTerminado)
	orden.AplicarEstado(OrdenEntregado, "", despues)
	assert.Equal(t, despues, *orden.FechaEntrega)
}

func TestAplicarEstadoAppendsNota(t *testing.T) {
	cuando := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	orden := &OrdenTrabajo{Estatus: OrdenRecibido}

	orden.AplicarEstado(OrdenDiagnostico, "se revisa la unidad", cuando)
	assert.Equal(t, "[2026-03-01 10:30] se revisa la unidad", orden.Observaciones)

	orden.AplicarEstado(OrdenProceso, "inicia reparación", cuando)
	assert.Equal(t,
		"[2026-03-01 10:30] se revisa la unidad\n\n[2026-03-01 10:30] inicia reparación",
		orden.Observaciones)

	// Empty note leaves observations untouched.
	antes := orden.Observaciones
	orden.AplicarEstado(OrdenPausa, "", cuando)
	assert.Equal(t, antes, orden.Observaciones)
}

func TestVisiblePara(t *testing.T) {
	tecnico := uuid.New()
	otro := uuid.New()

	orden := &OrdenTrabajo{TecnicoAsignadoID: &tecnico}
	assert.True(t, orden.VisiblePara(tecnico, RoleTecnico))
	assert.False(t, orden.VisiblePara(otro, RoleTecnico))
	assert.True(t, orden.VisiblePara(otro, RoleAdmin))
	assert.True(t, orden.VisiblePara(otro, RoleRecepcion))

	sinTecnico := &OrdenTrabajo{}
	assert.False(t, sinTecnico.VisiblePara(tecnico, RoleTecnico))
	assert.True(t, sinTecnico.VisiblePara(tecnico, RoleAdmin))
}

func TestSaldoPendiente(t *testing.T) {
	orden := &OrdenTrabajo{Anticipo: decimal.NewFromInt(500)}
	assert.True(t, orden.SaldoPendiente().IsZero())

	orden.PrecioFinal = decimal.NewNullDecimal(decimal.NewFromInt(1500))
	assert.True(t, orden.SaldoPendiente().Equal(decimal.NewFromInt(1000)))
}

func TestOrdenJSONIncludesDerivedFields(t *testing.T) {
	promesa := time.Now().Add(-24 * time.Hour)
	orden := OrdenTrabajo{
		Estatus:        OrdenProceso,
		FechaRecepcion: time.Now().Add(-72 * time.Hour),
		FechaPromesa:   &promesa,
		Anticipo:       decimal.NewFromInt(500),
		PrecioFinal:    decimal.NewNullDecimal(decimal.NewFromInt(1500)),
		Subtareas: []SubtareaOrden{
			{Estado: SubtareaCompletada},
			{Estado: SubtareaPendiente},
		},
	}

	raw, err := json.Marshal(&orden)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, float64(3), got["dias_desde_recepcion"])
	assert.Equal(t, true, got["esta_retrasada"])
	assert.Equal(t, float64(50), got["porcentaje_completado"])
	assert.Equal(t, "1000", got["saldo_pendiente"])
}

func TestEstaRetrasada(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	promesa := now.Add(-24 * time.Hour)

	orden := &OrdenTrabajo{Estatus: OrdenProceso, FechaPromesa: &promesa}
	assert.True(t, orden.EstaRetrasada(now))

	orden.Estatus = OrdenEntregado
	assert.False(t, orden.EstaRetrasada(now))

	sinPromesa := &OrdenTrabajo{Estatus: OrdenProceso}
	assert.False(t, sinPromesa.EstaRetrasada(now))
}
