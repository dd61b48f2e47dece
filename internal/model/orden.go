package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoOrden enum constants. The values describe the typical progression
// but transitions are not forced to follow this order: an authorized caller
// may set any status at any time.
const (
	OrdenRecibido    = "RECIBIDO"
	OrdenDiagnostico = "DIAGNOSTICO"
	OrdenEnEspera    = "EN_ESPERA"
	OrdenProceso     = "PROCESO"
	OrdenPausa       = "PAUSA"
	OrdenRevision    = "REVISION"
	OrdenTerminado   = "TERMINADO"
	OrdenEntregado   = "ENTREGADO"
	OrdenFinalizado  = "FINALIZADO"
)

// EstadosOrden lists every valid order status.
var EstadosOrden = []string{
	OrdenRecibido, OrdenDiagnostico, OrdenEnEspera, OrdenProceso, OrdenPausa,
	OrdenRevision, OrdenTerminado, OrdenEntregado, OrdenFinalizado,
}

// ValidEstadoOrden reports whether estado is a known order status.
func ValidEstadoOrden(estado string) bool {
	for _, e := range EstadosOrden {
		if e == estado {
			return true
		}
	}
	return false
}

// Prioridad enum constants
const (
	PrioridadNormal  = "NORMAL"
	PrioridadUrgente = "URGENTE"
)

// TipoPermiso enum constants
const (
	PermisoCotizacion     = "COTIZACION"
	PermisoOrdenCompra    = "ORDEN_COMPRA"
	PermisoRequisicion    = "REQUISICION"
	PermisoServicioDirecto = "SERVICIO_DIRECTO"
)

// OrdenTrabajo is the central entity: a repair ticket identified by a
// human-readable folio unique per calendar year.
type OrdenTrabajo struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Folio string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"folio"`

	ClienteID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"cliente_id"`
	Cliente            *Cliente   `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	SucursalID         *uuid.UUID `gorm:"type:uuid;index" json:"sucursal_id"`
	CategoriaID        *uuid.UUID `gorm:"type:uuid;index" json:"categoria_id"`
	Categoria          *CategoriaOrden `gorm:"foreignKey:CategoriaID" json:"categoria,omitempty"`
	SubcategoriaID     *uuid.UUID `gorm:"type:uuid;index" json:"subcategoria_id"`
	Subcategoria       *SubcategoriaOrden `gorm:"foreignKey:SubcategoriaID" json:"subcategoria,omitempty"`
	UsuarioRecepcionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"usuario_recepcion_id"`
	UsuarioRecepcion   *User      `gorm:"foreignKey:UsuarioRecepcionID" json:"usuario_recepcion,omitempty"`
	TecnicoAsignadoID  *uuid.UUID `gorm:"type:uuid;index" json:"tecnico_asignado_id"`
	Tecnico            *User      `gorm:"foreignKey:TecnicoAsignadoID" json:"tecnico,omitempty"`

	Descripcion   string `gorm:"type:text;not null" json:"descripcion"`
	Observaciones string `gorm:"type:text" json:"observaciones"`

	// FotoEntrada keeps the legacy single-URL contract: it mirrors the first
	// entry photo so older consumers keep reading a non-empty value. The full
	// history lives in Fotos. FotoSalida stays a single overwritable field.
	FotoEntrada string `gorm:"type:varchar(255)" json:"foto_entrada"`
	FotoSalida  string `gorm:"type:varchar(255)" json:"foto_salida"`

	TipoPermiso   string `gorm:"type:varchar(20)" json:"tipo_permiso"`
	NumeroPermiso string `gorm:"type:varchar(50)" json:"numero_permiso"`

	PrecioEstimado decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"precio_estimado"`
	Anticipo       decimal.Decimal     `gorm:"type:numeric(10,2);default:0;not null" json:"anticipo"`
	PrecioFinal    decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"precio_final"`

	Estatus   string `gorm:"type:varchar(20);not null;default:'RECIBIDO';index" json:"estatus"`
	Prioridad string `gorm:"type:varchar(10);not null;default:'NORMAL';index" json:"prioridad"`

	FechaRecepcion     time.Time  `gorm:"not null;autoCreateTime" json:"fecha_recepcion"`
	FechaPromesa       *time.Time `gorm:"index" json:"fecha_promesa"`
	FechaInicioTrabajo *time.Time `json:"fecha_inicio_trabajo"`
	FechaTerminado     *time.Time `json:"fecha_terminado"`
	FechaEntrega       *time.Time `json:"fecha_entrega"`

	Subtareas []SubtareaOrden `gorm:"foreignKey:OrdenTrabajoID;constraint:OnDelete:CASCADE" json:"subtareas,omitempty"`
	Fotos     []FotoOrden     `gorm:"foreignKey:OrdenTrabajoID;constraint:OnDelete:CASCADE" json:"fotos,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FolioPrefix returns the folio prefix for a calendar year, e.g. "OT-2026-".
func FolioPrefix(year int) string {
	return fmt.Sprintf("OT-%d-", year)
}

// FormatFolio builds a folio from year and sequence, e.g. "OT-2026-0001".
func FormatFolio(year, seq int) string {
	return fmt.Sprintf("%s%04d", FolioPrefix(year), seq)
}

// DiasDesdeRecepcion derives the days elapsed between reception and
// delivery, or until now for undelivered orders.
func (o *OrdenTrabajo) DiasDesdeRecepcion(now time.Time) int {
	if o.FechaEntrega != nil {
		return int(o.FechaEntrega.Sub(o.FechaRecepcion).Hours() / 24)
	}
	return int(now.Sub(o.FechaRecepcion).Hours() / 24)
}

// EstaRetrasada reports whether the promised date has passed while the
// order is not yet delivered or closed.
func (o *OrdenTrabajo) EstaRetrasada(now time.Time) bool {
	if o.FechaPromesa == nil {
		return false
	}
	if o.Estatus == OrdenEntregado || o.Estatus == OrdenFinalizado {
		return false
	}
	return now.After(*o.FechaPromesa)
}

// SaldoPendiente derives the balance due: final price minus deposit when a
// final price is set, zero otherwise.
func (o *OrdenTrabajo) SaldoPendiente() decimal.Decimal {
	if !o.PrecioFinal.Valid {
		return decimal.Zero
	}
	return o.PrecioFinal.Decimal.Sub(o.Anticipo)
}

// PorcentajeCompletado derives the completion percentage from subtasks:
// completed/total*100, 0 when the order has no subtasks.
func (o *OrdenTrabajo) PorcentajeCompletado() int {
	if len(o.Subtareas) == 0 {
		return 0
	}
	completadas := 0
	for _, st := range o.Subtareas {
		if st.Estado == SubtareaCompletada {
			completadas++
		}
	}
	return completadas * 100 / len(o.Subtareas)
}

// MarshalJSON attaches the derived fields to the stored columns, so every
// response carries dias_desde_recepcion, esta_retrasada, porcentaje_completado
// and saldo_pendiente without each handler recomputing them.
func (o OrdenTrabajo) MarshalJSON() ([]byte, error) {
	type alias OrdenTrabajo
	now := time.Now()
	return json.Marshal(struct {
		alias
		DiasDesdeRecepcion   int             `json:"dias_desde_recepcion"`
		EstaRetrasada        bool            `json:"esta_retrasada"`
		PorcentajeCompletado int             `json:"porcentaje_completado"`
		SaldoPendiente       decimal.Decimal `json:"saldo_pendiente"`
	}{
		alias:                alias(o),
		DiasDesdeRecepcion:   o.DiasDesdeRecepcion(now),
		EstaRetrasada:        o.EstaRetrasada(now),
		PorcentajeCompletado: o.PorcentajeCompletado(),
		SaldoPendiente:       o.SaldoPendiente(),
	})
}

// AplicarEstado sets the order status and stamps the lifecycle date the
// first time each milestone status is reached. A non-empty note is appended
// to the observations log with a timestamp prefix, after a blank line when
// observations already have content.
func (o *OrdenTrabajo) AplicarEstado(estado, nota string, now time.Time) {
	o.Estatus = estado

	switch estado {
	case OrdenProceso:
		if o.FechaInicioTrabajo == nil {
			t := now
			o.FechaInicioTrabajo = &t
		}
	case OrdenTerminado:
		if o.FechaTerminado == nil {
			t := now
			o.FechaTerminado = &t
		}
	case OrdenEntregado:
		if o.FechaEntrega == nil {
			t := now
			o.FechaEntrega = &t
		}
	}

	if nota != "" {
		entrada := fmt.Sprintf("[%s] %s", now.Format("2006-01-02 15:04"), nota)
		if o.Observaciones != "" {
			o.Observaciones += "\n\n" + entrada
		} else {
			o.Observaciones = entrada
		}
	}
}

// VisiblePara reports whether the principal may see this order: technicians
// only their assigned orders, ADMIN and RECEPCION everything. Evaluated once
// per request instead of duplicating filter logic per endpoint.
func (o *OrdenTrabajo) VisiblePara(userID uuid.UUID, rol string) bool {
	if rol != RoleTecnico {
		return true
	}
	return o.TecnicoAsignadoID != nil && *o.TecnicoAsignadoID == userID
}

// EstadoSubtarea enum constants
const (
	SubtareaPendiente  = "PENDIENTE"
	SubtareaEnProceso  = "EN_PROCESO"
	SubtareaCompletada = "COMPLETADA"
	SubtareaCancelada  = "CANCELADA"
)

// ValidEstadoSubtarea reports whether estado is a known subtask status.
func ValidEstadoSubtarea(estado string) bool {
	switch estado {
	case SubtareaPendiente, SubtareaEnProceso, SubtareaCompletada, SubtareaCancelada:
		return true
	}
	return false
}

// SubtareaOrden is a titled unit of work belonging to exactly one order,
// ordered by an explicit index rather than insertion order.
type SubtareaOrden struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrdenTrabajoID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"orden_trabajo_id"`
	TecnicoAsignadoID *uuid.UUID `gorm:"type:uuid;index" json:"tecnico_asignado_id"`
	Tecnico          *User      `gorm:"foreignKey:TecnicoAsignadoID" json:"tecnico,omitempty"`

	Titulo      string `gorm:"type:varchar(200);not null" json:"titulo"`
	Descripcion string `gorm:"type:text" json:"descripcion"`
	Orden       int    `gorm:"default:0;not null" json:"orden"`
	Estado      string `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"estado"`

	FechaInicio     *time.Time `json:"fecha_inicio"`
	FechaCompletada *time.Time `json:"fecha_completada"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FotoOrden is one entry-photo row. Entry photos are append-only history;
// exit photos live only in the order's single overwritable field.
type FotoOrden struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrdenTrabajoID uuid.UUID `gorm:"type:uuid;not null;index" json:"orden_trabajo_id"`
	URL            string    `gorm:"type:varchar(512);not null" json:"url"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
