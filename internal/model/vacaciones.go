package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoSolicitud enum constants. The quantity's unit is implied by the type:
// days for DIAS_COMPLETOS/MEDIO_DIA, hours for HORAS.
const (
	SolicitudDiasCompletos = "DIAS_COMPLETOS"
	SolicitudMedioDia      = "MEDIO_DIA"
	SolicitudHoras         = "HORAS"
)

// ValidTipoSolicitud reports whether tipo is a known request type.
func ValidTipoSolicitud(tipo string) bool {
	switch tipo {
	case SolicitudDiasCompletos, SolicitudMedioDia, SolicitudHoras:
		return true
	}
	return false
}

// EstadoSolicitud enum constants. PENDIENTE moves to APROBADA or RECHAZADA
// exactly once; TOMADA exists for a future automated transition and is not
// reachable by any current operation.
const (
	SolicitudPendiente = "PENDIENTE"
	SolicitudAprobada  = "APROBADA"
	SolicitudRechazada = "RECHAZADA"
	SolicitudTomada    = "TOMADA"
	SolicitudCancelada = "CANCELADA"
)

// SolicitudVacaciones is an employee's vacation request.
type SolicitudVacaciones struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;not null;index" json:"empleado_id"`
	Empleado   *User     `gorm:"foreignKey:EmpleadoID" json:"empleado,omitempty"`

	FechaSolicitud time.Time `gorm:"autoCreateTime" json:"fecha_solicitud"`
	FechaInicio    time.Time `gorm:"type:date;not null" json:"fecha_inicio"`
	FechaFin       time.Time `gorm:"type:date;not null" json:"fecha_fin"`

	Tipo     string          `gorm:"type:varchar(20);not null;default:'DIAS_COMPLETOS'" json:"tipo"`
	Cantidad decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"cantidad"`

	Estado          string     `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"estado"`
	AprobadaPorID   *uuid.UUID `gorm:"type:uuid" json:"aprobada_por_id"`
	AprobadaPor     *User      `gorm:"foreignKey:AprobadaPorID" json:"aprobada_por,omitempty"`
	FechaAprobacion *time.Time `json:"fecha_aprobacion"`

	Observaciones string `gorm:"type:text" json:"observaciones"`
	MotivoRechazo string `gorm:"type:text" json:"motivo_rechazo"`
	PdfURL        string `gorm:"type:varchar(255)" json:"pdf_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Decidida reports whether the request already received a final decision.
func (s *SolicitudVacaciones) Decidida() bool {
	return s.Estado != SolicitudPendiente
}
