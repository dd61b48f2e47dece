package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	ActionCreateOrden       = "CREATE_ORDEN"
	ActionUpdateOrden       = "UPDATE_ORDEN"
	ActionDeleteOrden       = "DELETE_ORDEN"
	ActionCambiarEstado     = "CAMBIAR_ESTADO_ORDEN"
	ActionSubirFoto         = "SUBIR_FOTO_ORDEN"
	ActionCreateSolicitud   = "CREATE_SOLICITUD_VACACIONES"
	ActionAprobarSolicitud  = "APROBAR_SOLICITUD_VACACIONES"
	ActionRechazarSolicitud = "RECHAZAR_SOLICITUD_VACACIONES"
	ActionCreateIncidencia  = "CREATE_INCIDENCIA"
)

// AuditLog tracks who did what and when for critical system changes.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
