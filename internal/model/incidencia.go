package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoIncidencia enum constants. The taxonomy is open and mixes
// disciplinary and commendatory events under one field.
const (
	IncidenciaRetardo           = "RETARDO"
	IncidenciaFaltaInjustificada = "FALTA_INJUSTIFICADA"
	IncidenciaLlamadaAtencion   = "LLAMADA_ATENCION"
	IncidenciaSancion           = "SANCION"
	IncidenciaSuspension        = "SUSPENSION"
	IncidenciaReconocimiento    = "RECONOCIMIENTO"
	IncidenciaBono              = "BONO"
	IncidenciaAumento           = "AUMENTO"
	IncidenciaPromocion         = "PROMOCION"
	IncidenciaCapacitacion      = "CAPACITACION"
	IncidenciaAccidenteTrabajo  = "ACCIDENTE_TRABAJO"
	IncidenciaOtro              = "OTRO"
)

// TiposIncidencia lists every valid incident type.
var TiposIncidencia = []string{
	IncidenciaRetardo, IncidenciaFaltaInjustificada, IncidenciaLlamadaAtencion,
	IncidenciaSancion, IncidenciaSuspension, IncidenciaReconocimiento,
	IncidenciaBono, IncidenciaAumento, IncidenciaPromocion,
	IncidenciaCapacitacion, IncidenciaAccidenteTrabajo, IncidenciaOtro,
}

// ValidTipoIncidencia reports whether tipo is a known incident type.
func ValidTipoIncidencia(tipo string) bool {
	for _, t := range TiposIncidencia {
		if t == tipo {
			return true
		}
	}
	return false
}

// Severidad enum constants. POSITIVA shares the field with the negative
// grades; the taxonomy carries no separate polarity attribute.
const (
	SeveridadLeve     = "LEVE"
	SeveridadModerada = "MODERADA"
	SeveridadGrave    = "GRAVE"
	SeveridadMuyGrave = "MUY_GRAVE"
	SeveridadPositiva = "POSITIVA"
)

// ValidSeveridad reports whether s is a known severity value.
func ValidSeveridad(s string) bool {
	switch s {
	case SeveridadLeve, SeveridadModerada, SeveridadGrave, SeveridadMuyGrave, SeveridadPositiva:
		return true
	}
	return false
}

// IncidenciaEmpleado is an HR incident logged against an employee by a user
// with an elevated role.
type IncidenciaEmpleado struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;not null;index" json:"empleado_id"`
	Empleado   *User     `gorm:"foreignKey:EmpleadoID" json:"empleado,omitempty"`

	FechaIncidencia time.Time `gorm:"type:date;not null;index" json:"fecha_incidencia"`
	Tipo            string    `gorm:"type:varchar(30);not null" json:"tipo"`
	Severidad       string    `gorm:"type:varchar(15);not null;default:'LEVE'" json:"severidad"`

	Titulo        string `gorm:"type:varchar(200);not null" json:"titulo"`
	Descripcion   string `gorm:"type:text;not null" json:"descripcion"`
	Consecuencias string `gorm:"type:text" json:"consecuencias"`
	DocumentoURL  string `gorm:"type:varchar(255)" json:"documento_url"`

	RegistradoPorID uuid.UUID `gorm:"type:uuid;not null" json:"registrado_por_id"`
	RegistradoPor   *User     `gorm:"foreignKey:RegistradoPorID" json:"registrado_por,omitempty"`

	// Follow-up flags are independently settable; no transition logic is
	// enforced between them.
	RequiereSeguimiento   bool       `gorm:"default:false;not null" json:"requiere_seguimiento"`
	FechaSeguimiento      *time.Time `gorm:"type:date" json:"fecha_seguimiento"`
	SeguimientoCompletado bool       `gorm:"default:false;not null" json:"seguimiento_completado"`
	NotasSeguimiento      string     `gorm:"type:text" json:"notas_seguimiento"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
