package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TipoCliente enum constants
const (
	ClientePersonaFisica = "PERSONA_FISICA"
	ClientePersonaMoral  = "PERSONA_MORAL"
)

// SinDireccion is the placeholder returned when a record has no address
// parts on file.
const SinDireccion = "Sin dirección registrada"

// Cliente represents a workshop customer, either an individual
// (PERSONA_FISICA) or an organization (PERSONA_MORAL). Identity fields are
// mutually exclusive by type: name parts for individuals, razón social for
// organizations. Clients are never hard-deleted, only deactivated.
type Cliente struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TipoCliente string    `gorm:"type:varchar(20);not null;default:'PERSONA_FISICA'" json:"tipo_cliente"`

	Nombre          string `gorm:"type:varchar(100);not null;index" json:"nombre"`
	ApellidoPaterno string `gorm:"type:varchar(100)" json:"apellido_paterno"`
	ApellidoMaterno string `gorm:"type:varchar(100)" json:"apellido_materno"`
	RazonSocial     string `gorm:"type:varchar(200)" json:"razon_social"`
	RFC             *string `gorm:"type:varchar(13);uniqueIndex" json:"rfc"`

	Email                *string `gorm:"type:varchar(100);index" json:"email"`
	Telefono             string  `gorm:"type:varchar(15);not null" json:"telefono"`
	TelefonoAlternativo  string  `gorm:"type:varchar(15)" json:"telefono_alternativo"`

	Calle          string `gorm:"type:varchar(200)" json:"calle"`
	NumeroExterior string `gorm:"type:varchar(20)" json:"numero_exterior"`
	NumeroInterior string `gorm:"type:varchar(20)" json:"numero_interior"`
	Colonia        string `gorm:"type:varchar(100)" json:"colonia"`
	CodigoPostal   string `gorm:"type:varchar(5)" json:"codigo_postal"`
	Ciudad         string `gorm:"type:varchar(100)" json:"ciudad"`
	Estado         string `gorm:"type:varchar(100)" json:"estado"`

	FechaNacimiento *time.Time `gorm:"type:date" json:"fecha_nacimiento"`
	Notas           string     `gorm:"type:text" json:"notas"`
	Preferencias    string     `gorm:"type:text" json:"preferencias"`

	Activo bool `gorm:"default:true;not null" json:"activo"`

	Sucursales []Sucursal `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE" json:"sucursales,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NombreCompleto derives the display name: razón social for organizations,
// otherwise first name plus whichever surnames are present.
func (c *Cliente) NombreCompleto() string {
	if c.TipoCliente == ClientePersonaMoral {
		return c.RazonSocial
	}
	parts := []string{c.Nombre}
	if c.ApellidoPaterno != "" {
		parts = append(parts, c.ApellidoPaterno)
	}
	if c.ApellidoMaterno != "" {
		parts = append(parts, c.ApellidoMaterno)
	}
	return strings.Join(parts, " ")
}

// DireccionCompleta derives the formatted address from whichever parts are
// present, in a fixed order, joined with ", ".
func (c *Cliente) DireccionCompleta() string {
	return formatDireccion(c.Calle, c.NumeroExterior, c.NumeroInterior, c.Colonia, c.CodigoPostal, c.Ciudad, c.Estado)
}

// MarshalJSON attaches nombre_completo and direccion_completa to the stored
// columns on every response.
func (c Cliente) MarshalJSON() ([]byte, error) {
	type alias Cliente
	return json.Marshal(struct {
		alias
		NombreCompleto    string `json:"nombre_completo"`
		DireccionCompleta string `json:"direccion_completa"`
	}{
		alias:             alias(c),
		NombreCompleto:    c.NombreCompleto(),
		DireccionCompleta: c.DireccionCompleta(),
	})
}

// Sucursal is a client's secondary location with its own contact and
// address, always tied to exactly one client. Unlike clients, branches are
// hard-deleted.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index" json:"cliente_id"`

	NombreSucursal string `gorm:"type:varchar(200);not null;index" json:"nombre_sucursal"`
	CodigoSucursal string `gorm:"type:varchar(50)" json:"codigo_sucursal"`

	Telefono            string  `gorm:"type:varchar(15)" json:"telefono"`
	TelefonoAlternativo string  `gorm:"type:varchar(15)" json:"telefono_alternativo"`
	Email               *string `gorm:"type:varchar(100)" json:"email"`

	Calle          string `gorm:"type:varchar(200)" json:"calle"`
	NumeroExterior string `gorm:"type:varchar(20)" json:"numero_exterior"`
	NumeroInterior string `gorm:"type:varchar(20)" json:"numero_interior"`
	Colonia        string `gorm:"type:varchar(100)" json:"colonia"`
	CodigoPostal   string `gorm:"type:varchar(5)" json:"codigo_postal"`
	Ciudad         string `gorm:"type:varchar(100)" json:"ciudad"`
	Estado         string `gorm:"type:varchar(100)" json:"estado"`

	Notas  string `gorm:"type:text" json:"notas"`
	Activo bool   `gorm:"default:true;not null" json:"activo"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DireccionCompleta derives the branch's formatted address.
func (s *Sucursal) DireccionCompleta() string {
	return formatDireccion(s.Calle, s.NumeroExterior, s.NumeroInterior, s.Colonia, s.CodigoPostal, s.Ciudad, s.Estado)
}

// MarshalJSON attaches the branch's direccion_completa on every response.
func (s Sucursal) MarshalJSON() ([]byte, error) {
	type alias Sucursal
	return json.Marshal(struct {
		alias
		DireccionCompleta string `json:"direccion_completa"`
	}{
		alias:             alias(s),
		DireccionCompleta: s.DireccionCompleta(),
	})
}

func formatDireccion(calle, numExt, numInt, colonia, cp, ciudad, estado string) string {
	var partes []string
	if calle != "" {
		calleNumero := calle
		if numExt != "" {
			calleNumero += " #" + numExt
		}
		if numInt != "" {
			calleNumero += " Int. " + numInt
		}
		partes = append(partes, calleNumero)
	}
	if colonia != "" {
		partes = append(partes, "Col. "+colonia)
	}
	if cp != "" {
		partes = append(partes, "C.P. "+cp)
	}
	if ciudad != "" {
		partes = append(partes, ciudad)
	}
	if estado != "" {
		partes = append(partes, estado)
	}
	if len(partes) == 0 {
		return SinDireccion
	}
	return strings.Join(partes, ", ")
}
