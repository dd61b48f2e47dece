package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role enum constants. The set is closed: every role check in the system
// goes through the middleware role sets built from these values.
const (
	RoleAdmin      = "ADMIN"
	RoleTecnico    = "TECNICO"
	RoleRecepcion  = "RECEPCION"
	RoleCajero     = "CAJERO"
	RoleAuxiliar   = "AUXILIAR"
	RoleJefeTaller = "JEFE_TALLER"
)

// AllRoles lists every valid role value.
var AllRoles = []string{RoleAdmin, RoleTecnico, RoleRecepcion, RoleCajero, RoleAuxiliar, RoleJefeTaller}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// TipoContrato enum constants
const (
	ContratoIndeterminado = "INDETERMINADO"
	ContratoDeterminado   = "DETERMINADO"
	ContratoPorObra       = "POR_OBRA"
	ContratoCapacitacion  = "CAPACITACION"
)

// User represents an employee account: identity + role for access control
// plus the HR attributes the vacation module derives balances from.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	NombreCompleto string    `gorm:"type:varchar(100);not null" json:"nombre_completo"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Rol            string    `gorm:"type:varchar(20);not null;index" json:"rol"`
	// Codigo is the optional 4-digit numeric login code for technicians.
	Codigo *string `gorm:"type:varchar(4);uniqueIndex" json:"codigo,omitempty"`
	Activo bool    `gorm:"default:true;not null" json:"activo"`

	// HR attributes
	FechaIngreso  *time.Time      `gorm:"type:date" json:"fecha_ingreso"`
	TipoContrato  string          `gorm:"type:varchar(20)" json:"tipo_contrato"`
	Departamento  string          `gorm:"type:varchar(100)" json:"departamento"`
	Puesto        string          `gorm:"type:varchar(100)" json:"puesto"`
	RFC           string          `gorm:"type:varchar(13)" json:"rfc"`
	SalarioDiario decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"salario_diario"`

	// Vacation counters. The available balance is always re-derived from
	// these plus tenure, never read back from a stored column.
	DiasVacacionesTomados    int `gorm:"default:0;not null" json:"dias_vacaciones_tomados"`
	DiasVacacionesAnteriores int `gorm:"default:0;not null" json:"dias_vacaciones_pendientes_anios_anteriores"`

	// JefeDirectoID is a weak back-reference to another employee row. No
	// ownership implied: removing the boss never cascades here.
	JefeDirectoID *uuid.UUID `gorm:"type:uuid;index" json:"jefe_directo_id"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TenureYears returns whole years elapsed since the hire date at the given
// instant (floor(days/365)), or 0 when no hire date is on file.
func (u *User) TenureYears(now time.Time) int {
	if u.FechaIngreso == nil {
		return 0
	}
	days := int(now.Sub(*u.FechaIngreso).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 365
}

// VacationAccrual returns the statutory vacation-day entitlement for a
// tenure expressed in whole years (Ley Federal del Trabajo table).
func VacationAccrual(tenureYears int) int {
	switch {
	case tenureYears <= 0:
		return 12
	case tenureYears == 1:
		return 14
	case tenureYears == 2:
		return 16
	case tenureYears == 3:
		return 18
	case tenureYears <= 9:
		return 20
	case tenureYears <= 14:
		return 22
	default:
		return 22 + 2*((tenureYears-15)/5)
	}
}

// VacationDaysPerYear returns the employee's current-cycle entitlement.
func (u *User) VacationDaysPerYear(now time.Time) int {
	return VacationAccrual(u.TenureYears(now))
}

// AvailableVacationDays re-derives the usable balance at the given instant:
// current entitlement plus carry-over minus days already taken this cycle.
// Tenure advances with wall-clock time, so callers must not cache this.
func (u *User) AvailableVacationDays(now time.Time) int {
	return u.VacationDaysPerYear(now) + u.DiasVacacionesAnteriores - u.DiasVacacionesTomados
}
