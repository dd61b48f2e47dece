package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoriaOrden is a named, activatable taxonomy entry for classifying
// work orders.
type CategoriaOrden struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"nombre"`
	Descripcion string    `gorm:"type:varchar(255)" json:"descripcion"`
	Activo      bool      `gorm:"default:true;not null" json:"activo"`

	Subcategorias []SubcategoriaOrden `gorm:"foreignKey:CategoriaID;constraint:OnDelete:CASCADE" json:"subcategorias,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SubcategoriaOrden belongs to exactly one category.
type SubcategoriaOrden struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoriaID uuid.UUID `gorm:"type:uuid;not null;index" json:"categoria_id"`
	Nombre      string    `gorm:"type:varchar(100);not null;index" json:"nombre"`
	Descripcion string    `gorm:"type:varchar(255)" json:"descripcion"`
	Activo      bool      `gorm:"default:true;not null" json:"activo"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
