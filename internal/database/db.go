package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Cliente{},
		&model.Sucursal{},
		&model.CategoriaOrden{},
		&model.SubcategoriaOrden{},
		&model.OrdenTrabajo{},
		&model.SubtareaOrden{},
		&model.FotoOrden{},
		&model.SolicitudVacaciones{},
		&model.IncidenciaEmpleado{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
