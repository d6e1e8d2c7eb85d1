package repository

import "github.com/jhoicas/medroom-api/internal/domain/entity"

// BedFilter filtros de listado de camas por equipamiento.
type BedFilter struct {
	Status        string // "", available, occupied
	NeedsOxygen   bool
	NeedsMonitor  bool
	NeedsVentilator bool
}

// BedRepository define el puerto de persistencia de camas. UpdateStatus solo
// debe invocarse desde el motor de asignaciones dentro de su transacción:
// el status es un caché de "tiene asignación activa".
type BedRepository interface {
	GetByID(id string) (*entity.Bed, error)
	// GetForUpdate bloquea la fila de la cama (SELECT FOR UPDATE) para la
	// secuencia verificar-asignar.
	GetForUpdate(id string) (*entity.Bed, error)
	Create(bed *entity.Bed) error
	UpdateStatus(id, status string) error
	List(filter BedFilter) ([]*entity.Bed, error)
	CountByStatus() (available, occupied int, err error)
}
