package repository

import (
	"time"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// BedAllocationRepository define el puerto de persistencia de asignaciones de
// cama. No hay Delete: el historial se conserva para reportes.
type BedAllocationRepository interface {
	Create(a *entity.BedAllocation) error
	GetByID(id string) (*entity.BedAllocation, error)
	// GetForUpdate bloquea la fila de la asignación (alta/reactivación).
	GetForUpdate(id string) (*entity.BedAllocation, error)
	Update(a *entity.BedAllocation) error

	// GetActiveByBed devuelve la asignación activa de una cama, o nil.
	GetActiveByBed(bedID string) (*entity.BedAllocation, error)
	// CountActiveByBed cuenta asignaciones activas de la cama, excluyendo
	// opcionalmente una (para alta/reactivación).
	CountActiveByBed(bedID, excludeID string) (int, error)

	ListActive() ([]*entity.BedAllocation, error)
	ListOverdue(today time.Time) ([]*entity.BedAllocation, error)
	ListAdmittedOn(day time.Time) ([]*entity.BedAllocation, error)
	ListExpectedDischargesOn(day time.Time) ([]*entity.BedAllocation, error)
	ListDischarged() ([]*entity.BedAllocation, error)
}
