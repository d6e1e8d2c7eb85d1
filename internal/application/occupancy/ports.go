package occupancy

import (
	"context"

	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de camas y asignaciones atados a esa tx. El status de la cama
// solo se escribe dentro de estos callbacks, con la fila de la cama bloqueada,
// para mantenerlo en lockstep con las asignaciones activas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		bedRepo repository.BedRepository,
		allocRepo repository.BedAllocationRepository,
	) error) error
}

// Actor identifica al usuario que ejecuta la operación (snapshot de
// atribución).
type Actor struct {
	ID   string
	Name string
}

// Valid indica si el actor está identificado.
func (a Actor) Valid() bool {
	return a.ID != "" && a.Name != ""
}
