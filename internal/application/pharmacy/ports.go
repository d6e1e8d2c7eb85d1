package pharmacy

import (
	"context"

	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// farmacia: la única forma de obtener un MedicineStockRepository (la
// capacidad de escribir current_stock) es dentro de uno de estos callbacks,
// junto al repositorio del libro mayor.
type TxRunner interface {
	// Run transacción mínima: libro mayor + stock.
	Run(ctx context.Context, fn func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
	) error) error

	// RunReplenishment transacción para aprobar/transicionar solicitudes de
	// reposición (libro mayor + stock + solicitudes).
	RunReplenishment(ctx context.Context, fn func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
		requestRepo repository.StockRequestRepository,
	) error) error

	// RunPrescription transacción para crear/eliminar prescripciones con su
	// efecto sobre el stock.
	RunPrescription(ctx context.Context, fn func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
		prescriptionRepo repository.PrescriptionRepository,
	) error) error
}

// Actor identifica al usuario que ejecuta la operación. El nombre se copia
// como snapshot de atribución en cada fila escrita.
type Actor struct {
	ID   string
	Name string
}

// Valid indica si el actor está identificado.
func (a Actor) Valid() bool {
	return a.ID != "" && a.Name != ""
}
