package repository

import (
	"time"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// MedicineRepository define el puerto de lectura y mantenimiento de medicamentos.
// No expone ningún setter de stock: current_stock solo se escribe a través de
// MedicineStockRepository, que únicamente existe dentro de una transacción de
// farmacia (ver pharmacy.TxRunner).
type MedicineRepository interface {
	GetByID(id string) (*entity.Medicine, error)
	List(category string, activeOnly bool, limit, offset int) ([]*entity.Medicine, error)
	// Create y UpdateDetails cubren el mantenimiento del catálogo; UpdateDetails
	// persiste solo campos descriptivos, nunca current_stock.
	Create(m *entity.Medicine) error
	UpdateDetails(m *entity.Medicine) error
	Deactivate(id string) error

	ListLowStock() ([]*entity.Medicine, error)
	ListOutOfStock() ([]*entity.Medicine, error)
	ListExpiringBefore(date time.Time) ([]*entity.Medicine, error)
}

// MedicineStockRepository es la capacidad de escritura del contador derivado
// current_stock. Solo se entrega dentro del callback del TxRunner de farmacia,
// de modo que el único código que puede usarla es el registrador del libro
// mayor, en la misma transacción que crea la MedicineTransaction.
type MedicineStockRepository interface {
	// GetForUpdate bloquea la fila del medicamento (SELECT FOR UPDATE).
	GetForUpdate(medicineID string) (*entity.Medicine, error)
	// UpdateStock persiste el nuevo contador ya validado.
	UpdateStock(medicineID string, newStock int) error
	// UpdateExpiryBatch actualiza vencimiento y lote (aprobación de reposición).
	UpdateExpiryBatch(medicineID string, expiry time.Time, batchNumber string) error
}
