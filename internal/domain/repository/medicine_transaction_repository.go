package repository

import (
	"time"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// MedicineTransactionRepository define el puerto de persistencia del libro
// mayor de stock. Solo inserta y consulta: las entradas son inmutables, no
// hay Update ni Delete.
type MedicineTransactionRepository interface {
	Create(tx *entity.MedicineTransaction) error
	GetByID(id string) (*entity.MedicineTransaction, error)
	ListByMedicine(medicineID string, from, to *time.Time, limit, offset int) ([]*entity.MedicineTransaction, error)
	ListByDate(day time.Time) ([]*entity.MedicineTransaction, error)
}
