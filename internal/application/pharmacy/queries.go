package pharmacy

import (
	"time"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// MedicineQueryUseCase consultas de solo lectura sobre el inventario:
// catálogo, stock bajo/agotado, próximos a vencer e historial del libro mayor.
type MedicineQueryUseCase struct {
	medicineRepo repository.MedicineRepository
	ledgerRepo   repository.MedicineTransactionRepository
}

// NewMedicineQueryUseCase construye el caso de uso de consultas.
func NewMedicineQueryUseCase(
	medicineRepo repository.MedicineRepository,
	ledgerRepo repository.MedicineTransactionRepository,
) *MedicineQueryUseCase {
	return &MedicineQueryUseCase{medicineRepo: medicineRepo, ledgerRepo: ledgerRepo}
}

// Get devuelve un medicamento por ID.
func (uc *MedicineQueryUseCase) Get(id string) (*entity.Medicine, error) {
	return uc.medicineRepo.GetByID(id)
}

// List devuelve el catálogo, opcionalmente filtrado por categoría.
func (uc *MedicineQueryUseCase) List(category string, activeOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	return uc.medicineRepo.List(category, activeOnly, limit, offset)
}

// ListLowStock devuelve medicamentos con stock en o por debajo del mínimo.
func (uc *MedicineQueryUseCase) ListLowStock() ([]*entity.Medicine, error) {
	return uc.medicineRepo.ListLowStock()
}

// ListOutOfStock devuelve medicamentos con stock 0.
func (uc *MedicineQueryUseCase) ListOutOfStock() ([]*entity.Medicine, error) {
	return uc.medicineRepo.ListOutOfStock()
}

// ListExpiringSoon devuelve medicamentos que vencen dentro de los próximos
// days días.
func (uc *MedicineQueryUseCase) ListExpiringSoon(days int) ([]*entity.Medicine, error) {
	limit := time.Now().AddDate(0, 0, days)
	return uc.medicineRepo.ListExpiringBefore(limit)
}

// ListTransactions historial del libro mayor de un medicamento.
func (uc *MedicineQueryUseCase) ListTransactions(medicineID string, from, to *time.Time, limit, offset int) ([]*entity.MedicineTransaction, error) {
	return uc.ledgerRepo.ListByMedicine(medicineID, from, to, limit, offset)
}

// ListTransactionsOn transacciones de un día (bitácora diaria).
func (uc *MedicineQueryUseCase) ListTransactionsOn(day time.Time) ([]*entity.MedicineTransaction, error) {
	return uc.ledgerRepo.ListByDate(day)
}
