package pharmacy

import (
	"context"
	"time"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// RecordTransactionUseCase registra entradas del libro mayor de stock de forma
// transaccional (received, issued, expired, adjustment) con bloqueo de fila
// (SELECT FOR UPDATE) y Commit/Rollback. Es el único camino por el que cambia
// Medicine.CurrentStock.
type RecordTransactionUseCase struct {
	txRunner     TxRunner
	medicineRepo repository.MedicineRepository
	patientRepo  repository.PatientRepository
}

// NewRecordTransactionUseCase construye el caso de uso.
func NewRecordTransactionUseCase(
	txRunner TxRunner,
	medicineRepo repository.MedicineRepository,
	patientRepo repository.PatientRepository,
) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		txRunner:     txRunner,
		medicineRepo: medicineRepo,
		patientRepo:  patientRepo,
	}
}

// TransactionInput entrada para registrar una transacción del libro mayor.
type TransactionInput struct {
	MedicineID      string
	Type            string
	Quantity        int
	ReferenceNumber string
	Supplier        string
	PatientRecordID *string
	PatientName     string
	Remarks         string
	Actor           Actor
}

// RecordTransaction valida la entrada, bloquea la fila del medicamento y crea
// la entrada del libro mayor junto con el nuevo contador, todo en una sola
// transacción. received suma; issued/expired/adjustment restan y se rechazan
// con ErrInsufficientStock antes de escribir si exceden el stock actual.
func (uc *RecordTransactionUseCase) RecordTransaction(ctx context.Context, input TransactionInput) (*entity.MedicineTransaction, error) {
	if !entity.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !input.Actor.Valid() {
		return nil, domain.ErrMissingActor
	}
	if input.Type == entity.TransactionReceived && input.Supplier == "" {
		return nil, domain.ErrMissingRequiredReference
	}

	patientName := input.PatientName
	if input.Type == entity.TransactionIssued {
		// Para salidas se exige referencia de paciente: directa o vía directorio.
		if input.PatientRecordID != nil {
			p, err := uc.patientRepo.GetByID(*input.PatientRecordID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, domain.ErrNotFound
			}
			if patientName == "" {
				patientName = p.Name
			}
		}
		if patientName == "" {
			return nil, domain.ErrMissingRequiredReference
		}
	}

	now := time.Now()
	var created *entity.MedicineTransaction

	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
	) error {
		entry := &entity.MedicineTransaction{
			MedicineID:      input.MedicineID,
			Type:            input.Type,
			Quantity:        input.Quantity,
			Date:            now,
			ReferenceNumber: input.ReferenceNumber,
			Supplier:        input.Supplier,
			PatientRecordID: input.PatientRecordID,
			PatientName:     patientName,
			PerformedByID:   input.Actor.ID,
			PerformedByName: input.Actor.Name,
			Remarks:         input.Remarks,
			CreatedAt:       now,
		}
		if err := applyEntry(ledgerRepo, stockRepo, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyEntry bloquea la fila del medicamento, valida el efecto y persiste la
// entrada del libro mayor junto con el contador actualizado. Es el único
// escritor de current_stock; las demás rutas del paquete pasan por aquí.
func applyEntry(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	entry *entity.MedicineTransaction,
) error {
	medicine, err := stockRepo.GetForUpdate(entry.MedicineID)
	if err != nil {
		return err
	}
	if medicine == nil {
		return domain.ErrNotFound
	}
	if entity.IsDecreasing(entry.Type) && entry.Quantity > medicine.CurrentStock {
		return domain.ErrInsufficientStock
	}
	newStock := applyLedgerEffect(medicine.CurrentStock, entry.Type, entry.Quantity)
	if err := stockRepo.UpdateStock(entry.MedicineID, newStock); err != nil {
		return err
	}
	return ledgerRepo.Create(entry)
}

// applyLedgerEffect calcula el nuevo contador: +cantidad para received,
// -cantidad para los tipos que restan, con piso en 0.
func applyLedgerEffect(current int, transactionType string, quantity int) int {
	if transactionType == entity.TransactionReceived {
		return current + quantity
	}
	newStock := current - quantity
	if newStock < 0 {
		return 0
	}
	return newStock
}

// restoreEntry registra una restauración de stock (eliminación de prescripción
// dentro de la ventana de gracia): entrada adjustment cuyo efecto es +cantidad.
// Ruta interna del paquete; el registrador público sigue tratando adjustment
// como resta.
func restoreEntry(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	entry *entity.MedicineTransaction,
) error {
	medicine, err := stockRepo.GetForUpdate(entry.MedicineID)
	if err != nil {
		return err
	}
	if medicine == nil {
		return domain.ErrNotFound
	}
	if err := stockRepo.UpdateStock(entry.MedicineID, medicine.CurrentStock+entry.Quantity); err != nil {
		return err
	}
	return ledgerRepo.Create(entry)
}

// logOnlyEntry registra una entrada de solo-registro (cantidad 0, sin efecto
// sobre el stock). La usa la eliminación de prescripciones fuera de la ventana
// de gracia; no existe ruta pública hacia aquí.
func logOnlyEntry(
	ledgerRepo repository.MedicineTransactionRepository,
	entry *entity.MedicineTransaction,
) error {
	entry.Quantity = 0
	return ledgerRepo.Create(entry)
}
