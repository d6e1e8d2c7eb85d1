package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// PrescriptionUseCase descuenta stock al prescribir y lo restaura solo si la
// prescripción se elimina dentro de la ventana de gracia. Fuera de la ventana
// el medicamento se considera ya dispensado: la eliminación solo deja registro.
type PrescriptionUseCase struct {
	txRunner         TxRunner
	patientRepo      repository.PatientRepository
	prescriptionRepo repository.PrescriptionRepository // atado al pool, para consultas
	graceWindow      time.Duration
}

// NewPrescriptionUseCase construye el caso de uso. graceWindow viene de
// configuración (PHARMACY_GRACE_MINUTES).
func NewPrescriptionUseCase(
	txRunner TxRunner,
	patientRepo repository.PatientRepository,
	prescriptionRepo repository.PrescriptionRepository,
	graceWindow time.Duration,
) *PrescriptionUseCase {
	return &PrescriptionUseCase{
		txRunner:         txRunner,
		patientRepo:      patientRepo,
		prescriptionRepo: prescriptionRepo,
		graceWindow:      graceWindow,
	}
}

// PrescriptionInput entrada para prescribir un medicamento.
type PrescriptionInput struct {
	TreatmentRef    string
	MedicineID      string
	PatientRecordID *string
	PatientName     string
	Quantity        int
	Dosage          string
	DurationDays    int
	Actor           Actor
}

// Create valida stock suficiente, registra la salida (issued) en el libro
// mayor y persiste la prescripción marcada como stock-descontado, todo en la
// misma transacción.
func (uc *PrescriptionUseCase) Create(ctx context.Context, input PrescriptionInput) (*entity.Prescription, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !input.Actor.Valid() {
		return nil, domain.ErrMissingActor
	}

	patientName := input.PatientName
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

	now := time.Now()
	var created *entity.Prescription

	err := uc.txRunner.RunPrescription(ctx, func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
		prescriptionRepo repository.PrescriptionRepository,
	) error {
		entry := &entity.MedicineTransaction{
			MedicineID:      input.MedicineID,
			Type:            entity.TransactionIssued,
			Quantity:        input.Quantity,
			Date:            now,
			PatientRecordID: input.PatientRecordID,
			PatientName:     patientName,
			PerformedByID:   input.Actor.ID,
			PerformedByName: input.Actor.Name,
			Remarks:         fmt.Sprintf("Prescrito para tratamiento: %s", input.TreatmentRef),
			CreatedAt:       now,
		}
		if err := applyEntry(ledgerRepo, stockRepo, entry); err != nil {
			return err
		}

		p := &entity.Prescription{
			TreatmentRef:     input.TreatmentRef,
			MedicineID:       input.MedicineID,
			PatientRecordID:  input.PatientRecordID,
			PatientName:      patientName,
			Quantity:         input.Quantity,
			Dosage:           input.Dosage,
			DurationDays:     input.DurationDays,
			PrescribedByID:   input.Actor.ID,
			PrescribedByName: input.Actor.Name,
			StockDeducted:    true,
			CreatedAt:        now,
		}
		if err := prescriptionRepo.Create(p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Remove elimina (lógicamente) una prescripción. Dentro de la ventana de
// gracia el stock se restaura con una entrada adjustment; fuera de ella se
// registra una entrada issued de cantidad cero a modo de bitácora y el stock
// no cambia.
func (uc *PrescriptionUseCase) Remove(ctx context.Context, prescriptionID string, actor Actor) (restored bool, err error) {
	if !actor.Valid() {
		return false, domain.ErrMissingActor
	}

	now := time.Now()
	err = uc.txRunner.RunPrescription(ctx, func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
		prescriptionRepo repository.PrescriptionRepository,
	) error {
		p, err := prescriptionRepo.GetForUpdate(prescriptionID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Removed {
			return domain.ErrConflict
		}

		if p.StockDeducted && p.WithinGraceWindow(now, uc.graceWindow) {
			entry := &entity.MedicineTransaction{
				MedicineID:      p.MedicineID,
				Type:            entity.TransactionAdjustment,
				Quantity:        p.Quantity,
				Date:            now,
				PatientRecordID: p.PatientRecordID,
				PatientName:     p.PatientName,
				PerformedByID:   actor.ID,
				PerformedByName: actor.Name,
				Remarks:         fmt.Sprintf("Restauración por eliminación de prescripción %s dentro de la ventana de gracia", p.ID),
				CreatedAt:       now,
			}
			if err := restoreEntry(ledgerRepo, stockRepo, entry); err != nil {
				return err
			}
			restored = true
		} else {
			entry := &entity.MedicineTransaction{
				MedicineID:      p.MedicineID,
				Type:            entity.TransactionIssued,
				Date:            now,
				PatientRecordID: p.PatientRecordID,
				PatientName:     p.PatientName,
				PerformedByID:   actor.ID,
				PerformedByName: actor.Name,
				Remarks:         fmt.Sprintf("Prescripción %s eliminada fuera de la ventana de gracia; stock no restaurado", p.ID),
				CreatedAt:       now,
			}
			if err := logOnlyEntry(ledgerRepo, entry); err != nil {
				return err
			}
		}

		p.Removed = true
		p.RemovedAt = &now
		return prescriptionRepo.MarkRemoved(p)
	})
	if err != nil {
		return false, err
	}
	return restored, nil
}

// ListByPatient historial de prescripciones de un paciente.
func (uc *PrescriptionUseCase) ListByPatient(patientRecordID string) ([]*entity.Prescription, error) {
	return uc.prescriptionRepo.ListByPatient(patientRecordID)
}
