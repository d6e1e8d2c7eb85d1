package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

var _ repository.PrescriptionRepository = (*PrescriptionRepo)(nil)

const prescriptionColumns = `id, treatment_ref, medicine_id, patient_record_id, patient_name,
		quantity, dosage, duration_days, prescribed_by_id, prescribed_by_name,
		stock_deducted, removed, removed_at, created_at`

// PrescriptionRepo implementación de PrescriptionRepository sobre PostgreSQL.
// La eliminación es lógica: removed=true, la fila se conserva.
type PrescriptionRepo struct {
	q Querier
}

// NewPrescriptionRepository construye el adaptador de prescripciones. Pasar pool o tx (Querier).
func NewPrescriptionRepository(q Querier) *PrescriptionRepo {
	return &PrescriptionRepo{q: q}
}

func scanPrescription(row pgx.Row) (*entity.Prescription, error) {
	var p entity.Prescription
	err := row.Scan(
		&p.ID, &p.TreatmentRef, &p.MedicineID, &p.PatientRecordID, &p.PatientName,
		&p.Quantity, &p.Dosage, &p.DurationDays, &p.PrescribedByID, &p.PrescribedByName,
		&p.StockDeducted, &p.Removed, &p.RemovedAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prescription: %w", err)
	}
	return &p, nil
}

// Create persiste una prescripción nueva.
func (r *PrescriptionRepo) Create(p *entity.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO prescriptions (id, treatment_ref, medicine_id, patient_record_id, patient_name,
			quantity, dosage, duration_days, prescribed_by_id, prescribed_by_name,
			stock_deducted, removed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TreatmentRef, p.MedicineID, p.PatientRecordID, p.PatientName,
		p.Quantity, p.Dosage, p.DurationDays, p.PrescribedByID, p.PrescribedByName,
		p.StockDeducted, p.Removed, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

// GetByID obtiene una prescripción por ID.
func (r *PrescriptionRepo) GetByID(id string) (*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`
	return scanPrescription(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la prescripción y bloquea la fila (SELECT FOR UPDATE).
func (r *PrescriptionRepo) GetForUpdate(id string) (*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1 FOR UPDATE`
	return scanPrescription(r.q.QueryRow(context.Background(), query, id))
}

// MarkRemoved persiste la eliminación lógica.
func (r *PrescriptionRepo) MarkRemoved(p *entity.Prescription) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE prescriptions SET removed = true, removed_at = $2 WHERE id = $1`,
		p.ID, p.RemovedAt,
	)
	if err != nil {
		return fmt.Errorf("mark prescription removed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark prescription removed: fila no encontrada")
	}
	return nil
}

// ListByPatient historial de prescripciones de un paciente, recientes primero.
func (r *PrescriptionRepo) ListByPatient(patientRecordID string) ([]*entity.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions
		WHERE patient_record_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, patientRecordID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
