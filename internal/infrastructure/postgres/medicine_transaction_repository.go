package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

var _ repository.MedicineTransactionRepository = (*MedicineTransactionRepo)(nil)

const transactionColumns = `id, medicine_id, type, quantity, date, reference_number, supplier,
		patient_record_id, patient_name, performed_by_id, performed_by_name, remarks, created_at`

// MedicineTransactionRepo implementación del libro mayor sobre PostgreSQL.
// Solo inserta y consulta: las entradas son inmutables.
type MedicineTransactionRepo struct {
	q Querier
}

// NewMedicineTransactionRepository construye el adaptador del libro mayor. Pasar pool o tx (Querier).
func NewMedicineTransactionRepository(q Querier) *MedicineTransactionRepo {
	return &MedicineTransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.MedicineTransaction, error) {
	var t entity.MedicineTransaction
	err := row.Scan(
		&t.ID, &t.MedicineID, &t.Type, &t.Quantity, &t.Date, &t.ReferenceNumber, &t.Supplier,
		&t.PatientRecordID, &t.PatientName, &t.PerformedByID, &t.PerformedByName, &t.Remarks, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}

// Create persiste una entrada nueva del libro mayor.
func (r *MedicineTransactionRepo) Create(t *entity.MedicineTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO medicine_transactions (id, medicine_id, type, quantity, date, reference_number,
			supplier, patient_record_id, patient_name, performed_by_id, performed_by_name, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.MedicineID, t.Type, t.Quantity, t.Date, t.ReferenceNumber,
		t.Supplier, t.PatientRecordID, t.PatientName, t.PerformedByID, t.PerformedByName, t.Remarks, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *MedicineTransactionRepo) GetByID(id string) (*entity.MedicineTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM medicine_transactions WHERE id = $1`
	return scanTransaction(r.q.QueryRow(context.Background(), query, id))
}

// ListByMedicine historial de un medicamento, con rango de fechas opcional.
func (r *MedicineTransactionRepo) ListByMedicine(medicineID string, from, to *time.Time, limit, offset int) ([]*entity.MedicineTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM medicine_transactions
		WHERE medicine_id = $1
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, medicineID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListByDate transacciones de un día calendario (bitácora diaria).
func (r *MedicineTransactionRepo) ListByDate(day time.Time) ([]*entity.MedicineTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM medicine_transactions
		WHERE date::date = $1::date ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, day)
	if err != nil {
		return nil, fmt.Errorf("list transactions by date: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*entity.MedicineTransaction, error) {
	defer rows.Close()
	var list []*entity.MedicineTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
