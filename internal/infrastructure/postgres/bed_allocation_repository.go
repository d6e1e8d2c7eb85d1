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

var _ repository.BedAllocationRepository = (*BedAllocationRepo)(nil)

const allocationColumns = `id, bed_id, patient_record_id, patient_name, patient_id,
		admission_date, expected_discharge_date, actual_discharge_date, condition,
		special_requirements, attending_doctor_id, attending_doctor_name, is_active,
		discharge_notes, allocated_by_id, allocated_by_name, created_at, updated_at`

// BedAllocationRepo implementación de BedAllocationRepository sobre PostgreSQL.
// El historial se conserva: no hay DELETE.
type BedAllocationRepo struct {
	q Querier
}

// NewBedAllocationRepository construye el adaptador de asignaciones. Pasar pool o tx (Querier).
func NewBedAllocationRepository(q Querier) *BedAllocationRepo {
	return &BedAllocationRepo{q: q}
}

func scanAllocation(row pgx.Row) (*entity.BedAllocation, error) {
	var a entity.BedAllocation
	err := row.Scan(
		&a.ID, &a.BedID, &a.PatientRecordID, &a.PatientName, &a.PatientID,
		&a.AdmissionDate, &a.ExpectedDischargeDate, &a.ActualDischargeDate, &a.Condition,
		&a.SpecialRequirements, &a.AttendingDoctorID, &a.AttendingDoctorName, &a.IsActive,
		&a.DischargeNotes, &a.AllocatedByID, &a.AllocatedByName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan allocation: %w", err)
	}
	return &a, nil
}

// Create persiste una asignación nueva.
func (r *BedAllocationRepo) Create(a *entity.BedAllocation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bed_allocations (id, bed_id, patient_record_id, patient_name, patient_id,
			admission_date, expected_discharge_date, actual_discharge_date, condition,
			special_requirements, attending_doctor_id, attending_doctor_name, is_active,
			discharge_notes, allocated_by_id, allocated_by_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.BedID, a.PatientRecordID, a.PatientName, a.PatientID,
		a.AdmissionDate, a.ExpectedDischargeDate, a.ActualDischargeDate, a.Condition,
		a.SpecialRequirements, a.AttendingDoctorID, a.AttendingDoctorName, a.IsActive,
		a.DischargeNotes, a.AllocatedByID, a.AllocatedByName, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *BedAllocationRepo) GetByID(id string) (*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations WHERE id = $1`
	return scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la asignación y bloquea la fila (SELECT FOR UPDATE).
func (r *BedAllocationRepo) GetForUpdate(id string) (*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations WHERE id = $1 FOR UPDATE`
	return scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste los campos mutables del ciclo de vida (alta, reactivación, notas).
func (r *BedAllocationRepo) Update(a *entity.BedAllocation) error {
	query := `
		UPDATE bed_allocations SET expected_discharge_date = $2, actual_discharge_date = $3,
			is_active = $4, discharge_notes = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		a.ID, a.ExpectedDischargeDate, a.ActualDischargeDate,
		a.IsActive, a.DischargeNotes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update allocation: fila no encontrada")
	}
	return nil
}

// GetActiveByBed devuelve la asignación activa de una cama, o nil.
func (r *BedAllocationRepo) GetActiveByBed(bedID string) (*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE bed_id = $1 AND is_active LIMIT 1`
	return scanAllocation(r.q.QueryRow(context.Background(), query, bedID))
}

// CountActiveByBed cuenta asignaciones activas de una cama, excluyendo opcionalmente una.
func (r *BedAllocationRepo) CountActiveByBed(bedID, excludeID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM bed_allocations WHERE bed_id = $1 AND is_active AND id <> $2`,
		bedID, excludeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active allocations: %w", err)
	}
	return count, nil
}

// ListActive asignaciones activas, más recientes primero.
func (r *BedAllocationRepo) ListActive() ([]*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE is_active ORDER BY admission_date DESC`
	return r.list(query)
}

// ListOverdue asignaciones activas con fecha esperada de alta ya vencida.
func (r *BedAllocationRepo) ListOverdue(today time.Time) ([]*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE is_active AND actual_discharge_date IS NULL
			AND expected_discharge_date IS NOT NULL AND expected_discharge_date < $1::date
		ORDER BY expected_discharge_date`
	return r.list(query, today)
}

// ListAdmittedOn ingresos registrados en el día dado.
func (r *BedAllocationRepo) ListAdmittedOn(day time.Time) ([]*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE admission_date::date = $1::date ORDER BY admission_date`
	return r.list(query, day)
}

// ListExpectedDischargesOn asignaciones activas con alta esperada en el día dado.
func (r *BedAllocationRepo) ListExpectedDischargesOn(day time.Time) ([]*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE is_active AND expected_discharge_date = $1::date ORDER BY bed_id`
	return r.list(query, day)
}

// ListDischarged asignaciones con alta real registrada (para estadía promedio).
func (r *BedAllocationRepo) ListDischarged() ([]*entity.BedAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM bed_allocations
		WHERE NOT is_active AND actual_discharge_date IS NOT NULL
		ORDER BY actual_discharge_date DESC`
	return r.list(query)
}

func (r *BedAllocationRepo) list(query string, args ...any) ([]*entity.BedAllocation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.BedAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
