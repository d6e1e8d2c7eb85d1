package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

var _ repository.BedRepository = (*BedRepo)(nil)

const bedColumns = `id, bed_number, description, status, has_oxygen, has_monitor,
		has_ventilator, is_active, created_at, updated_at`

// BedRepo implementación de BedRepository sobre PostgreSQL (usable con pool o tx).
type BedRepo struct {
	q Querier
}

// NewBedRepository construye el adaptador de camas. Pasar pool o tx (Querier).
func NewBedRepository(q Querier) *BedRepo {
	return &BedRepo{q: q}
}

func scanBed(row pgx.Row) (*entity.Bed, error) {
	var b entity.Bed
	err := row.Scan(
		&b.ID, &b.BedNumber, &b.Description, &b.Status, &b.HasOxygen, &b.HasMonitor,
		&b.HasVentilator, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan bed: %w", err)
	}
	return &b, nil
}

// Create persiste una cama nueva. bed_number es único.
func (r *BedRepo) Create(bed *entity.Bed) error {
	if bed.ID == "" {
		bed.ID = uuid.New().String()
	}
	query := `
		INSERT INTO beds (id, bed_number, description, status, has_oxygen, has_monitor,
			has_ventilator, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		bed.ID, bed.BedNumber, bed.Description, bed.Status, bed.HasOxygen, bed.HasMonitor,
		bed.HasVentilator, bed.IsActive, bed.CreatedAt, bed.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bed: %w", err)
	}
	return nil
}

// GetByID obtiene una cama por ID.
func (r *BedRepo) GetByID(id string) (*entity.Bed, error) {
	query := `SELECT ` + bedColumns + ` FROM beds WHERE id = $1`
	return scanBed(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la cama y bloquea la fila (SELECT FOR UPDATE) para la
// secuencia verificar-asignar.
func (r *BedRepo) GetForUpdate(id string) (*entity.Bed, error) {
	query := `SELECT ` + bedColumns + ` FROM beds WHERE id = $1 FOR UPDATE`
	return scanBed(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus cambia el status de la cama. Solo lo invoca el motor de
// asignaciones dentro de su transacción.
func (r *BedRepo) UpdateStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE beds SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update bed status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista camas activas filtradas por status y equipamiento requerido.
func (r *BedRepo) List(filter repository.BedFilter) ([]*entity.Bed, error) {
	query := `SELECT ` + bedColumns + ` FROM beds
		WHERE is_active
			AND ($1 = '' OR status = $1)
			AND (NOT $2 OR has_oxygen)
			AND (NOT $3 OR has_monitor)
			AND (NOT $4 OR has_ventilator)
		ORDER BY bed_number`
	rows, err := r.q.Query(context.Background(), query,
		filter.Status, filter.NeedsOxygen, filter.NeedsMonitor, filter.NeedsVentilator)
	if err != nil {
		return nil, fmt.Errorf("list beds: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// CountByStatus cuenta camas activas por status.
func (r *BedRepo) CountByStatus() (available, occupied int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'occupied')
		FROM beds WHERE is_active`
	if err := r.q.QueryRow(context.Background(), query).Scan(&available, &occupied); err != nil {
		return 0, 0, fmt.Errorf("count beds: %w", err)
	}
	return available, occupied, nil
}
