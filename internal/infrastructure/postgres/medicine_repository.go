package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

const medicineColumns = `id, name, generic_name, category, manufacturer, description,
		current_stock, minimum_stock_level, unit, unit_price, expiry_date, batch_number,
		is_active, created_at, updated_at`

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
// No escribe current_stock: eso es exclusivo de MedicineStockRepo dentro de una tx.
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(
		&m.ID, &m.Name, &m.GenericName, &m.Category, &m.Manufacturer, &m.Description,
		&m.CurrentStock, &m.MinimumStockLevel, &m.Unit, &m.UnitPrice, &m.ExpiryDate, &m.BatchNumber,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan medicine: %w", err)
	}
	return &m, nil
}

// Create persiste un medicamento nuevo.
func (r *MedicineRepo) Create(m *entity.Medicine) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO medicines (id, name, generic_name, category, manufacturer, description,
			current_stock, minimum_stock_level, unit, unit_price, expiry_date, batch_number,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.GenericName, m.Category, m.Manufacturer, m.Description,
		m.CurrentStock, m.MinimumStockLevel, m.Unit, m.UnitPrice, m.ExpiryDate, m.BatchNumber,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return scanMedicine(r.q.QueryRow(context.Background(), query, id))
}

// List lista el catálogo con filtros opcionales y paginación.
func (r *MedicineRepo) List(category string, activeOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE ($1 = '' OR category = $1) AND (NOT $2 OR is_active)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, category, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return collectMedicines(rows)
}

// UpdateDetails actualiza los campos descriptivos. El SQL no incluye
// current_stock a propósito: el contador solo cambia vía el libro mayor.
func (r *MedicineRepo) UpdateDetails(m *entity.Medicine) error {
	query := `
		UPDATE medicines SET name = $2, generic_name = $3, category = $4, manufacturer = $5,
			description = $6, minimum_stock_level = $7, unit = $8, unit_price = $9,
			updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		m.ID, m.Name, m.GenericName, m.Category, m.Manufacturer,
		m.Description, m.MinimumStockLevel, m.Unit, m.UnitPrice,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate marca el medicamento como inactivo (baja lógica).
func (r *MedicineRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE medicines SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate medicine: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLowStock medicamentos activos con stock en o por debajo del mínimo.
func (r *MedicineRepo) ListLowStock() ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE is_active AND current_stock <= minimum_stock_level
		ORDER BY current_stock`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectMedicines(rows)
}

// ListOutOfStock medicamentos activos con stock agotado.
func (r *MedicineRepo) ListOutOfStock() ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE is_active AND current_stock = 0 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list out of stock: %w", err)
	}
	return collectMedicines(rows)
}

// ListExpiringBefore medicamentos activos que vencen antes de la fecha dada.
func (r *MedicineRepo) ListExpiringBefore(date time.Time) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE is_active AND expiry_date IS NOT NULL AND expiry_date < $1
		ORDER BY expiry_date`
	rows, err := r.q.Query(context.Background(), query, date)
	if err != nil {
		return nil, fmt.Errorf("list expiring: %w", err)
	}
	return collectMedicines(rows)
}

func collectMedicines(rows pgx.Rows) ([]*entity.Medicine, error) {
	defer rows.Close()
	var list []*entity.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

var _ repository.MedicineStockRepository = (*MedicineStockRepo)(nil)

// MedicineStockRepo capacidad de escritura del contador current_stock.
// Solo lo construye el PharmacyTxRunner dentro de una transacción.
type MedicineStockRepo struct {
	q Querier
}

// NewMedicineStockRepository construye el adaptador de stock. Pasar la tx del runner.
func NewMedicineStockRepository(q Querier) *MedicineStockRepo {
	return &MedicineStockRepo{q: q}
}

// GetForUpdate obtiene el medicamento y bloquea la fila (SELECT FOR UPDATE).
func (r *MedicineStockRepo) GetForUpdate(medicineID string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 FOR UPDATE`
	return scanMedicine(r.q.QueryRow(context.Background(), query, medicineID))
}

// UpdateStock persiste el nuevo contador ya validado por el caso de uso.
func (r *MedicineStockRepo) UpdateStock(medicineID string, newStock int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE medicines SET current_stock = $2, updated_at = now() WHERE id = $1`,
		medicineID, newStock,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// UpdateExpiryBatch actualiza vencimiento y lote (aprobación de reposición).
func (r *MedicineStockRepo) UpdateExpiryBatch(medicineID string, expiry time.Time, batchNumber string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE medicines SET expiry_date = $2,
			batch_number = CASE WHEN $3 = '' THEN batch_number ELSE $3 END,
			updated_at = now()
		WHERE id = $1`,
		medicineID, expiry, batchNumber,
	)
	if err != nil {
		return fmt.Errorf("update expiry/batch: %w", err)
	}
	return nil
}
