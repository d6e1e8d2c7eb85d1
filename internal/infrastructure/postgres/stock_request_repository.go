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

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

const requestColumns = `id, medicine_id, requested_quantity, current_stock, priority, reason,
		estimated_usage_days, status, requested_by_id, requested_by_name, approved_by_id,
		approved_by_name, requested_date, approved_date, expected_delivery_date, notes`

// StockRequestRepo implementación de StockRequestRepository sobre PostgreSQL.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

func scanRequest(row pgx.Row) (*entity.StockRequest, error) {
	var req entity.StockRequest
	err := row.Scan(
		&req.ID, &req.MedicineID, &req.RequestedQuantity, &req.CurrentStock, &req.Priority, &req.Reason,
		&req.EstimatedUsageDays, &req.Status, &req.RequestedByID, &req.RequestedByName, &req.ApprovedByID,
		&req.ApprovedByName, &req.RequestedDate, &req.ApprovedDate, &req.ExpectedDeliveryDate, &req.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock request: %w", err)
	}
	return &req, nil
}

// Create persiste una solicitud nueva.
func (r *StockRequestRepo) Create(req *entity.StockRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_requests (id, medicine_id, requested_quantity, current_stock, priority,
			reason, estimated_usage_days, status, requested_by_id, requested_by_name,
			requested_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.MedicineID, req.RequestedQuantity, req.CurrentStock, req.Priority,
		req.Reason, req.EstimatedUsageDays, req.Status, req.RequestedByID, req.RequestedByName,
		req.RequestedDate, req.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert stock request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests WHERE id = $1`
	return scanRequest(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests WHERE id = $1 FOR UPDATE`
	return scanRequest(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste el estado y los campos de transición de la solicitud.
func (r *StockRequestRepo) Update(req *entity.StockRequest) error {
	query := `
		UPDATE stock_requests SET status = $2, approved_by_id = $3, approved_by_name = $4,
			approved_date = $5, expected_delivery_date = $6, notes = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		req.ID, req.Status, req.ApprovedByID, req.ApprovedByName,
		req.ApprovedDate, req.ExpectedDeliveryDate, req.Notes,
	)
	if err != nil {
		return fmt.Errorf("update stock request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update stock request: fila no encontrada")
	}
	return nil
}

// ListByStatus solicitudes en un estado dado, más urgentes primero.
func (r *StockRequestRepo) ListByStatus(status entity.RequestStatus, limit, offset int) ([]*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests
		WHERE status = $1
		ORDER BY CASE priority
			WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3
		END, requested_date
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock requests: %w", err)
	}
	return collectRequests(rows)
}

// ListByMedicine historial de solicitudes de un medicamento.
func (r *StockRequestRepo) ListByMedicine(medicineID string, limit, offset int) ([]*entity.StockRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM stock_requests
		WHERE medicine_id = $1 ORDER BY requested_date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, medicineID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock requests by medicine: %w", err)
	}
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*entity.StockRequest, error) {
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}
