package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// txMaxAttempts reintentos ante serialization_failure o deadlock antes de
// rendirse con ErrConflict.
const txMaxAttempts = 3

// runInTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
// Reintenta hasta txMaxAttempts veces si la transacción pierde por contención.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		err = runOnce(ctx, pool, fn)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return fmt.Errorf("%w: transacción perdió por contención tras %d intentos", domain.ErrConflict, txMaxAttempts)
}

func runOnce(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ensure los runners implementan los puertos de la capa de aplicación.
var _ pharmacy.TxRunner = (*PharmacyTxRunner)(nil)
var _ occupancy.TxRunner = (*OccupancyTxRunner)(nil)

// PharmacyTxRunner ejecuta los callbacks transaccionales del motor de
// farmacia. Los repos que entrega están atados a la tx; en particular el
// MedicineStockRepo solo existe aquí adentro.
type PharmacyTxRunner struct {
	pool *pgxpool.Pool
}

// NewPharmacyTxRunner construye el runner con el pool.
func NewPharmacyTxRunner(pool *pgxpool.Pool) *PharmacyTxRunner {
	return &PharmacyTxRunner{pool: pool}
}

// Run transacción mínima del libro mayor: entradas + contador de stock.
func (r *PharmacyTxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewMedicineTransactionRepository(tx), NewMedicineStockRepository(tx))
	})
}

// RunReplenishment transacción de aprobación/transición de solicitudes.
func (r *PharmacyTxRunner) RunReplenishment(ctx context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	requestRepo repository.StockRequestRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewMedicineTransactionRepository(tx), NewMedicineStockRepository(tx), NewStockRequestRepository(tx))
	})
}

// RunPrescription transacción de prescripciones con efecto en stock.
func (r *PharmacyTxRunner) RunPrescription(ctx context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	prescriptionRepo repository.PrescriptionRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewMedicineTransactionRepository(tx), NewMedicineStockRepository(tx), NewPrescriptionRepository(tx))
	})
}

// OccupancyTxRunner ejecuta los callbacks transaccionales del motor de
// asignación de camas.
type OccupancyTxRunner struct {
	pool *pgxpool.Pool
}

// NewOccupancyTxRunner construye el runner con el pool.
func NewOccupancyTxRunner(pool *pgxpool.Pool) *OccupancyTxRunner {
	return &OccupancyTxRunner{pool: pool}
}

// Run transacción de camas + asignaciones.
func (r *OccupancyTxRunner) Run(ctx context.Context, fn func(
	bedRepo repository.BedRepository,
	allocRepo repository.BedAllocationRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewBedRepository(tx), NewBedAllocationRepository(tx))
	})
}
