package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de medicamento.
const (
	CategoryTablet    = "tablet"
	CategoryCapsule   = "capsule"
	CategorySyrup     = "syrup"
	CategoryInjection = "injection"
	CategoryOintment  = "ointment"
	CategoryDrops     = "drops"
	CategoryOther     = "other"
)

// Estados derivados del stock.
const (
	StockStatusOutOfStock = "out_of_stock"
	StockStatusLow        = "low_stock"
	StockStatusAdequate   = "adequate"
)

// Medicine representa un medicamento del inventario de la enfermería.
// CurrentStock es un contador derivado: solo cambia junto con una
// MedicineTransaction dentro de la misma transacción de BD.
type Medicine struct {
	ID                string
	Name              string
	GenericName       string
	Category          string
	Manufacturer      string
	Description       string
	CurrentStock      int // >= 0, derivado del libro mayor
	MinimumStockLevel int // >= 1
	Unit              string // pieces, bottles, boxes, etc.
	UnitPrice         decimal.Decimal
	ExpiryDate        *time.Time
	BatchNumber       string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (m *Medicine) IsLowStock() bool {
	return m.CurrentStock <= m.MinimumStockLevel
}

// StockStatus devuelve el estado derivado: out_of_stock, low_stock o adequate.
func (m *Medicine) StockStatus() string {
	switch {
	case m.CurrentStock == 0:
		return StockStatusOutOfStock
	case m.IsLowStock():
		return StockStatusLow
	default:
		return StockStatusAdequate
	}
}

// IsExpired indica si el medicamento ya venció respecto a la fecha dada.
func (m *Medicine) IsExpired(today time.Time) bool {
	if m.ExpiryDate == nil {
		return false
	}
	return m.ExpiryDate.Before(truncateToDate(today))
}

// DaysToExpiry devuelve los días restantes hasta el vencimiento.
// Retorna (0, false) si no hay fecha de vencimiento; negativo si ya venció.
func (m *Medicine) DaysToExpiry(today time.Time) (int, bool) {
	if m.ExpiryDate == nil {
		return 0, false
	}
	days := int(truncateToDate(*m.ExpiryDate).Sub(truncateToDate(today)).Hours() / 24)
	return days, true
}

// TotalValue devuelve el valor del stock actual (cantidad × precio unitario).
func (m *Medicine) TotalValue() decimal.Decimal {
	return m.UnitPrice.Mul(decimal.NewFromInt(int64(m.CurrentStock)))
}

func truncateToDate(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
