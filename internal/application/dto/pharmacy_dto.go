package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest body para POST /api/medicines/transactions.
type RecordTransactionRequest struct {
	MedicineID      string  `json:"medicine_id"`
	Type            string  `json:"type"` // received, issued, expired, adjustment
	Quantity        int     `json:"quantity"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
	Supplier        string  `json:"supplier,omitempty"` // obligatorio para received
	PatientRecordID *string `json:"patient_record_id,omitempty"`
	PatientName     string  `json:"patient_name,omitempty"` // obligatorio para issued si no hay record
	Remarks         string  `json:"remarks,omitempty"`
}

// MedicineResponse representación de un medicamento con sus derivados.
type MedicineResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	GenericName       string          `json:"generic_name,omitempty"`
	Category          string          `json:"category"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	CurrentStock      int             `json:"current_stock"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	StockStatus       string          `json:"stock_status"`
	TotalValue        decimal.Decimal `json:"total_value"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	IsActive          bool            `json:"is_active"`
}

// SubmitStockRequestRequest body para POST /api/stock-requests.
type SubmitStockRequestRequest struct {
	MedicineID         string `json:"medicine_id"`
	RequestedQuantity  int    `json:"requested_quantity"`
	Priority           string `json:"priority,omitempty"` // vacío = auto según stock
	Reason             string `json:"reason"`
	EstimatedUsageDays *int   `json:"estimated_usage_days,omitempty"`
}

// ApproveStockRequestRequest body para POST /api/stock-requests/:id/approve.
type ApproveStockRequestRequest struct {
	ExpiryDate           string `json:"expiry_date"` // YYYY-MM-DD, obligatorio
	BatchNumber          string `json:"batch_number,omitempty"`
	ExpectedDeliveryDate string `json:"expected_delivery_date,omitempty"` // YYYY-MM-DD
}

// RejectStockRequestRequest body para POST /api/stock-requests/:id/reject.
type RejectStockRequestRequest struct {
	Reason string `json:"reason"`
}

// AdvanceStockRequestRequest body para POST /api/stock-requests/:id/advance.
type AdvanceStockRequestRequest struct {
	Status string `json:"status"` // ordered, received, rejected
}

// CreatePrescriptionRequest body para POST /api/prescriptions.
type CreatePrescriptionRequest struct {
	TreatmentRef    string  `json:"treatment_ref"`
	MedicineID      string  `json:"medicine_id"`
	PatientRecordID *string `json:"patient_record_id,omitempty"`
	PatientName     string  `json:"patient_name,omitempty"`
	Quantity        int     `json:"quantity"`
	Dosage          string  `json:"dosage"`
	DurationDays    int     `json:"duration_days"`
}
