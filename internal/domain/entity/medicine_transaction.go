package entity

import "time"

// Tipos de transacción del libro mayor de medicamentos.
const (
	TransactionReceived   = "received"   // entrada por compra/reposición
	TransactionIssued     = "issued"     // salida hacia un paciente
	TransactionExpired    = "expired"    // vencido/descartado
	TransactionAdjustment = "adjustment" // ajuste (resta, o restauración de prescripción)
)

// MedicineTransaction es una entrada inmutable del libro mayor de stock.
// Una vez creada no se actualiza ni se borra; el stock del medicamento
// solo cambia junto con la creación de una de estas filas.
type MedicineTransaction struct {
	ID         string
	MedicineID string
	Type       string
	Quantity   int // > 0; las entradas de solo-registro (eliminación fuera de ventana) usan 0
	Date       time.Time

	ReferenceNumber string // factura/remisión
	Supplier        string // obligatorio para received

	PatientRecordID *string // referencia opcional al directorio de pacientes
	PatientName     string  // obligatorio para issued; auto-poblado desde el directorio

	// Snapshot de atribución: se copia el nombre al momento de escribir para
	// que el historial siga siendo legible aunque la cuenta se elimine.
	PerformedByID   string
	PerformedByName string

	Remarks   string
	CreatedAt time.Time
}

// IsDecreasing indica si el tipo resta stock.
func IsDecreasing(transactionType string) bool {
	switch transactionType {
	case TransactionIssued, TransactionExpired, TransactionAdjustment:
		return true
	}
	return false
}

// ValidTransactionType indica si el tipo pertenece al libro mayor.
func ValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionReceived, TransactionIssued, TransactionExpired, TransactionAdjustment:
		return true
	}
	return false
}

// SignedDelta devuelve el efecto de la entrada sobre el stock:
// +Quantity para received, -Quantity para los tipos que restan.
func (t *MedicineTransaction) SignedDelta() int {
	if t.Type == TransactionReceived {
		return t.Quantity
	}
	return -t.Quantity
}
