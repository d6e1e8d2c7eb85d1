package entity

import "time"

// RequestStatus estado de una solicitud de reposición.
// La tabla de transiciones es fija; ver CanTransitionTo.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestOrdered  RequestStatus = "ordered"
	RequestReceived RequestStatus = "received"
	RequestRejected RequestStatus = "rejected"
)

// Valid indica si el valor es un estado conocido.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestOrdered, RequestReceived, RequestRejected:
		return true
	}
	return false
}

// Terminal indica si el estado no admite más transiciones.
func (s RequestStatus) Terminal() bool {
	return s == RequestReceived || s == RequestRejected
}

// CanTransitionTo implementa la máquina de estados de la solicitud:
//
//	pending  → approved | rejected
//	approved → ordered  | rejected
//	ordered  → received
//	received, rejected → (terminal)
//
// Cualquier otra transición es inválida. El switch es exhaustivo a propósito:
// agregar un estado nuevo obliga a decidir sus transiciones aquí.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestPending:
		return next == RequestApproved || next == RequestRejected
	case RequestApproved:
		return next == RequestOrdered || next == RequestRejected
	case RequestOrdered:
		return next == RequestReceived
	case RequestReceived, RequestRejected:
		return false
	}
	return false
}

// Prioridades de solicitud.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority indica si el valor es una prioridad conocida.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// StockRequest solicitud de reposición de un medicamento.
// Solo avanza hacia adelante en la máquina de estados; nunca se borra.
type StockRequest struct {
	ID                string
	MedicineID        string
	RequestedQuantity int // > 0
	CurrentStock      int // snapshot del stock al momento de solicitar
	Priority          string
	Reason            string
	EstimatedUsageDays *int

	Status RequestStatus

	RequestedByID   string
	RequestedByName string
	ApprovedByID    *string
	ApprovedByName  string

	RequestedDate        time.Time
	ApprovedDate         *time.Time
	ExpectedDeliveryDate *time.Time

	Notes string
}
