package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// StockRequestUseCase gestiona el flujo de reposición: solicitud, aprobación
// (con efecto en el libro mayor), rechazo y avance ordered → received.
type StockRequestUseCase struct {
	txRunner     TxRunner
	medicineRepo repository.MedicineRepository
	requestRepo  repository.StockRequestRepository // atado al pool, para submit y consultas
}

// NewStockRequestUseCase construye el caso de uso.
func NewStockRequestUseCase(
	txRunner TxRunner,
	medicineRepo repository.MedicineRepository,
	requestRepo repository.StockRequestRepository,
) *StockRequestUseCase {
	return &StockRequestUseCase{
		txRunner:     txRunner,
		medicineRepo: medicineRepo,
		requestRepo:  requestRepo,
	}
}

// SubmitInput entrada para crear una solicitud de reposición.
type SubmitInput struct {
	MedicineID         string
	RequestedQuantity  int
	Priority           string // vacío = auto según el stock actual
	Reason             string
	EstimatedUsageDays *int
	Actor              Actor
}

// Submit crea una solicitud pending con snapshot del stock actual.
// Si el caller no indicó prioridad, se escala automáticamente: urgent con
// stock 0, high con stock bajo, medium en el resto.
func (uc *StockRequestUseCase) Submit(ctx context.Context, input SubmitInput) (*entity.StockRequest, error) {
	if input.RequestedQuantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !input.Actor.Valid() {
		return nil, domain.ErrMissingActor
	}
	if input.Priority != "" && !entity.ValidPriority(input.Priority) {
		return nil, domain.ErrInvalidInput
	}

	medicine, err := uc.medicineRepo.GetByID(input.MedicineID)
	if err != nil {
		return nil, err
	}
	if medicine == nil {
		return nil, domain.ErrNotFound
	}

	priority := input.Priority
	if priority == "" {
		switch {
		case medicine.CurrentStock == 0:
			priority = entity.PriorityUrgent
		case medicine.IsLowStock():
			priority = entity.PriorityHigh
		default:
			priority = entity.PriorityMedium
		}
	}

	req := &entity.StockRequest{
		MedicineID:         input.MedicineID,
		RequestedQuantity:  input.RequestedQuantity,
		CurrentStock:       medicine.CurrentStock,
		Priority:           priority,
		Reason:             input.Reason,
		EstimatedUsageDays: input.EstimatedUsageDays,
		Status:             entity.RequestPending,
		RequestedByID:      input.Actor.ID,
		RequestedByName:    input.Actor.Name,
		RequestedDate:      time.Now(),
	}
	if err := uc.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveInput entrada para aprobar una solicitud.
type ApproveInput struct {
	RequestID            string
	ExpiryDate           *time.Time // obligatorio, no en el pasado
	BatchNumber          string
	ExpectedDeliveryDate *time.Time
	Actor                Actor
}

// Approve transiciona pending → approved con su efecto atómico: crea una
// entrada received del libro mayor por la cantidad solicitada completa,
// actualiza vencimiento/lote del medicamento y estampa aprobador y fecha.
// Todo dentro de una sola transacción; si algo falla no queda efecto parcial.
func (uc *StockRequestUseCase) Approve(ctx context.Context, input ApproveInput) (*entity.StockRequest, error) {
	if !input.Actor.Valid() {
		return nil, domain.ErrMissingActor
	}
	if input.ExpiryDate == nil {
		return nil, domain.ErrMissingExpiryDate
	}
	if dayBefore(*input.ExpiryDate, time.Now()) {
		return nil, domain.ErrExpiryInPast
	}

	var approved *entity.StockRequest
	err := uc.txRunner.RunReplenishment(ctx, func(
		ledgerRepo repository.MedicineTransactionRepository,
		stockRepo repository.MedicineStockRepository,
		requestRepo repository.StockRequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(input.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.Status.CanTransitionTo(entity.RequestApproved) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		entry := &entity.MedicineTransaction{
			MedicineID:      req.MedicineID,
			Type:            entity.TransactionReceived,
			Quantity:        req.RequestedQuantity,
			Date:            now,
			ReferenceNumber: req.ID,
			PerformedByID:   input.Actor.ID,
			PerformedByName: input.Actor.Name,
			Remarks:         fmt.Sprintf("Solicitud de reposición aprobada (ID: %s)", req.ID),
			CreatedAt:       now,
		}
		if err := applyEntry(ledgerRepo, stockRepo, entry); err != nil {
			return err
		}
		if err := stockRepo.UpdateExpiryBatch(req.MedicineID, *input.ExpiryDate, input.BatchNumber); err != nil {
			return err
		}

		req.Status = entity.RequestApproved
		req.ApprovedByID = &input.Actor.ID
		req.ApprovedByName = input.Actor.Name
		req.ApprovedDate = &now
		req.ExpectedDeliveryDate = input.ExpectedDeliveryDate
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Reject transiciona pending → rejected: estampa aprobador, fecha y motivo.
// Sin efecto sobre el libro mayor.
func (uc *StockRequestUseCase) Reject(ctx context.Context, requestID string, actor Actor, reason string) (*entity.StockRequest, error) {
	if !actor.Valid() {
		return nil, domain.ErrMissingActor
	}

	var rejected *entity.StockRequest
	err := uc.txRunner.RunReplenishment(ctx, func(
		_ repository.MedicineTransactionRepository,
		_ repository.MedicineStockRepository,
		requestRepo repository.StockRequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestPending {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		req.Status = entity.RequestRejected
		req.ApprovedByID = &actor.ID
		req.ApprovedByName = actor.Name
		req.ApprovedDate = &now
		if reason == "" {
			reason = "Solicitud rechazada"
		}
		req.Notes = reason
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Advance transición genérica posterior a la aprobación: approved → ordered,
// approved → rejected, ordered → received, validada contra la tabla fija.
// Las transiciones desde pending usan Approve/Reject (tienen efectos propios).
// Deja constancia del actor en las notas de la solicitud.
func (uc *StockRequestUseCase) Advance(ctx context.Context, requestID string, next entity.RequestStatus, actor Actor) (*entity.StockRequest, error) {
	if !actor.Valid() {
		return nil, domain.ErrMissingActor
	}
	if !next.Valid() {
		return nil, domain.ErrInvalidInput
	}

	var advanced *entity.StockRequest
	err := uc.txRunner.RunReplenishment(ctx, func(
		_ repository.MedicineTransactionRepository,
		_ repository.MedicineStockRepository,
		requestRepo repository.StockRequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		// La aprobación tiene efecto en el libro mayor: nunca vía Advance.
		if req.Status == entity.RequestPending || next == entity.RequestApproved {
			return domain.ErrInvalidTransition
		}
		if !req.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}

		req.Status = next
		stamp := fmt.Sprintf("Marcada como %s por %s (%s)", next, actor.Name, actor.ID)
		if req.Notes != "" {
			req.Notes = req.Notes + "; " + stamp
		} else {
			req.Notes = stamp
		}
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		advanced = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return advanced, nil
}

// ListPending devuelve las solicitudes pendientes.
func (uc *StockRequestUseCase) ListPending(limit, offset int) ([]*entity.StockRequest, error) {
	return uc.requestRepo.ListByStatus(entity.RequestPending, limit, offset)
}

// ListByMedicine devuelve el historial de solicitudes de un medicamento.
func (uc *StockRequestUseCase) ListByMedicine(medicineID string, limit, offset int) ([]*entity.StockRequest, error) {
	return uc.requestRepo.ListByMedicine(medicineID, limit, offset)
}

// dayBefore indica si la fecha calendario de a es anterior a la de b.
// Compara componentes de fecha en la zona de cada instante: una fecha
// parseada como medianoche UTC no debe contar como "ayer" en zonas al oeste.
func dayBefore(a, b time.Time) bool {
	return a.Format("2006-01-02") < b.Format("2006-01-02")
}
