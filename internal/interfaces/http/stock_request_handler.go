package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medroom-api/internal/application/dto"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// StockRequestHandler maneja el flujo de solicitudes de reposición.
type StockRequestHandler struct {
	uc *pharmacy.StockRequestUseCase
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(uc *pharmacy.StockRequestUseCase) *StockRequestHandler {
	return &StockRequestHandler{uc: uc}
}

func requestErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMissingActor), errors.Is(err, domain.ErrMissingExpiryDate),
		errors.Is(err, domain.ErrExpiryInPast):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud o medicamento no encontrado"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "la solicitud no admite esa transición"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Submit godoc
// @Summary      Crear solicitud de reposición
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitStockRequestRequest  true  "medicine_id, requested_quantity, reason"
// @Success      201  {object}  entity.StockRequest
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *StockRequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Submit(c.Context(), pharmacy.SubmitInput{
		MedicineID:         in.MedicineID,
		RequestedQuantity:  in.RequestedQuantity,
		Priority:           in.Priority,
		Reason:             in.Reason,
		EstimatedUsageDays: in.EstimatedUsageDays,
		Actor:              pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)},
	})
	if err != nil {
		return requestErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// Approve godoc
// @Summary      Aprobar solicitud (pending → approved)
// @Description  Registra la entrada received por la cantidad completa, actualiza
//
//	vencimiento/lote y estampa el aprobador, todo en una transacción.
//
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.ApproveStockRequestRequest  true  "expiry_date (YYYY-MM-DD) obligatorio"
// @Success      200  {object}  entity.StockRequest
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/approve [post]
func (h *StockRequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var expiry *time.Time
	if in.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", in.ExpiryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry_date inválido (YYYY-MM-DD)"})
		}
		expiry = &parsed
	}
	var delivery *time.Time
	if in.ExpectedDeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", in.ExpectedDeliveryDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expected_delivery_date inválido (YYYY-MM-DD)"})
		}
		delivery = &parsed
	}
	req, err := h.uc.Approve(c.Context(), pharmacy.ApproveInput{
		RequestID:            c.Params("id"),
		ExpiryDate:           expiry,
		BatchNumber:          in.BatchNumber,
		ExpectedDeliveryDate: delivery,
		Actor:                pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)},
	})
	if err != nil {
		return requestErrorResponse(c, err)
	}
	return c.JSON(req)
}

// Reject godoc
// @Summary      Rechazar solicitud (pending → rejected)
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.RejectStockRequestRequest  true  "reason"
// @Success      200  {object}  entity.StockRequest
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/reject [post]
func (h *StockRequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Reject(c.Context(), c.Params("id"), pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)}, in.Reason)
	if err != nil {
		return requestErrorResponse(c, err)
	}
	return c.JSON(req)
}

// Advance godoc
// @Summary      Avanzar solicitud (approved → ordered → received)
// @Tags         stock-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.AdvanceStockRequestRequest  true  "status destino"
// @Success      200  {object}  entity.StockRequest
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/advance [post]
func (h *StockRequestHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Advance(c.Context(), c.Params("id"), entity.RequestStatus(in.Status),
		pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)})
	if err != nil {
		return requestErrorResponse(c, err)
	}
	return c.JSON(req)
}

// ListPending godoc
// @Summary      Solicitudes pendientes, más urgentes primero
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.StockRequest
// @Router       /api/stock-requests/pending [get]
func (h *StockRequestHandler) ListPending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListPending(page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListByMedicine godoc
// @Summary      Historial de solicitudes de un medicamento
// @Tags         stock-requests
// @Security     Bearer
// @Produce      json
// @Param        medicine_id  query  string  true  "ID del medicamento"
// @Success      200  {array}  entity.StockRequest
// @Router       /api/stock-requests [get]
func (h *StockRequestHandler) ListByMedicine(c *fiber.Ctx) error {
	medicineID := c.Query("medicine_id")
	if medicineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "medicine_id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByMedicine(medicineID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
