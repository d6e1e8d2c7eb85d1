package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medroom-api/internal/application/dto"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain"
)

// PrescriptionHandler maneja prescripciones y su efecto sobre el stock.
type PrescriptionHandler struct {
	uc *pharmacy.PrescriptionUseCase
}

// NewPrescriptionHandler construye el handler.
func NewPrescriptionHandler(uc *pharmacy.PrescriptionUseCase) *PrescriptionHandler {
	return &PrescriptionHandler{uc: uc}
}

// Create godoc
// @Summary      Prescribir medicamento (descuenta stock)
// @Tags         prescriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePrescriptionRequest  true  "treatment_ref, medicine_id, quantity..."
// @Success      201  {object}  entity.Prescription
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prescriptions [post]
func (h *PrescriptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePrescriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(c.Context(), pharmacy.PrescriptionInput{
		TreatmentRef:    in.TreatmentRef,
		MedicineID:      in.MedicineID,
		PatientRecordID: in.PatientRecordID,
		PatientName:     in.PatientName,
		Quantity:        in.Quantity,
		Dosage:          in.Dosage,
		DurationDays:    in.DurationDays,
		Actor:           pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrMissingActor),
			errors.Is(err, domain.ErrMissingRequiredReference):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento o paciente no encontrado"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para prescribir"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Remove godoc
// @Summary      Eliminar prescripción
// @Description  Dentro de la ventana de gracia restaura el stock; fuera de ella
//
//	solo deja registro en el libro mayor.
//
// @Tags         prescriptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prescriptions/{id} [delete]
func (h *PrescriptionHandler) Remove(c *fiber.Ctx) error {
	restored, err := h.uc.Remove(c.Context(), c.Params("id"),
		pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingActor):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "prescripción no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_REMOVED", Message: "la prescripción ya fue eliminada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"stock_restored": restored})
}

// ListByPatient godoc
// @Summary      Prescripciones de un paciente
// @Tags         prescriptions
// @Security     Bearer
// @Produce      json
// @Param        patient_record_id  query  string  true  "ID del registro de paciente"
// @Success      200  {array}  entity.Prescription
// @Router       /api/prescriptions [get]
func (h *PrescriptionHandler) ListByPatient(c *fiber.Ctx) error {
	recordID := c.Query("patient_record_id")
	if recordID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "patient_record_id es requerido"})
	}
	list, err := h.uc.ListByPatient(recordID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}
