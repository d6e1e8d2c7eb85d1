package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medroom-api/internal/application/dto"
	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// AllocationHandler maneja camas, asignaciones y analítica de ocupación.
type AllocationHandler struct {
	beds    *occupancy.BedUseCase
	alloc   *occupancy.AllocationUseCase
	queries *occupancy.QueryUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(
	beds *occupancy.BedUseCase,
	alloc *occupancy.AllocationUseCase,
	queries *occupancy.QueryUseCase,
) *AllocationHandler {
	return &AllocationHandler{beds: beds, alloc: alloc, queries: queries}
}

func allocationErrorResponse(c *fiber.Ctx, err error) error {
	var occupied *domain.BedOccupiedError
	switch {
	case errors.As(err, &occupied):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BED_OCCUPIED", Message: occupied.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingActor),
		errors.Is(err, domain.ErrInvalidDateOrder), errors.Is(err, domain.ErrInvalidAttendingRole):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cama, paciente o asignación no encontrada"})
	case errors.Is(err, domain.ErrAlreadyDischarged):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DISCHARGED", Message: "la asignación ya fue dada de alta"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// RegisterBed godoc
// @Summary      Registrar cama
// @Tags         beds
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBedRequest  true  "bed_number, equipamiento"
// @Success      201  {object}  entity.Bed
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/beds [post]
func (h *AllocationHandler) RegisterBed(c *fiber.Ctx) error {
	var in dto.RegisterBedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.beds.Register(c.Context(), occupancy.BedInput{
		BedNumber:     in.BedNumber,
		Description:   in.Description,
		HasOxygen:     in.HasOxygen,
		HasMonitor:    in.HasMonitor,
		HasVentilator: in.HasVentilator,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "bed_number inválido: solo letras, números, guion y guion bajo"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el número de cama ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// ListBeds godoc
// @Summary      Listar camas (filtros por status y equipamiento)
// @Tags         beds
// @Security     Bearer
// @Produce      json
// @Param        status            query  string  false  "available | occupied"
// @Param        needs_oxygen      query  bool    false  "Solo con oxígeno"
// @Param        needs_monitor     query  bool    false  "Solo con monitor"
// @Param        needs_ventilator  query  bool    false  "Solo con ventilador"
// @Success      200  {array}  entity.Bed
// @Router       /api/beds [get]
func (h *AllocationHandler) ListBeds(c *fiber.Ctx) error {
	list, err := h.queries.ListBeds(c.Context(), repository.BedFilter{
		Status:          c.Query("status"),
		NeedsOxygen:     c.QueryBool("needs_oxygen"),
		NeedsMonitor:    c.QueryBool("needs_monitor"),
		NeedsVentilator: c.QueryBool("needs_ventilator"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetBed godoc
// @Summary      Obtener cama
// @Tags         beds
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  entity.Bed
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/beds/{id} [get]
func (h *AllocationHandler) GetBed(c *fiber.Ctx) error {
	b, err := h.queries.GetBed(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if b == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cama no encontrada"})
	}
	return c.JSON(b)
}

// Admit godoc
// @Summary      Ingresar paciente a una cama
// @Description  Crea la asignación activa y marca la cama occupied en una sola
//
//	transacción. Si la cama ya está ocupada responde 409 nombrando
//	al ocupante actual.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdmitRequest  true  "bed_id, paciente, attending_doctor_id"
// @Success      201  {object}  entity.BedAllocation
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Admit(c *fiber.Ctx) error {
	var in dto.AdmitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var admission time.Time
	if in.AdmissionDate != "" {
		parsed, err := time.Parse(time.RFC3339, in.AdmissionDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "admission_date inválido (RFC3339)"})
		}
		admission = parsed
	}
	var expected *time.Time
	if in.ExpectedDischargeDate != "" {
		parsed, err := time.Parse("2006-01-02", in.ExpectedDischargeDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expected_discharge_date inválido (YYYY-MM-DD)"})
		}
		expected = &parsed
	}
	a, err := h.alloc.Admit(c.Context(), occupancy.AdmitInput{
		BedID:                 in.BedID,
		PatientRecordID:       in.PatientRecordID,
		PatientName:           in.PatientName,
		PatientID:             in.PatientID,
		AdmissionDate:         admission,
		ExpectedDischargeDate: expected,
		Condition:             in.Condition,
		SpecialRequirements:   in.SpecialRequirements,
		AttendingDoctorID:     in.AttendingDoctorID,
		Actor:                 occupancy.Actor{ID: GetUserID(c), Name: GetUserName(c)},
	})
	if err != nil {
		return allocationErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// Discharge godoc
// @Summary      Dar de alta una asignación
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID"
// @Param        body  body  dto.DischargeRequest  false  "notes, actual_discharge_date"
// @Success      200  {object}  entity.BedAllocation
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/discharge [post]
func (h *AllocationHandler) Discharge(c *fiber.Ctx) error {
	var in dto.DischargeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	var actual *time.Time
	if in.ActualDischargeDate != "" {
		parsed, err := time.Parse(time.RFC3339, in.ActualDischargeDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "actual_discharge_date inválido (RFC3339)"})
		}
		actual = &parsed
	}
	a, err := h.alloc.Discharge(c.Context(), c.Params("id"), in.Notes, actual)
	if err != nil {
		return allocationErrorResponse(c, err)
	}
	return c.JSON(a)
}

// Reactivate godoc
// @Summary      Reactivar una asignación dada de alta
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  entity.BedAllocation
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/reactivate [post]
func (h *AllocationHandler) Reactivate(c *fiber.Ctx) error {
	a, err := h.alloc.Reactivate(c.Context(), c.Params("id"))
	if err != nil {
		return allocationErrorResponse(c, err)
	}
	return c.JSON(a)
}

// ListActive godoc
// @Summary      Asignaciones activas
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.BedAllocation
// @Router       /api/allocations/active [get]
func (h *AllocationHandler) ListActive(c *fiber.Ctx) error {
	list, err := h.queries.ListActiveAllocations(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListOverdue godoc
// @Summary      Pacientes con alta esperada vencida
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.BedAllocation
// @Router       /api/allocations/overdue [get]
func (h *AllocationHandler) ListOverdue(c *fiber.Ctx) error {
	list, err := h.queries.ListOverdue(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListAdmissions godoc
// @Summary      Ingresos de un día
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD, por defecto hoy"
// @Success      200  {array}  entity.BedAllocation
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/allocations/admissions [get]
func (h *AllocationHandler) ListAdmissions(c *fiber.Ctx) error {
	day, err := parseDayQuery(c, "date")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválido (YYYY-MM-DD)"})
	}
	list, err := h.queries.ListAdmissionsOn(c.Context(), day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListExpectedDischarges godoc
// @Summary      Altas esperadas de un día
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD, por defecto hoy"
// @Success      200  {array}  entity.BedAllocation
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/allocations/expected-discharges [get]
func (h *AllocationHandler) ListExpectedDischarges(c *fiber.Ctx) error {
	day, err := parseDayQuery(c, "date")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválido (YYYY-MM-DD)"})
	}
	list, err := h.queries.ListExpectedDischargesOn(c.Context(), day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

func parseDayQuery(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", raw)
}

// GetAllocation godoc
// @Summary      Obtener asignación
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  entity.BedAllocation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [get]
func (h *AllocationHandler) GetAllocation(c *fiber.Ctx) error {
	a, err := h.queries.GetAllocation(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if a == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "asignación no encontrada"})
	}
	return c.JSON(a)
}

// Analytics godoc
// @Summary      Métricas de ocupación
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OccupancyAnalyticsResponse
// @Router       /api/allocations/analytics [get]
func (h *AllocationHandler) Analytics(c *fiber.Ctx) error {
	metrics, err := h.queries.Analytics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(metrics)
}
