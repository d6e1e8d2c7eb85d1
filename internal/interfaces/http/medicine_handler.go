package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/medroom-api/internal/application/dto"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// MedicineHandler maneja el catálogo de medicamentos y el libro mayor de stock.
type MedicineHandler struct {
	catalog *pharmacy.CatalogUseCase
	queries *pharmacy.MedicineQueryUseCase
	record  *pharmacy.RecordTransactionUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(
	catalog *pharmacy.CatalogUseCase,
	queries *pharmacy.MedicineQueryUseCase,
	record *pharmacy.RecordTransactionUseCase,
) *MedicineHandler {
	return &MedicineHandler{catalog: catalog, queries: queries, record: record}
}

func toMedicineResponse(m *entity.Medicine) dto.MedicineResponse {
	return dto.MedicineResponse{
		ID:                m.ID,
		Name:              m.Name,
		GenericName:       m.GenericName,
		Category:          m.Category,
		Manufacturer:      m.Manufacturer,
		CurrentStock:      m.CurrentStock,
		MinimumStockLevel: m.MinimumStockLevel,
		Unit:              m.Unit,
		UnitPrice:         m.UnitPrice,
		StockStatus:       m.StockStatus(),
		TotalValue:        m.TotalValue(),
		ExpiryDate:        m.ExpiryDate,
		BatchNumber:       m.BatchNumber,
		IsActive:          m.IsActive,
	}
}

func toMedicineResponses(list []*entity.Medicine) []dto.MedicineResponse {
	out := make([]dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMedicineResponse(m))
	}
	return out
}

type catalogRequest struct {
	Name              string          `json:"name"`
	GenericName       string          `json:"generic_name,omitempty"`
	Category          string          `json:"category"`
	Manufacturer      string          `json:"manufacturer,omitempty"`
	Description       string          `json:"description,omitempty"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	Unit              string          `json:"unit,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

func (in catalogRequest) toInput() pharmacy.CatalogInput {
	return pharmacy.CatalogInput{
		Name:              in.Name,
		GenericName:       in.GenericName,
		Category:          in.Category,
		Manufacturer:      in.Manufacturer,
		Description:       in.Description,
		MinimumStockLevel: in.MinimumStockLevel,
		Unit:              in.Unit,
		UnitPrice:         in.UnitPrice,
	}
}

// Create godoc
// @Summary      Crear medicamento (stock inicia en 0)
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.MedicineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/medicines [post]
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	var in catalogRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.catalog.Create(in.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre, categoría válida y mínimo >= 1 son requeridos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el medicamento ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toMedicineResponse(m))
}

// List godoc
// @Summary      Listar medicamentos
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        active    query  bool    false  "Solo activos (default true)"
// @Success      200  {array}  dto.MedicineResponse
// @Router       /api/medicines [get]
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	activeOnly := c.Query("active", "true") != "false"
	list, err := h.queries.List(c.Query("category"), activeOnly, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMedicineResponses(list))
}

// GetByID godoc
// @Summary      Obtener medicamento
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.MedicineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [get]
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.queries.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if m == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
	}
	return c.JSON(toMedicineResponse(m))
}

// Update godoc
// @Summary      Editar campos descriptivos (nunca el stock)
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.MedicineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [put]
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	var in catalogRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := h.catalog.UpdateDetails(c.Params("id"), in.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMedicineResponse(m))
}

// Deactivate godoc
// @Summary      Baja lógica del medicamento
// @Tags         medicines
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [delete]
func (h *MedicineHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.catalog.Deactivate(c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListLowStock godoc
// @Summary      Medicamentos con stock en o bajo el mínimo
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MedicineResponse
// @Router       /api/medicines/low-stock [get]
func (h *MedicineHandler) ListLowStock(c *fiber.Ctx) error {
	list, err := h.queries.ListLowStock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMedicineResponses(list))
}

// ListOutOfStock godoc
// @Summary      Medicamentos agotados
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MedicineResponse
// @Router       /api/medicines/out-of-stock [get]
func (h *MedicineHandler) ListOutOfStock(c *fiber.Ctx) error {
	list, err := h.queries.ListOutOfStock()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMedicineResponses(list))
}

// ListExpiringSoon godoc
// @Summary      Medicamentos próximos a vencer
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días (default 30)"
// @Success      200  {array}  dto.MedicineResponse
// @Router       /api/medicines/expiring [get]
func (h *MedicineHandler) ListExpiringSoon(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days debe ser un entero positivo"})
	}
	list, err := h.queries.ListExpiringSoon(days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMedicineResponses(list))
}

// RecordTransaction godoc
// @Summary      Registrar transacción del libro mayor de stock
// @Description  received suma; issued/expired/adjustment restan. received exige
//
//	supplier, issued exige paciente. La entrada y el nuevo contador se
//	escriben en una sola transacción.
//
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "medicine_id, type, quantity..."
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/medicines/transactions [post]
func (h *MedicineHandler) RecordTransaction(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.record.RecordTransaction(c.Context(), pharmacy.TransactionInput{
		MedicineID:      in.MedicineID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Supplier:        in.Supplier,
		PatientRecordID: in.PatientRecordID,
		PatientName:     in.PatientName,
		Remarks:         in.Remarks,
		Actor:           pharmacy.Actor{ID: GetUserID(c), Name: GetUserName(c)},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity),
			errors.Is(err, domain.ErrMissingRequiredReference), errors.Is(err, domain.ErrMissingActor):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento o paciente no encontrado"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListTransactions godoc
// @Summary      Historial del libro mayor de un medicamento
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del medicamento"
// @Param        from  query  string  false  "Desde (RFC3339)"
// @Param        to    query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}  entity.MedicineTransaction
// @Router       /api/medicines/{id}/transactions [get]
func (h *MedicineHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}
	list, err := h.queries.ListTransactions(c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// DailyLog godoc
// @Summary      Bitácora de transacciones de un día
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (default hoy)"
// @Success      200  {array}  entity.MedicineTransaction
// @Router       /api/medicines/transactions/daily [get]
func (h *MedicineHandler) DailyLog(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválido (YYYY-MM-DD)"})
		}
		day = parsed
	}
	list, err := h.queries.ListTransactionsOn(day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
