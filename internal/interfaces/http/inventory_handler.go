package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tiendafacil/tienda-api/internal/application/dto"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	ledger     *inventory.StockLedger
	adjustment *inventory.ManualAdjustmentProcessor
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, adjustment *inventory.ManualAdjustmentProcessor) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, adjustment: adjustment}
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste manual de stock
// @Description  Registra un ajuste (daño, pérdida, uso interno, corrección,
//
//	devolución, promoción o carga inicial). El signo del delta lo fija el tipo;
//	quantity es la magnitud (> 0).
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, type, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	storeID, userID := GetStoreID(c), GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.adjustment.Adjust(c.Context(), inventory.AdjustInput{
		StoreID:       storeID,
		ProductID:     in.ProductID,
		Type:          entity.MovementType(in.Type),
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		Description:   in.Description,
		Actor:         entity.UserActor(userID),
		AllowNegative: in.AllowNegative,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Description  Movimientos del libro, más reciente primero, con cursor keyset
//
//	reanudable. product_id vacío lista toda la tienda.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        limit       query  int     false  "Tamaño de página (def 20, max 100)"
// @Param        cursor      query  string  false  "Cursor de la página anterior"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	limit := c.QueryInt("limit", 20)
	cursor := c.Query("cursor")

	movs, next, err := h.ledger.History(c.Context(), storeID, productID, limit, cursor)
	if err != nil {
		return writeDomainError(c, err)
	}

	out := dto.MovementListResponse{
		Movements:  make([]dto.MovementResponse, 0, len(movs)),
		NextCursor: next,
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, toMovementResponse(m))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Description:   m.Description,
		ReferenceID:   m.ReferenceID,
		Cost:          m.Cost,
		Price:         m.Price,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// writeDomainError mapea errores de dominio a estados HTTP.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNoQuantities):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrDuplicateProduct):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidOrderState), errors.Is(err, domain.ErrIllegalTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
