package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tiendafacil/tienda-api/internal/application/dto"
	"github.com/tiendafacil/tienda-api/internal/application/restock"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// RestockHandler maneja las órdenes de compra a proveedor (protegido).
type RestockHandler struct {
	uc        *restock.RestockOrderUseCase
	receiving *restock.ReceivingProcessor
	pdf       *restock.PDFUseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *restock.RestockOrderUseCase, receiving *restock.ReceivingProcessor, pdf *restock.PDFUseCase) *RestockHandler {
	return &RestockHandler{uc: uc, receiving: receiving, pdf: pdf}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         restock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockOrderRequest  true  "supplier_id, items"
// @Success      201   {object}  dto.RestockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/restock-orders [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateRestockOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), restock.CreateInput{
		StoreID:      storeID,
		SupplierID:   in.SupplierID,
		Notes:        in.Notes,
		ShippingCost: in.ShippingCost,
		Items:        toItemInputs(in.Items),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         restock-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado (DRAFT, ORDERED, ...)"
// @Param        limit   query  int     false  "Tamaño de página"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.RestockOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/restock-orders [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	orders, err := h.uc.List(c.Context(), storeID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.RestockOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         restock-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.RestockOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id} [get]
func (h *RestockHandler) GetByID(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := h.uc.Get(c.Context(), c.Params("id"), storeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Update godoc
// @Summary      Editar o colocar una orden de compra
// @Description  Sin action edita cabecera/líneas (solo DRAFT). action=place
//
//	avanza DRAFT -> ORDERED; requiere proveedor y al menos una línea.
//
// @Tags         restock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la orden"
// @Param        body  body  dto.UpdateRestockOrderRequest  true  "campos a editar o action"
// @Success      200   {object}  dto.RestockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id} [patch]
func (h *RestockHandler) Update(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateRestockOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	var (
		order *entity.RestockOrder
		err   error
	)
	switch in.Action {
	case "place":
		order, err = h.uc.PlaceOrder(c.Context(), c.Params("id"), storeID)
	case "":
		order, err = h.uc.Update(c.Context(), restock.UpdateInput{
			OrderID:      c.Params("id"),
			StoreID:      storeID,
			SupplierID:   in.SupplierID,
			Notes:        in.Notes,
			ShippingCost: in.ShippingCost,
			Items:        toItemInputs(in.Items),
			ReplaceItems: in.Items != nil,
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action desconocida"})
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Description  Terminal. No revierte movimientos ya registrados; solo detiene
//
//	recepciones futuras.
//
// @Tags         restock-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.RestockOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id}/cancel [post]
func (h *RestockHandler) Cancel(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := h.uc.Cancel(c.Context(), c.Params("id"), storeID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Delete godoc
// @Summary      Borrar orden de compra (solo DRAFT)
// @Tags         restock-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id} [delete]
func (h *RestockHandler) Delete(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), c.Params("id"), storeID); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden borrada"})
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Aplica un lote de cantidades recibidas contra la orden. Atómico:
//
//	si una línea falla, ninguna se registra. Cantidades cero se ignoran; la
//	sobre-recepción se acepta y se reporta como warning. allow_over_receipt=false
//	la rechaza.
//
// @Tags         restock-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id                  path   string              true   "ID de la orden"
// @Param        allow_over_receipt  query  bool                false  "Rechazar exceso si es false (def true)"
// @Param        body                body   dto.ReceiveRequest  true   "received_items"
// @Success      200  {object}  dto.ReceiveResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id}/receive [post]
func (h *RestockHandler) Receive(c *fiber.Ctx) error {
	storeID, userID := GetStoreID(c), GetUserID(c)
	if storeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]restock.ReceiveItem, 0, len(in.ReceivedItems))
	for _, it := range in.ReceivedItems {
		items = append(items, restock.ReceiveItem{ItemID: it.RestockOrderItemID, Quantity: it.QuantityReceived})
	}

	order, warnings, err := h.receiving.Receive(c.Context(), restock.ReceiveInput{
		OrderID:          c.Params("id"),
		StoreID:          storeID,
		Items:            items,
		Actor:            entity.UserActor(userID),
		AllowOverReceipt: c.QueryBool("allow_over_receipt", true),
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	out := dto.ReceiveResponse{Order: toOrderResponse(order)}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, dto.OverReceiptWarning{
			RestockOrderItemID: w.ItemID,
			ProductID:          w.ProductID,
			Ordered:            w.Ordered,
			Received:           w.Received,
		})
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la orden de compra
// @Description  Solo para órdenes ya colocadas (fuera de DRAFT).
// @Tags         restock-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{id}/pdf [get]
func (h *RestockHandler) DownloadPDF(c *fiber.Ctx) error {
	storeID := GetStoreID(c)
	if storeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, filename, err := h.pdf.DownloadOrderPDF(c.Context(), storeID, c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func toItemInputs(items []dto.RestockItemRequest) []restock.ItemInput {
	if items == nil {
		return nil
	}
	out := make([]restock.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, restock.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, Cost: it.Cost})
	}
	return out
}

func toOrderResponse(o *entity.RestockOrder) dto.RestockOrderResponse {
	items := make([]dto.RestockItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.RestockItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			Cost:             it.Cost,
			QuantityReceived: it.QuantityReceived,
			Satisfied:        it.Satisfied(),
			OverReceived:     it.OverReceived(),
		})
	}
	return dto.RestockOrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		Status:       string(o.Status),
		Notes:        o.Notes,
		ShippingCost: o.ShippingCost,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
