package restock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// PDFUseCase genera el documento de orden de compra para enviar al proveedor.
// Solo se genera para órdenes ya colocadas (fuera de DRAFT): un borrador no es
// un documento comercial.
type PDFUseCase struct {
	orderRepo    repository.RestockOrderRepository
	storeRepo    repository.StoreRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	generator    OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	orderRepo repository.RestockOrderRepository,
	storeRepo repository.StoreRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	generator OrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orderRepo:    orderRepo,
		storeRepo:    storeRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		generator:    generator,
	}
}

// DownloadOrderPDF carga orden, tienda, proveedor y productos, y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrNotFound          si la orden no existe o no es de la tienda.
//   - domain.ErrInvalidOrderState si la orden sigue en DRAFT.
func (uc *PDFUseCase) DownloadOrderPDF(ctx context.Context, storeID, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if order == nil || order.StoreID != storeID {
		return nil, "", domain.ErrNotFound
	}
	if order.Editable() {
		return nil, "", domain.ErrInvalidOrderState
	}

	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, "", domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}

	lines := make([]OrderPDFLine, 0, len(order.Items))
	for _, it := range order.Items {
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto: %w", err)
		}
		sku, name := it.ProductID, it.ProductID
		if product != nil {
			sku, name = product.SKU, product.Name
		}
		subtotal := it.Cost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		lines = append(lines, OrderPDFLine{
			SKU:         sku,
			ProductName: name,
			Quantity:    it.Quantity,
			Cost:        "$" + it.Cost.StringFixed(2),
			Subtotal:    "$" + subtotal.StringFixed(2),
		})
	}

	pdfBytes, err = uc.generator.GenerateOrderPDF(ctx, order, store, supplier, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	filename = fmt.Sprintf("orden-compra-%s.pdf", order.OrderNumber)
	return pdfBytes, filename, nil
}
