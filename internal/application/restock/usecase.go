package restock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// RestockOrderUseCase ciclo de vida de órdenes de compra: crear, editar,
// colocar, cancelar y borrar. Las líneas solo se editan en DRAFT; colocar la
// orden es una puerta de un solo sentido que las vuelve inmutables.
type RestockOrderUseCase struct {
	orderRepo    repository.RestockOrderRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	txRunner     TxRunner
}

// NewRestockOrderUseCase construye el caso de uso.
func NewRestockOrderUseCase(
	orderRepo repository.RestockOrderRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	txRunner TxRunner,
) *RestockOrderUseCase {
	return &RestockOrderUseCase{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		txRunner:     txRunner,
	}
}

// ItemInput línea en creación/edición de orden.
type ItemInput struct {
	ProductID string
	Quantity  int
	Cost      decimal.Decimal
}

// CreateInput entrada para crear una orden en DRAFT.
type CreateInput struct {
	StoreID      string
	SupplierID   string
	Notes        string
	ShippingCost decimal.Decimal
	Items        []ItemInput
}

// validateItems valida cantidades, costos, existencia de productos y que no se
// repita producto dentro de la orden (unicidad por (orden, producto)).
func (uc *RestockOrderUseCase) validateItems(ctx context.Context, storeID string, items []ItemInput) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || it.Cost.IsNegative() {
			return domain.ErrInvalidInput
		}
		if seen[it.ProductID] {
			return domain.ErrDuplicateProduct
		}
		seen[it.ProductID] = true
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.StoreID != storeID {
			return domain.ErrNotFound
		}
	}
	return nil
}

// Create crea una orden en DRAFT con sus líneas.
func (uc *RestockOrderUseCase) Create(ctx context.Context, in CreateInput) (*entity.RestockOrder, error) {
	if in.StoreID == "" || in.ShippingCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil || supplier.StoreID != in.StoreID {
			return nil, domain.ErrNotFound
		}
	}
	if err := uc.validateItems(ctx, in.StoreID, in.Items); err != nil {
		return nil, err
	}

	// Consecutivo, cabecera y líneas en una sola transacción: si una línea
	// falla no queda cabecera huérfana ni se consume el número de orden.
	var order *entity.RestockOrder
	err := uc.txRunner.RunRestock(ctx, func(
		_ repository.MovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error {
		number, err := orderRepo.NextOrderNumber(ctx, in.StoreID)
		if err != nil {
			return err
		}

		now := time.Now()
		order = &entity.RestockOrder{
			ID:           uuid.New().String(),
			StoreID:      in.StoreID,
			OrderNumber:  number,
			SupplierID:   in.SupplierID,
			Status:       entity.RestockDraft,
			Notes:        in.Notes,
			ShippingCost: in.ShippingCost,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, it := range in.Items {
			order.Items = append(order.Items, &entity.RestockOrderItem{
				ID:             uuid.New().String(),
				RestockOrderID: order.ID,
				ProductID:      it.ProductID,
				Quantity:       it.Quantity,
				Cost:           it.Cost,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateInput edición de cabecera/líneas (solo DRAFT). Campos nil no cambian;
// Items nil conserva las líneas actuales, no-nil las reemplaza.
type UpdateInput struct {
	OrderID      string
	StoreID      string
	SupplierID   *string
	Notes        *string
	ShippingCost *decimal.Decimal
	Items        []ItemInput
	ReplaceItems bool
}

// Update edita una orden en DRAFT.
func (uc *RestockOrderUseCase) Update(ctx context.Context, in UpdateInput) (*entity.RestockOrder, error) {
	if in.OrderID == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	// Todo se valida antes de escribir: una edición rechazada no deja ningún
	// cambio parcial, ni siquiera en la cabecera.
	if in.SupplierID != nil && *in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil || supplier.StoreID != in.StoreID {
			return nil, domain.ErrNotFound
		}
	}
	if in.ShippingCost != nil && in.ShippingCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.ReplaceItems {
		if err := uc.validateItems(ctx, in.StoreID, in.Items); err != nil {
			return nil, err
		}
	}

	var result *entity.RestockOrder
	err := uc.txRunner.RunRestock(ctx, func(
		_ repository.MovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil || order.StoreID != in.StoreID {
			return domain.ErrNotFound
		}
		if !order.Editable() {
			return domain.ErrInvalidOrderState
		}

		if in.SupplierID != nil {
			order.SupplierID = *in.SupplierID
		}
		if in.Notes != nil {
			order.Notes = *in.Notes
		}
		if in.ShippingCost != nil {
			order.ShippingCost = *in.ShippingCost
		}
		order.UpdatedAt = time.Now()
		if err := orderRepo.UpdateHeader(ctx, order); err != nil {
			return err
		}

		if in.ReplaceItems {
			now := time.Now()
			items := make([]*entity.RestockOrderItem, 0, len(in.Items))
			for _, it := range in.Items {
				items = append(items, &entity.RestockOrderItem{
					ID:             uuid.New().String(),
					RestockOrderID: order.ID,
					ProductID:      it.ProductID,
					Quantity:       it.Quantity,
					Cost:           it.Cost,
					CreatedAt:      now,
					UpdatedAt:      now,
				})
			}
			if err := orderRepo.ReplaceItems(ctx, order.ID, items); err != nil {
				return err
			}
			order.Items = items
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaceOrder avanza DRAFT -> ORDERED. Requiere proveedor y al menos una línea.
// A partir de aquí las líneas son inmutables; solo quantityReceived cambia, y
// exclusivamente vía ReceivingProcessor.
func (uc *RestockOrderUseCase) PlaceOrder(ctx context.Context, orderID, storeID string) (*entity.RestockOrder, error) {
	return uc.transition(ctx, orderID, storeID, entity.RestockOrdered, func(order *entity.RestockOrder) error {
		if order.SupplierID == "" || len(order.Items) == 0 {
			return domain.ErrInvalidInput
		}
		return nil
	})
}

// Cancel cancela la orden. Legal desde DRAFT, ORDERED y PARTIALLY_RECEIVED.
// No revierte movimientos ya registrados: solo detiene recepciones futuras.
func (uc *RestockOrderUseCase) Cancel(ctx context.Context, orderID, storeID string) (*entity.RestockOrder, error) {
	return uc.transition(ctx, orderID, storeID, entity.RestockCancelled, nil)
}

// transition aplica una transición explícita bajo bloqueo de la cabecera,
// serializada contra recepciones concurrentes sobre la misma orden.
func (uc *RestockOrderUseCase) transition(
	ctx context.Context,
	orderID, storeID string,
	target entity.RestockOrderStatus,
	guard func(*entity.RestockOrder) error,
) (*entity.RestockOrder, error) {
	if orderID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.RestockOrder
	err := uc.txRunner.RunRestock(ctx, func(
		_ repository.MovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.StoreID != storeID {
			return domain.ErrNotFound
		}
		if !order.Status.CanTransitionTo(target) {
			return domain.ErrIllegalTransition
		}
		if guard != nil {
			if err := guard(order); err != nil {
				return err
			}
		}
		if err := orderRepo.UpdateStatus(ctx, order.ID, target); err != nil {
			return err
		}
		order.Status = target
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete borra físicamente una orden, solo mientras sigue en DRAFT.
func (uc *RestockOrderUseCase) Delete(ctx context.Context, orderID, storeID string) error {
	if orderID == "" || storeID == "" {
		return domain.ErrInvalidInput
	}
	// Líneas y cabecera se borran en la misma transacción, bajo bloqueo de
	// la cabecera para no cruzarse con un PlaceOrder concurrente.
	return uc.txRunner.RunRestock(ctx, func(
		_ repository.MovementRepository,
		_ repository.ProductRepository,
		orderRepo repository.RestockOrderRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil || order.StoreID != storeID {
			return domain.ErrNotFound
		}
		if order.Status != entity.RestockDraft {
			return domain.ErrInvalidOrderState
		}
		return orderRepo.Delete(ctx, order.ID)
	})
}

// Get devuelve la orden con el estado re-derivado de sus líneas cuando está
// activa: el estado leído nunca depende solo de la columna persistida.
func (uc *RestockOrderUseCase) Get(ctx context.Context, orderID, storeID string) (*entity.RestockOrder, error) {
	order, err := uc.getOwned(ctx, orderID, storeID)
	if err != nil {
		return nil, err
	}
	refreshStatus(order)
	return order, nil
}

// List lista las órdenes de la tienda, opcionalmente filtradas por estado.
func (uc *RestockOrderUseCase) List(ctx context.Context, storeID string, status string, limit, offset int) ([]*entity.RestockOrder, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	var st entity.RestockOrderStatus
	if status != "" {
		st = entity.RestockOrderStatus(status)
		if !st.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}
	orders, err := uc.orderRepo.ListByStore(ctx, storeID, st, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		refreshStatus(o)
	}
	return orders, nil
}

// refreshStatus re-deriva el estado de una orden activa desde sus líneas.
// DRAFT y CANCELLED no se derivan de líneas.
func refreshStatus(order *entity.RestockOrder) {
	if order.Status == entity.RestockDraft || order.Status == entity.RestockCancelled {
		return
	}
	order.Status = entity.DeriveStatus(order.Items)
}

func (uc *RestockOrderUseCase) getOwned(ctx context.Context, orderID, storeID string) (*entity.RestockOrder, error) {
	if orderID == "" || storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
