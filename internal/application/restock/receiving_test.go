package restock_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tiendafacil/tienda-api/internal/application/inventory"
	"github.com/tiendafacil/tienda-api/internal/application/restock"
	"github.com/tiendafacil/tienda-api/internal/domain"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
	"github.com/tiendafacil/tienda-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// El TxRunner toma un lock global (equivalente grueso del SELECT FOR UPDATE) y
// ante error restaura el snapshot previo (equivalente del ROLLBACK).
// ──────────────────────────────────────────────────────────────────────────────

const (
	testStoreID    = "store-1"
	testSupplierID = "supplier-1"
)

type memState struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	orders    map[string]*entity.RestockOrder
	movements []*entity.Movement
	orderSeq  int

	// failOrderInsert fuerza el fallo del INSERT de la orden para probar
	// que la transacción revierte lo ya escrito.
	failOrderInsert error
}

func newMemState() *memState {
	return &memState{
		products: map[string]*entity.Product{
			"prod-1": {ID: "prod-1", StoreID: testStoreID, SKU: "SKU-001", Name: "Café 500g", Stock: 0},
			"prod-2": {ID: "prod-2", StoreID: testStoreID, SKU: "SKU-002", Name: "Panela", Stock: 3},
		},
		suppliers: map[string]*entity.Supplier{
			testSupplierID: {ID: testSupplierID, StoreID: testStoreID, Name: "Distribuidora Norte"},
		},
		orders: map[string]*entity.RestockOrder{},
	}
}

func cloneOrder(o *entity.RestockOrder) *entity.RestockOrder {
	cp := *o
	cp.Items = make([]*entity.RestockOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		ci := *it
		cp.Items = append(cp.Items, &ci)
	}
	return &cp
}

func (s *memState) clone() *memState {
	c := &memState{
		products:  make(map[string]*entity.Product, len(s.products)),
		suppliers: s.suppliers,
		orders:    make(map[string]*entity.RestockOrder, len(s.orders)),
		orderSeq:  s.orderSeq,
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, o := range s.orders {
		c.orders[id] = cloneOrder(o)
	}
	c.movements = append(c.movements, s.movements...)
	return c
}

func (s *memState) restore(from *memState) {
	s.products = from.products
	s.orders = from.orders
	s.movements = from.movements
	s.orderSeq = from.orderSeq
}

type memProductRepo struct{ state *memState }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.state.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.state.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) GetByStoreAndSKU(_ context.Context, storeID, sku string) (*entity.Product, error) {
	for _, p := range r.state.products {
		if p.StoreID == storeID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) UpdateStock(_ context.Context, productID string, stock int) error {
	p, ok := r.state.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	return nil
}

func (r *memProductRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	var all []*entity.Product
	for _, p := range r.state.products {
		if p.StoreID == storeID {
			cp := *p
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

type memSupplierRepo struct{ state *memState }

func (r *memSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.state.suppliers[s.ID] = s
	return nil
}

func (r *memSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.state.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSupplierRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Supplier, error) {
	var all []*entity.Supplier
	for _, s := range r.state.suppliers {
		if s.StoreID == storeID {
			cp := *s
			all = append(all, &cp)
		}
	}
	return all, nil
}

type memMovementRepo struct{ state *memState }

func (r *memMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	cp := *m
	r.state.movements = append(r.state.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, storeID, productID string, _ *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(r.state.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.state.movements[i]
		if m.StoreID == storeID && m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByStore(_ context.Context, storeID string, _ *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(r.state.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.state.movements[i].StoreID == storeID {
			cp := *r.state.movements[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMovementRepo) LastByProduct(ctx context.Context, storeID, productID string) (*entity.Movement, error) {
	movs, _ := r.ListByProduct(ctx, storeID, productID, nil, 1)
	if len(movs) == 0 {
		return nil, nil
	}
	return movs[0], nil
}

func (r *memMovementRepo) SumByProduct(_ context.Context, storeID, productID string) (int, error) {
	total := 0
	for _, m := range r.state.movements {
		if m.StoreID == storeID && m.ProductID == productID {
			total += m.Quantity
		}
	}
	return total, nil
}

type memOrderRepo struct{ state *memState }

func (r *memOrderRepo) Create(_ context.Context, order *entity.RestockOrder) error {
	if r.state.failOrderInsert != nil {
		return r.state.failOrderInsert
	}
	seen := map[string]bool{}
	for _, it := range order.Items {
		if seen[it.ProductID] {
			return domain.ErrDuplicateProduct
		}
		seen[it.ProductID] = true
	}
	r.state.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.RestockOrder, error) {
	o, ok := r.state.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.RestockOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) ListByStore(_ context.Context, storeID string, status entity.RestockOrderStatus, limit, offset int) ([]*entity.RestockOrder, error) {
	var all []*entity.RestockOrder
	for _, o := range r.state.orders {
		if o.StoreID != storeID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		all = append(all, cloneOrder(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrderNumber < all[j].OrderNumber })
	return all, nil
}

func (r *memOrderRepo) UpdateHeader(_ context.Context, order *entity.RestockOrder) error {
	o, ok := r.state.orders[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.SupplierID = order.SupplierID
	o.Notes = order.Notes
	o.ShippingCost = order.ShippingCost
	return nil
}

func (r *memOrderRepo) ReplaceItems(_ context.Context, orderID string, items []*entity.RestockOrderItem) error {
	o, ok := r.state.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Items = nil
	for _, it := range items {
		ci := *it
		o.Items = append(o.Items, &ci)
	}
	return nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, orderID string, status entity.RestockOrderStatus) error {
	o, ok := r.state.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *memOrderRepo) UpdateItemReceived(_ context.Context, itemID string, quantityReceived int) error {
	for _, o := range r.state.orders {
		for _, it := range o.Items {
			if it.ID == itemID {
				it.QuantityReceived = quantityReceived
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.state.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.state.orders, id)
	return nil
}

func (r *memOrderRepo) NextOrderNumber(_ context.Context, _ string) (string, error) {
	r.state.orderSeq++
	return fmt.Sprintf("OC-%06d", r.state.orderSeq), nil
}

type fakeTxRunner struct{ state *memState }

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	backup := r.state.clone()
	err := fn(&memMovementRepo{state: r.state}, &memProductRepo{state: r.state})
	if err != nil {
		r.state.restore(backup)
	}
	return err
}

func (r *fakeTxRunner) RunRestock(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository, repository.RestockOrderRepository) error) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	backup := r.state.clone()
	err := fn(&memMovementRepo{state: r.state}, &memProductRepo{state: r.state}, &memOrderRepo{state: r.state})
	if err != nil {
		r.state.restore(backup)
	}
	return err
}

type fixture struct {
	state     *memState
	uc        *restock.RestockOrderUseCase
	receiving *restock.ReceivingProcessor
}

func newFixture() *fixture {
	state := newMemState()
	runner := &fakeTxRunner{state: state}
	ledger := inventory.NewStockLedger(runner, &memMovementRepo{state: state})
	return &fixture{
		state:     state,
		uc:        restock.NewRestockOrderUseCase(&memOrderRepo{state: state}, &memProductRepo{state: state}, &memSupplierRepo{state: state}, runner),
		receiving: restock.NewReceivingProcessor(runner, ledger),
	}
}

// placedOrder crea una orden con las cantidades dadas para prod-1 (y prod-2 si
// hay segunda cantidad) y la coloca en ORDERED.
func (f *fixture) placedOrder(t *testing.T, quantities ...int) *entity.RestockOrder {
	t.Helper()
	products := []string{"prod-1", "prod-2"}
	items := make([]restock.ItemInput, 0, len(quantities))
	for i, q := range quantities {
		items = append(items, restock.ItemInput{
			ProductID: products[i],
			Quantity:  q,
			Cost:      decimal.NewFromInt(1500),
		})
	}
	order, err := f.uc.Create(context.Background(), restock.CreateInput{
		StoreID:    testStoreID,
		SupplierID: testSupplierID,
		Items:      items,
	})
	require.NoError(t, err)
	order, err = f.uc.PlaceOrder(context.Background(), order.ID, testStoreID)
	require.NoError(t, err)
	return order
}

func receiveItems(order *entity.RestockOrder, quantities ...int) restock.ReceiveInput {
	items := make([]restock.ReceiveItem, 0, len(quantities))
	for i, q := range quantities {
		items = append(items, restock.ReceiveItem{ItemID: order.Items[i].ID, Quantity: q})
	}
	return restock.ReceiveInput{
		OrderID:          order.ID,
		StoreID:          testStoreID,
		Items:            items,
		Actor:            entity.UserActor("user-1"),
		AllowOverReceipt: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

// Pedidas 20, llegan 8 y luego 12: ORDERED -> PARTIALLY_RECEIVED -> COMPLETED,
// con el stock y el libro acumulando cada despacho.
func TestReceive_DosDespachos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := f.placedOrder(t, 20)

	order, warnings, err := f.receiving.Receive(ctx, receiveItems(order, 8))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, entity.RestockPartiallyReceived, order.Status)
	assert.Equal(t, 8, order.Items[0].QuantityReceived)
	assert.Equal(t, 8, f.state.products["prod-1"].Stock)

	order, warnings, err = f.receiving.Receive(ctx, receiveItems(order, 12))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, entity.RestockCompleted, order.Status)
	assert.Equal(t, 20, order.Items[0].QuantityReceived, "cada despacho suma, nunca reemplaza")
	assert.Equal(t, 20, f.state.products["prod-1"].Stock)

	require.Len(t, f.state.movements, 2)
	for _, m := range f.state.movements {
		assert.Equal(t, entity.MovementRestockReceived, m.Type)
		assert.Equal(t, order.ID, m.ReferenceID, "el movimiento referencia la orden")
		assert.Equal(t, order.OrderNumber, m.Reason)
		require.NotNil(t, m.Cost, "la recepción registra el costo de la línea")
	}
}

// Las líneas con cantidad cero se filtran sin error.
func TestReceive_CerosSeFiltran(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10, 5)

	order, _, err := f.receiving.Receive(context.Background(), receiveItems(order, 4, 0))
	require.NoError(t, err)
	assert.Equal(t, 4, order.Items[0].QuantityReceived)
	assert.Equal(t, 0, order.Items[1].QuantityReceived)
	assert.Len(t, f.state.movements, 1, "la línea en cero no genera movimiento")
}

func TestReceive_TodoEnCero(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10, 5)

	_, _, err := f.receiving.Receive(context.Background(), receiveItems(order, 0, 0))
	assert.ErrorIs(t, err, domain.ErrNoQuantities)
	assert.Empty(t, f.state.movements)
}

func TestReceive_CantidadNegativa(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10)

	_, _, err := f.receiving.Receive(context.Background(), receiveItems(order, -2))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Recibir contra un borrador o una orden cancelada no genera ni un movimiento.
func TestReceive_EstadoNoRecibible(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft, err := f.uc.Create(ctx, restock.CreateInput{
		StoreID:    testStoreID,
		SupplierID: testSupplierID,
		Items:      []restock.ItemInput{{ProductID: "prod-1", Quantity: 10, Cost: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
	_, _, err = f.receiving.Receive(ctx, receiveItems(draft, 5))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderState)

	placed := f.placedOrder(t, 10)
	_, err = f.uc.Cancel(ctx, placed.ID, testStoreID)
	require.NoError(t, err)
	_, _, err = f.receiving.Receive(ctx, receiveItems(placed, 5))
	assert.ErrorIs(t, err, domain.ErrInvalidOrderState)

	assert.Empty(t, f.state.movements, "ningún movimiento quedó registrado")
	assert.Equal(t, 0, f.state.products["prod-1"].Stock)
}

// La sobre-recepción se acepta, completa la línea y se reporta como warning.
func TestReceive_SobreRecepcionConWarning(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10)

	order, warnings, err := f.receiving.Receive(context.Background(), receiveItems(order, 13))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 10, warnings[0].Ordered)
	assert.Equal(t, 13, warnings[0].Received)
	assert.Equal(t, entity.RestockCompleted, order.Status, "el exceso cuenta como satisfecha")
	assert.Equal(t, 13, f.state.products["prod-1"].Stock, "el stock refleja lo realmente recibido")
}

func TestReceive_SobreRecepcionRechazada(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10)

	in := receiveItems(order, 13)
	in.AllowOverReceipt = false
	_, _, err := f.receiving.Receive(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.state.movements)
}

// Si una línea del lote falla, las anteriores se revierten: todo o nada.
func TestReceive_LoteAtomico(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10, 5)

	in := receiveItems(order, 4)
	in.Items = append(in.Items, restock.ReceiveItem{ItemID: "item-ajeno", Quantity: 2})
	_, _, err := f.receiving.Receive(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, f.state.movements, "la primera línea también se revierte")
	assert.Equal(t, 0, f.state.products["prod-1"].Stock)
	got, gerr := f.uc.Get(context.Background(), order.ID, testStoreID)
	require.NoError(t, gerr)
	assert.Equal(t, 0, got.Items[0].QuantityReceived)
	assert.Equal(t, entity.RestockOrdered, got.Status)
}

func TestReceive_OrdenDeOtraTienda(t *testing.T) {
	f := newFixture()
	order := f.placedOrder(t, 10)

	in := receiveItems(order, 5)
	in.StoreID = "store-ajena"
	_, _, err := f.receiving.Receive(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
