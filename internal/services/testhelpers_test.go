package services

import (
	"context"
	"fmt"
	"time"

	"pos_backend/internal/models"
	"pos_backend/internal/repositories"
)

// In-memory repository fakes. Transaction control is exercised separately
// through sqlmock; the fakes ignore the executor they are handed.

type fakeProductRepo struct {
	products map[int64]*models.Product

	lockCalls        []int64
	updateStockCalls map[int64]int
	failUpdateStock  bool
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{
		products:         map[int64]*models.Product{},
		updateStockCalls: map[int64]int{},
	}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	product.ID = int64(len(r.products) + 1)
	product.IsActive = true
	r.products[product.ID] = product
	return product.ID, nil
}

func (r *fakeProductRepo) GetProductByID(_ repositories.SQLExecutor, id int64) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product with ID %d", repositories.ErrNotFound, id)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) GetProducts(_ repositories.SQLExecutor, _ models.ProductFilters) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, product *models.Product) error {
	existing, ok := r.products[product.ID]
	if !ok || !existing.IsActive {
		return fmt.Errorf("%w: product with ID %d", repositories.ErrNotFound, product.ID)
	}
	existing.Name = product.Name
	existing.Barcode = product.Barcode
	existing.Price = product.Price
	return nil
}

func (r *fakeProductRepo) DeactivateProduct(_ repositories.SQLExecutor, id int64) error {
	product, ok := r.products[id]
	if !ok || !product.IsActive {
		return fmt.Errorf("%w: product with ID %d", repositories.ErrNotFound, id)
	}
	product.IsActive = false
	return nil
}

func (r *fakeProductRepo) GetProductByBarcode(_ repositories.SQLExecutor, barcode string) (*models.Product, error) {
	for _, p := range r.products {
		if p.Barcode == barcode && p.IsActive {
			copied := *p
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: product with barcode '%s'", repositories.ErrNotFound, barcode)
}

func (r *fakeProductRepo) FindByBarcode(exec repositories.SQLExecutor, code string) ([]models.Product, error) {
	product, err := r.GetProductByBarcode(exec, code)
	if err != nil {
		return []models.Product{}, nil
	}
	return []models.Product{*product}, nil
}

func (r *fakeProductRepo) GetProductForUpdate(exec repositories.SQLExecutor, id int64) (*models.Product, error) {
	r.lockCalls = append(r.lockCalls, id)
	return r.GetProductByID(exec, id)
}

func (r *fakeProductRepo) UpdateStock(_ repositories.SQLExecutor, productID int64, quantityChange int) (int, error) {
	if r.failUpdateStock {
		return 0, fmt.Errorf("%w: forced failure", repositories.ErrDatabaseError)
	}
	product, ok := r.products[productID]
	if !ok {
		return 0, fmt.Errorf("%w: product with ID %d", repositories.ErrNotFound, productID)
	}
	product.StockQuantity += quantityChange
	r.updateStockCalls[productID] += quantityChange
	return product.StockQuantity, nil
}

type fakeMovementRepo struct {
	movements  []models.StockMovement
	failCreate bool
}

func (r *fakeMovementRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	if r.failCreate {
		return 0, fmt.Errorf("%w: forced failure", repositories.ErrDatabaseError)
	}
	movement.ID = int64(len(r.movements) + 1)
	r.movements = append(r.movements, *movement)
	return movement.ID, nil
}

func (r *fakeMovementRepo) GetMovements(_ repositories.SQLExecutor, _ models.StockMovementFilters) ([]models.StockMovement, int, error) {
	return r.movements, len(r.movements), nil
}

func (r *fakeMovementRepo) SumQuantityByProduct(_ repositories.SQLExecutor, productID int64) (int, error) {
	sum := 0
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.QuantityChange
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) sumFor(productID int64) int {
	sum, _ := r.SumQuantityByProduct(nil, productID)
	return sum
}

type fakeOrderRepo struct {
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem
	nextID int64

	failCreateItem    bool
	statusUpdateCalls int
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		orders: map[int64]*models.Order{},
		items:  map[int64][]models.OrderItem{},
	}
	for _, o := range orders {
		repo.orders[o.ID] = o
		if o.ID > repo.nextID {
			repo.nextID = o.ID
		}
	}
	return repo
}

func (r *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = order
	return order.ID, nil
}

func (r *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	if r.failCreateItem {
		return 0, fmt.Errorf("%w: forced failure", repositories.ErrDatabaseError)
	}
	item.ID = int64(len(r.items[item.OrderID]) + 1)
	r.items[item.OrderID] = append(r.items[item.OrderID], *item)
	return item.ID, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ repositories.SQLExecutor, id int64) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with ID %d", repositories.ErrNotFound, id)
	}
	copied := *order
	copied.OrderItems = append([]models.OrderItem{}, r.items[id]...)
	return &copied, nil
}

func (r *fakeOrderRepo) GetOrderForUpdate(exec repositories.SQLExecutor, id int64) (*models.Order, error) {
	return r.GetOrderByID(exec, id)
}

func (r *fakeOrderRepo) GetOrders(_ repositories.SQLExecutor, _ models.OrderFilters) ([]models.Order, int, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) GetOrderItemsByOrderID(_ repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	return r.items[orderID], nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, id int64, status string) error {
	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: order with ID %d", repositories.ErrNotFound, id)
	}
	order.Status = status
	r.statusUpdateCalls++
	return nil
}

type fakePaymentRepo struct {
	payments    map[int64]*models.Payment
	upsertCalls int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64]*models.Payment{}}
}

func (r *fakePaymentRepo) UpsertPayment(_ repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	r.upsertCalls++
	if existing, ok := r.payments[payment.OrderID]; ok {
		payment.ID = existing.ID
	} else {
		payment.ID = int64(len(r.payments) + 1)
	}
	stored := *payment
	r.payments[payment.OrderID] = &stored
	return payment.ID, nil
}

func (r *fakePaymentRepo) GetPaymentByOrderID(_ repositories.SQLExecutor, orderID int64) (*models.Payment, error) {
	payment, ok := r.payments[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: payment for order %d", repositories.ErrNotFound, orderID)
	}
	copied := *payment
	return &copied, nil
}

type fakeCartStore struct {
	carts       map[string]*models.Cart
	deleteCalls int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*models.Cart{}}
}

func (s *fakeCartStore) GetCart(_ context.Context, sessionID string) (*models.Cart, error) {
	cart, ok := s.carts[sessionID]
	if !ok {
		return &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}, nil
	}
	copied := *cart
	copied.Items = append([]models.CartItem{}, cart.Items...)
	return &copied, nil
}

func (s *fakeCartStore) SaveCart(_ context.Context, cart *models.Cart) error {
	stored := *cart
	stored.Items = append([]models.CartItem{}, cart.Items...)
	s.carts[cart.SessionID] = &stored
	return nil
}

func (s *fakeCartStore) DeleteCart(_ context.Context, sessionID string) error {
	s.deleteCalls++
	delete(s.carts, sessionID)
	return nil
}
