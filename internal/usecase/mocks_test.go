package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
	"storeadmin/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	inventory  repo.InventoryRepository
	products   repo.ProductRepository
	customers  repo.CustomerRepository
	addresses  repo.AddressRepository
	auditLogs  repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Customers() repo.CustomerRepository   { return r.customers }
func (r *TxReposMock) Addresses() repo.AddressRepository    { return r.addresses }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindInStore(ctx context.Context, storeID string, orderID string) (model.Order, error) {
	args := m.Called(ctx, storeID, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) MarkPaidIfUnpaid(ctx context.Context, orderID string, c repo.PaymentConfirmation) (bool, error) {
	args := m.Called(ctx, orderID, c)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetPaymentReference(ctx context.Context, orderID string, provider model.PaymentProvider, reference string) error {
	args := m.Called(ctx, orderID, provider, reference)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByStore(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomer(ctx context.Context, storeID string, customerID string) ([]model.Order, error) {
	args := m.Called(ctx, storeID, customerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListRecent(ctx context.Context, storeID string, limit int) ([]model.Order, error) {
	args := m.Called(ctx, storeID, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) CountByProduct(ctx context.Context, productID string) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID string, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockClamped(ctx context.Context, productID string, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID string, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindInStore(ctx context.Context, storeID string, productID string) (model.Product, error) {
	args := m.Called(ctx, storeID, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, storeID string, productIDs []string) ([]model.Product, error) {
	args := m.Called(ctx, storeID, productIDs)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, storeID string, productID string) error {
	args := m.Called(ctx, storeID, productID)
	return args.Error(0)
}

func (m *ProductRepoMock) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) CountByColor(ctx context.Context, colorID string) (int64, error) {
	args := m.Called(ctx, colorID)
	return args.Get(0).(int64), args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) ListByStore(ctx context.Context, storeID string) ([]model.Category, error) {
	args := m.Called(ctx, storeID)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *CategoryRepoMock) FindInStore(ctx context.Context, storeID string, categoryID string) (model.Category, error) {
	args := m.Called(ctx, storeID, categoryID)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) Delete(ctx context.Context, storeID string, categoryID string) error {
	args := m.Called(ctx, storeID, categoryID)
	return args.Error(0)
}

type ColorRepoMock struct{ mock.Mock }

func (m *ColorRepoMock) ListByStore(ctx context.Context, storeID string) ([]model.Color, error) {
	args := m.Called(ctx, storeID)
	list, _ := args.Get(0).([]model.Color)
	return list, args.Error(1)
}

func (m *ColorRepoMock) FindInStore(ctx context.Context, storeID string, colorID string) (model.Color, error) {
	args := m.Called(ctx, storeID, colorID)
	c, _ := args.Get(0).(model.Color)
	return c, args.Error(1)
}

func (m *ColorRepoMock) Create(ctx context.Context, c model.Color) (model.Color, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Color)
	return out, args.Error(1)
}

func (m *ColorRepoMock) Update(ctx context.Context, c model.Color) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ColorRepoMock) Delete(ctx context.Context, storeID string, colorID string) error {
	args := m.Called(ctx, storeID, colorID)
	return args.Error(0)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) Create(ctx context.Context, s model.Store) (model.Store, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.Store)
	return out, args.Error(1)
}

func (m *StoreRepoMock) FindByID(ctx context.Context, storeID string) (model.Store, error) {
	args := m.Called(ctx, storeID)
	out, _ := args.Get(0).(model.Store)
	return out, args.Error(1)
}

func (m *StoreRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Store, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Store)
	return list, args.Error(1)
}

func (m *StoreRepoMock) UpdateName(ctx context.Context, storeID string, name string) error {
	args := m.Called(ctx, storeID, name)
	return args.Error(0)
}

func (m *StoreRepoMock) Delete(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByClerkID(ctx context.Context, clerkID string) (model.Customer, error) {
	args := m.Called(ctx, clerkID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) GetOrCreate(ctx context.Context, clerkID string) (model.Customer, error) {
	args := m.Called(ctx, clerkID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FillProfile(ctx context.Context, customerID string, fullName, email, mobile string) error {
	args := m.Called(ctx, customerID, fullName, email, mobile)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.CustomerAddress) (model.CustomerAddress, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.CustomerAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByCustomer(ctx context.Context, customerID string) ([]model.CustomerAddress, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.CustomerAddress)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindOwned(ctx context.Context, addressID, customerID string) (model.CustomerAddress, error) {
	args := m.Called(ctx, addressID, customerID)
	a, _ := args.Get(0).(model.CustomerAddress)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID, customerID string) error {
	args := m.Called(ctx, addressID, customerID)
	return args.Error(0)
}

func (m *AddressRepoMock) ClearDefault(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, customerID, addressID string) error {
	args := m.Called(ctx, customerID, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Payment port mocks
// =====================

type GatewayMock struct {
	mock.Mock
	provider model.PaymentProvider
}

func (m *GatewayMock) Provider() model.PaymentProvider { return m.provider }

func (m *GatewayMock) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (usecase.PaymentSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(usecase.PaymentSession)
	return s, args.Error(1)
}

type SignatureVerifierMock struct{ mock.Mock }

func (m *SignatureVerifierMock) VerifyPayment(gatewayOrderID, paymentID, signature string) error {
	args := m.Called(gatewayOrderID, paymentID, signature)
	return args.Error(0)
}

type WebhookParserMock struct{ mock.Mock }

func (m *WebhookParserMock) ParseWebhook(body []byte, signature string) (usecase.GatewayEvent, error) {
	args := m.Called(body, signature)
	ev, _ := args.Get(0).(usecase.GatewayEvent)
	return ev, args.Error(1)
}

type DeduperMock struct{ mock.Mock }

func (m *DeduperMock) Seen(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *DeduperMock) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// interfaceを満たしているか
var (
	_ repo.OrderRepository             = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository         = (*OrderItemRepoMock)(nil)
	_ repo.InventoryRepository         = (*InventoryRepoMock)(nil)
	_ repo.ProductRepository           = (*ProductRepoMock)(nil)
	_ repo.CategoryRepository          = (*CategoryRepoMock)(nil)
	_ repo.ColorRepository             = (*ColorRepoMock)(nil)
	_ repo.StoreRepository             = (*StoreRepoMock)(nil)
	_ repo.CustomerRepository          = (*CustomerRepoMock)(nil)
	_ repo.AddressRepository           = (*AddressRepoMock)(nil)
	_ repo.AuditLogRepository          = (*AuditRepoMock)(nil)
	_ usecase.PaymentGateway           = (*GatewayMock)(nil)
	_ usecase.WebhookParser            = (*WebhookParserMock)(nil)
	_ usecase.EventDeduper             = (*DeduperMock)(nil)
	_ usecase.PaymentSignatureVerifier = (*SignatureVerifierMock)(nil)
)

// =====================
// Helper
// =====================

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// HTTPErrorのステータスとメッセージ
func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	if !assert.Error(t, err) {
		return
	}
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "not HTTPError: %v", err) {
		return
	}
	assert.Equal(t, status, he.Status)
	assert.True(t, strings.Contains(he.Message, wantSubstr), "msg=%q want contains %q", he.Message, wantSubstr)
}
