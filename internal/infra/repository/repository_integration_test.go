//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/domain/model"
	"storeadmin/internal/infra/db"
	infra "storeadmin/internal/infra/repository"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	c, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("store"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := db.Connect(config.Config{DatabaseURL: dsn, GoEnv: "test"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type seeded struct {
	store   model.Store
	product model.Product
	order   string
}

// ストア・カテゴリ・カラー・商品（在庫3）・未払い注文（2個）を作る
func seed(t *testing.T, gdb *gorm.DB) seeded {
	t.Helper()
	ctx := context.Background()

	s, err := infra.NewStoreGormRepository(gdb).Create(ctx, model.Store{Name: "Shop", UserID: "user_owner"})
	require.NoError(t, err)
	cat, err := infra.NewCategoryGormRepository(gdb).Create(ctx, model.Category{StoreID: s.ID, Name: "Tops"})
	require.NoError(t, err)
	col, err := infra.NewColorGormRepository(gdb).Create(ctx, model.Color{StoreID: s.ID, Name: "Red", Value: "#f00"})
	require.NoError(t, err)

	p, err := infra.NewProductGormRepository(gdb).Create(ctx, model.Product{
		StoreID:    s.ID,
		CategoryID: cat.ID,
		ColorID:    col.ID,
		Name:       "Shirt",
		Price:      decimal.RequireFromString("19.99"),
		Stock:      3,
	})
	require.NoError(t, err)

	orders := infra.NewOrderGormRepository(gdb)
	orderID, err := orders.Create(ctx, model.Order{
		StoreID:    s.ID,
		Status:     model.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("39.98"),
		FullName:   "Asha",
		City:       "Pune",
	})
	require.NoError(t, err)
	require.NoError(t, infra.NewOrderItemGormRepository(gdb).CreateBulk(ctx, orderID, []model.OrderItem{
		{ProductID: p.ID, ProductNameSnapshot: p.Name, UnitPriceSnapshot: p.Price, Quantity: 2},
	}))

	return seeded{store: s, product: p, order: orderID}
}

func TestOrderRepository_MarkPaidIfUnpaid_OnlyOnce(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	sd := seed(t, gdb)
	orders := infra.NewOrderGormRepository(gdb)

	c := repo.PaymentConfirmation{PaymentID: "pay_1", Email: "asha@example.com", PaidAt: time.Now()}
	flipped, err := orders.MarkPaidIfUnpaid(ctx, sd.order, c)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = orders.MarkPaidIfUnpaid(ctx, sd.order, repo.PaymentConfirmation{PaymentID: "pay_2", PaidAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, flipped)

	o, err := orders.FindInStore(ctx, sd.store.ID, sd.order)
	require.NoError(t, err)
	assert.True(t, o.IsPaid)
	assert.Equal(t, model.OrderStatusPaid, o.Status)
	assert.Equal(t, "pay_1", o.PaymentID)
	assert.Equal(t, "asha@example.com", o.Email)
	require.Len(t, o.OrderItems, 1)
}

// キャンセル済みの注文に遅れて決済が来てもCANCELEDのまま
func TestOrderRepository_MarkPaidIfUnpaid_CanceledStaysCanceled(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	sd := seed(t, gdb)
	orders := infra.NewOrderGormRepository(gdb)

	require.NoError(t, orders.UpdateStatus(ctx, sd.order, model.OrderStatusCanceled))

	flipped, err := orders.MarkPaidIfUnpaid(ctx, sd.order, repo.PaymentConfirmation{PaymentID: "pay_late", PaidAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, flipped)

	o, err := orders.FindByID(ctx, sd.order)
	require.NoError(t, err)
	assert.True(t, o.IsPaid)
	assert.Equal(t, model.OrderStatusCanceled, o.Status)
	assert.Equal(t, "pay_late", o.PaymentID)
}

// 注文に使った住所も消せる。注文側はNULLになりコピーは残る
func TestAddressRepository_DeleteReferencedByOrder(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	sd := seed(t, gdb)
	customers := infra.NewCustomerGormRepository(gdb)
	addresses := infra.NewAddressGormRepository(gdb)

	c, err := customers.GetOrCreate(ctx, "user_c")
	require.NoError(t, err)
	a, err := addresses.Create(ctx, model.CustomerAddress{CustomerID: c.ID, FullName: "Asha", Mobile: "1", HouseFlat: "1", AreaStreet: "x", City: "Pune", IsDefault: true})
	require.NoError(t, err)

	require.NoError(t, gdb.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", sd.order).
		Updates(map[string]interface{}{"customer_id": c.ID, "customer_address_id": a.ID}).Error)

	require.NoError(t, addresses.Delete(ctx, a.ID, c.ID))

	o, err := infra.NewOrderGormRepository(gdb).FindByID(ctx, sd.order)
	require.NoError(t, err)
	assert.Nil(t, o.CustomerAddressID)
	require.NotNil(t, o.CustomerID)
	assert.Equal(t, c.ID, *o.CustomerID)
	assert.Equal(t, "Pune", o.City)
}

func TestOrderRepository_FindInStore_OtherStore(t *testing.T) {
	gdb := startPostgres(t)
	sd := seed(t, gdb)

	other, err := infra.NewStoreGormRepository(gdb).Create(context.Background(), model.Store{Name: "Other", UserID: "user_x"})
	require.NoError(t, err)

	_, err = infra.NewOrderGormRepository(gdb).FindInStore(context.Background(), other.ID, sd.order)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestInventoryRepository_DecreaseStockClamped(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	sd := seed(t, gdb)
	inv := infra.NewInventoryGormRepository(gdb)
	products := infra.NewProductGormRepository(gdb)

	oversold, err := inv.DecreaseStockClamped(ctx, sd.product.ID, 2)
	require.NoError(t, err)
	assert.False(t, oversold)
	p, err := products.FindInStore(ctx, sd.store.ID, sd.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Stock)

	// 足りなければ0で止める
	oversold, err = inv.DecreaseStockClamped(ctx, sd.product.ID, 5)
	require.NoError(t, err)
	assert.True(t, oversold)
	p, err = products.FindInStore(ctx, sd.store.ID, sd.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stock)

	_, err = inv.DecreaseStockClamped(ctx, "00000000-0000-0000-0000-000000000000", 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// fnがエラーならまとめて戻る
func TestTxManager_RollbackOnError(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	sd := seed(t, gdb)
	tm := infra.NewTxManagerGorm(gdb)

	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		flipped, err := r.Orders().MarkPaidIfUnpaid(ctx, sd.order, repo.PaymentConfirmation{PaymentID: "pay_1", PaidAt: time.Now()})
		require.NoError(t, err)
		require.True(t, flipped)
		_, err = r.Inventory().DecreaseStockClamped(ctx, sd.product.ID, 2)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	o, err := infra.NewOrderGormRepository(gdb).FindByID(ctx, sd.order)
	require.NoError(t, err)
	assert.False(t, o.IsPaid)
	p, err := infra.NewProductGormRepository(gdb).FindInStore(ctx, sd.store.ID, sd.product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Stock)
}

func TestCustomerAndAddress_DefaultIsUnique(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	customers := infra.NewCustomerGormRepository(gdb)
	addresses := infra.NewAddressGormRepository(gdb)

	c1, err := customers.GetOrCreate(ctx, "user_c")
	require.NoError(t, err)
	c2, err := customers.GetOrCreate(ctx, "user_c")
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	a1, err := addresses.Create(ctx, model.CustomerAddress{CustomerID: c1.ID, FullName: "A", Mobile: "1", HouseFlat: "1", AreaStreet: "x", City: "Pune", IsDefault: true})
	require.NoError(t, err)
	a2, err := addresses.Create(ctx, model.CustomerAddress{CustomerID: c1.ID, FullName: "A", Mobile: "1", HouseFlat: "2", AreaStreet: "y", City: "Pune"})
	require.NoError(t, err)

	require.NoError(t, addresses.SetDefault(ctx, c1.ID, a2.ID))

	list, err := addresses.ListByCustomer(ctx, c1.ID)
	require.NoError(t, err)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, a2.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.NotEqual(t, a1.ID, a2.ID)

	// 他人の住所は触れない
	other, err := customers.GetOrCreate(ctx, "user_other")
	require.NoError(t, err)
	assert.ErrorIs(t, addresses.SetDefault(ctx, other.ID, a1.ID), repo.ErrNotFound)
	assert.ErrorIs(t, addresses.Delete(ctx, a1.ID, other.ID), repo.ErrNotFound)
}

func TestAuditLogRepository_ListFilters(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()
	audit := infra.NewAuditLogGormRepository(gdb)
	storeID := "11111111-1111-1111-1111-111111111111"

	for _, a := range []model.AuditAction{model.AuditActionUpdateStock, model.AuditActionUpdateOrderStatus, model.AuditActionUpdateStock} {
		require.NoError(t, audit.Create(ctx, model.AuditLog{
			StoreID:      storeID,
			Actor:        "user_1",
			Action:       a,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   "p1",
			BeforeJSON:   `{}`,
			AfterJSON:    `{}`,
			CreatedAt:    time.Now(),
		}))
	}

	action := model.AuditActionUpdateStock
	logs, err := audit.List(ctx, repo.AuditLogFilter{StoreID: storeID, Action: &action})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = audit.List(ctx, repo.AuditLogFilter{StoreID: storeID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
