package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type CheckoutUsecase struct {
	tx              repo.TransactionManager
	products        repo.ProductRepository
	orders          repo.OrderRepository
	gateways        map[model.PaymentProvider]PaymentGateway
	defaultProvider model.PaymentProvider
	log             *slog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	gateways []PaymentGateway,
	defaultProvider model.PaymentProvider,
	log *slog.Logger,
) *CheckoutUsecase {
	m := map[model.PaymentProvider]PaymentGateway{}
	for _, g := range gateways {
		m[g.Provider()] = g
	}
	return &CheckoutUsecase{
		tx:              tx,
		products:        products,
		orders:          orders,
		gateways:        m,
		defaultProvider: defaultProvider,
		log:             log,
	}
}

type CheckoutItemInput struct {
	ProductID string
	Quantity  int64
}

type CheckoutInput struct {
	Items []CheckoutItemInput
	//古いクライアント用。1個ずつ
	ProductIDs []string
	Address    *AddressInput
	AddressID  string
	Provider   string
}

type CheckoutOutput struct {
	OrderID         string                `json:"orderId"`
	Provider        model.PaymentProvider `json:"provider"`
	URL             string                `json:"url,omitempty"`
	RazorpayOrderID string                `json:"razorpayOrderId,omitempty"`
	Amount          int64                 `json:"amount"`
	Currency        string                `json:"currency"`
	KeyID           string                `json:"keyId,omitempty"`
}

type cartLine struct {
	productID string
	qty       int64
}

// itemsとproductIdsをまとめる（同じ商品は数量を足す、順番は最初に出た順）
func mergeCartLines(in CheckoutInput) ([]cartLine, error) {
	idx := map[string]int{}
	lines := []cartLine{}

	add := func(id string, qty int64) {
		if i, ok := idx[id]; ok {
			lines[i].qty += qty
			return
		}
		idx[id] = len(lines)
		lines = append(lines, cartLine{productID: id, qty: qty})
	}

	for _, it := range in.Items {
		id := strings.TrimSpace(it.ProductID)
		if id == "" {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if it.Quantity < 1 {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		add(id, it.Quantity)
	}
	for _, id := range in.ProductIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		add(id, 1)
	}

	if len(lines) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "Product IDs are required")
	}
	return lines, nil
}

func (u *CheckoutUsecase) gatewayFor(provider string) (PaymentGateway, error) {
	p := model.PaymentProvider(strings.ToLower(strings.TrimSpace(provider)))
	if p == "" {
		p = u.defaultProvider
	}
	g, ok := u.gateways[p]
	if !ok {
		return nil, NewHTTPError(http.StatusBadRequest, "unsupported payment provider")
	}
	return g, nil
}

// 注文（未払い）を作り、ゲートウェイの注文/セッションを返す。
// 在庫はここでは減らさない（支払い確定時に減らす）
func (u *CheckoutUsecase) Checkout(ctx context.Context, storeID string, clerkID string, in CheckoutInput) (CheckoutOutput, error) {
	lines, err := mergeCartLines(in)
	if err != nil {
		return CheckoutOutput{}, err
	}

	addressID := strings.TrimSpace(in.AddressID)
	if in.Address == nil && addressID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "Address is required")
	}
	//住所は顧客に紐づくので認証が要る
	if clerkID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Address != nil && addressID == "" {
		if err := in.Address.validate(); err != nil {
			return CheckoutOutput{}, err
		}
	}

	gateway, err := u.gatewayFor(in.Provider)
	if err != nil {
		return CheckoutOutput{}, err
	}

	//商品の存在と在庫チェック
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.productID)
	}
	products, err := u.products.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return CheckoutOutput{}, dbError(err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(lines))
	payItems := make([]PaymentLineItem, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		p, ok := byID[l.productID]
		if !ok || p.IsArchived {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if p.Stock < l.qty {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "out of stock: "+p.Name)
		}

		//スナップショット
		items = append(items, model.OrderItem{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			Quantity:            l.qty,
		})
		payItems = append(payItems, PaymentLineItem{Name: p.Name, UnitPrice: p.Price, Quantity: l.qty})

		total = total.Add(p.Price.Mul(decimal.NewFromInt(l.qty)))
	}

	//住所・注文・明細はトランザクション
	var orderID string
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		customer, err := r.Customers().GetOrCreate(ctx, clerkID)
		if err != nil {
			return dbError(err)
		}

		order := model.Order{
			StoreID:    storeID,
			CustomerID: &customer.ID,
			IsPaid:     false,
			Status:     model.OrderStatusPending,
			TotalPrice: total,
		}

		if addressID != "" {
			//保存済み住所は自分のものだけ
			addr, err := r.Addresses().FindOwned(ctx, addressID, customer.ID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "Address not found")
			}
			if err != nil {
				return dbError(err)
			}
			order.CustomerAddressID = &addr.ID
			copyAddress(&order, addr, customer.Email)
		} else {
			if in.Address.IsDefault {
				if err := r.Addresses().ClearDefault(ctx, customer.ID); err != nil {
					return dbError(err)
				}
			}
			addr, err := r.Addresses().Create(ctx, in.Address.toModel(customer.ID, in.Address.IsDefault))
			if err != nil {
				return dbError(err)
			}
			order.CustomerAddressID = &addr.ID
			copyAddress(&order, addr, strings.TrimSpace(in.Address.Email))
		}

		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return dbError(err)
		}
		if err := r.OrderItems().CreateBulk(ctx, id, items); err != nil {
			return dbError(err)
		}
		orderID = id
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	session, err := gateway.CreatePayment(ctx, PaymentRequest{
		OrderID: orderID,
		StoreID: storeID,
		Items:   payItems,
		Total:   total,
	})
	if err != nil {
		u.log.Error("payment gateway error",
			slog.String("provider", string(gateway.Provider())),
			slog.String("order_id", orderID),
			slog.Any("err", err),
		)
		if uerr := u.orders.UpdateStatus(ctx, orderID, model.OrderStatusFailed); uerr != nil {
			u.log.Error("mark order failed", slog.String("order_id", orderID), slog.Any("err", uerr))
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	if err := u.orders.SetPaymentReference(ctx, orderID, session.Provider, session.Reference); err != nil {
		return CheckoutOutput{}, dbError(err)
	}

	out := CheckoutOutput{
		OrderID:  orderID,
		Provider: session.Provider,
		URL:      session.URL,
		Amount:   session.Amount,
		Currency: session.Currency,
		KeyID:    session.KeyID,
	}
	if session.Provider == model.PaymentProviderRazorpay {
		out.RazorpayOrderID = session.Reference
	}
	return out, nil
}

// 注文に配送先のコピーを持たせる
func copyAddress(o *model.Order, a model.CustomerAddress, email string) {
	o.FullName = a.FullName
	o.Email = email
	o.Mobile = a.Mobile
	o.HouseFlat = a.HouseFlat
	o.Locality = a.Locality
	o.AreaStreet = a.AreaStreet
	o.Landmark = a.Landmark
	o.City = a.City
}
