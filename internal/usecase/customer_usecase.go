package usecase

import (
	"context"
	"net/http"
	"strings"

	"storeadmin/internal/domain/model"
	repo "storeadmin/internal/repository"
)

type CustomerUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	addresses repo.AddressRepository
	orders    repo.OrderRepository
}

func NewCustomerUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	addresses repo.AddressRepository,
	orders repo.OrderRepository,
) *CustomerUsecase {
	return &CustomerUsecase{tx: tx, customers: customers, addresses: addresses, orders: orders}
}

// 新しい住所の入力（checkoutと共通）
type AddressInput struct {
	FullName   string
	Email      string
	Mobile     string
	HouseFlat  string
	Locality   string
	AreaStreet string
	Landmark   string
	City       string
	IsDefault  bool
}

func (in AddressInput) validate() error {
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Mobile) == "" ||
		strings.TrimSpace(in.HouseFlat) == "" ||
		strings.TrimSpace(in.AreaStreet) == "" ||
		strings.TrimSpace(in.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid address")
	}
	return nil
}

func (in AddressInput) toModel(customerID string, isDefault bool) model.CustomerAddress {
	var landmark *string
	if lm := strings.TrimSpace(in.Landmark); lm != "" {
		landmark = &lm
	}
	return model.CustomerAddress{
		CustomerID: customerID,
		FullName:   strings.TrimSpace(in.FullName),
		Mobile:     strings.TrimSpace(in.Mobile),
		HouseFlat:  strings.TrimSpace(in.HouseFlat),
		Locality:   strings.TrimSpace(in.Locality),
		AreaStreet: strings.TrimSpace(in.AreaStreet),
		Landmark:   landmark,
		City:       strings.TrimSpace(in.City),
		IsDefault:  isDefault,
	}
}

// 顧客を取得（無ければ作る）。住所付き
func (u *CustomerUsecase) GetProfile(ctx context.Context, clerkID string) (model.Customer, error) {
	if clerkID == "" {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.customers.GetOrCreate(ctx, clerkID)
	if err != nil {
		return model.Customer{}, dbError(err)
	}
	list, err := u.addresses.ListByCustomer(ctx, c.ID)
	if err != nil {
		return model.Customer{}, dbError(err)
	}
	c.Addresses = list
	return c, nil
}

// 住所を追加する。最初の住所かisDefaultならその住所だけをdefaultにする
func (u *CustomerUsecase) AddAddress(ctx context.Context, clerkID string, in AddressInput) (model.CustomerAddress, error) {
	if clerkID == "" {
		return model.CustomerAddress{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.CustomerAddress{}, err
	}

	var out model.CustomerAddress
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Customers().GetOrCreate(ctx, clerkID)
		if err != nil {
			return dbError(err)
		}

		//空のプロフィール項目だけ埋める
		if err := r.Customers().FillProfile(ctx, c.ID,
			strings.TrimSpace(in.FullName),
			strings.TrimSpace(in.Email),
			strings.TrimSpace(in.Mobile),
		); err != nil {
			return dbError(err)
		}

		count, err := r.Addresses().CountByCustomer(ctx, c.ID)
		if err != nil {
			return dbError(err)
		}
		shouldBeDefault := in.IsDefault || count == 0

		if shouldBeDefault {
			if err := r.Addresses().ClearDefault(ctx, c.ID); err != nil {
				return dbError(err)
			}
		}

		a, err := r.Addresses().Create(ctx, in.toModel(c.ID, shouldBeDefault))
		if err != nil {
			return dbError(err)
		}
		out = a
		return nil
	})
	if err != nil {
		return model.CustomerAddress{}, err
	}
	return out, nil
}

func (u *CustomerUsecase) DeleteAddress(ctx context.Context, clerkID string, addressID string) error {
	c, err := u.findCustomer(ctx, clerkID)
	if err != nil {
		return err
	}

	err = u.addresses.Delete(ctx, addressID, c.ID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Address not found")
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (u *CustomerUsecase) SetDefaultAddress(ctx context.Context, clerkID string, addressID string) (model.CustomerAddress, error) {
	c, err := u.findCustomer(ctx, clerkID)
	if err != nil {
		return model.CustomerAddress{}, err
	}

	err = u.addresses.SetDefault(ctx, c.ID, addressID)
	if err == repo.ErrNotFound {
		return model.CustomerAddress{}, NewHTTPError(http.StatusNotFound, "Address not found")
	}
	if err != nil {
		return model.CustomerAddress{}, dbError(err)
	}

	a, err := u.addresses.FindOwned(ctx, addressID, c.ID)
	if err != nil {
		return model.CustomerAddress{}, dbError(err)
	}
	return a, nil
}

// このストアでの自分の注文（新しい順）
func (u *CustomerUsecase) ListOrders(ctx context.Context, storeID string, clerkID string) ([]model.Order, error) {
	if clerkID == "" {
		return []model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.customers.FindByClerkID(ctx, clerkID)
	if err == repo.ErrNotFound {
		//まだ顧客が無い＝注文も無い
		return []model.Order{}, nil
	}
	if err != nil {
		return []model.Order{}, dbError(err)
	}

	orders, err := u.orders.ListByCustomer(ctx, storeID, c.ID)
	if err != nil {
		return []model.Order{}, dbError(err)
	}
	return orders, nil
}

func (u *CustomerUsecase) findCustomer(ctx context.Context, clerkID string) (model.Customer, error) {
	if clerkID == "" {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c, err := u.customers.FindByClerkID(ctx, clerkID)
	if err == repo.ErrNotFound {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "Customer not found")
	}
	if err != nil {
		return model.Customer{}, dbError(err)
	}
	return c, nil
}
