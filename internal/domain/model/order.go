package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
	//決済ゲートウェイの注文作成に失敗した
	OrderStatusFailed   OrderStatus = "FAILED"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type PaymentProvider string

const (
	PaymentProviderStripe   PaymentProvider = "stripe"
	PaymentProviderRazorpay PaymentProvider = "razorpay"
)

type Order struct {
	ID                string  `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID           string  `gorm:"type:uuid;not null;index" json:"storeId"`
	CustomerID        *string `gorm:"type:uuid;index" json:"customerId"`
	CustomerAddressID *string `gorm:"type:uuid;index" json:"customerAddressId"`

	//支払い検証が通ったときだけtrue
	IsPaid     bool            `gorm:"not null;default:false;index" json:"isPaid"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`

	PaymentProvider PaymentProvider `gorm:"type:varchar(20)" json:"paymentProvider"`
	//stripeのsession id / razorpayのorder id
	PaymentReference string `gorm:"type:varchar(255);index" json:"paymentReference"`
	//razorpayのpayment id / stripeのpayment intent id
	PaymentID string     `gorm:"type:varchar(255)" json:"paymentId"`
	PaidAt    *time.Time `json:"paidAt"`

	//住所のコピー（後方互換のため残す）
	FullName   string  `gorm:"type:varchar(255);not null;default:''" json:"fullName"`
	Email      string  `gorm:"type:varchar(255);not null;default:''" json:"email"`
	Mobile     string  `gorm:"type:varchar(30);not null;default:''" json:"mobile"`
	HouseFlat  string  `gorm:"type:varchar(255);not null;default:''" json:"houseFlat"`
	Locality   string  `gorm:"type:varchar(255);not null;default:''" json:"locality"`
	AreaStreet string  `gorm:"type:varchar(255);not null;default:''" json:"areaStreet"`
	Landmark   *string `gorm:"type:varchar(255)" json:"landmark"`
	City       string  `gorm:"type:varchar(255);not null;default:''" json:"city"`

	OrderItems      []OrderItem      `gorm:"foreignKey:OrderID" json:"orderItems,omitempty"`
	//住所や顧客が消えても注文は残す（住所はコピー済み）
	Customer        *Customer        `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	CustomerAddress *CustomerAddress `gorm:"foreignKey:CustomerAddressID;constraint:OnDelete:SET NULL" json:"customerAddress,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// 配送先（注文のコピーが空なら紐づく住所で補う）
type ShippingAddress struct {
	FullName   string
	Mobile     string
	HouseFlat  string
	Locality   string
	AreaStreet string
	Landmark   string
	City       string
}

func (o Order) ResolvedShipping() ShippingAddress {
	a := o.CustomerAddress
	if a == nil {
		a = &CustomerAddress{}
	}
	return ShippingAddress{
		FullName:   firstNonEmpty(o.FullName, a.FullName),
		Mobile:     firstNonEmpty(o.Mobile, a.Mobile),
		HouseFlat:  firstNonEmpty(o.HouseFlat, a.HouseFlat),
		Locality:   firstNonEmpty(o.Locality, a.Locality),
		AreaStreet: firstNonEmpty(o.AreaStreet, a.AreaStreet),
		Landmark:   firstNonEmpty(deref(o.Landmark), deref(a.Landmark)),
		City:       firstNonEmpty(o.City, a.City),
	}
}

// 空の項目を飛ばして ", " で連結
func (s ShippingAddress) Line() string {
	parts := []string{}
	for _, p := range []string{s.HouseFlat, s.Locality, s.AreaStreet, s.Landmark, s.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
