package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInTransit OrderStatus = "in-transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// pending → in-transit → delivered / pending → canceled 以外の遷移は無い
type Order struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	CropID      string          `gorm:"type:uuid;not null;index" json:"crop_id"`
	BuyerID     string          `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentID   string          `gorm:"type:varchar(64);not null" json:"payment_id"`
	PickupDate  *time.Time      `json:"pickup_date"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
