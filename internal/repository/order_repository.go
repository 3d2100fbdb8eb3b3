package repository

import (
	"context"

	"agrimarket/internal/domain/model"
)

type OrderListFilter struct {
	Status   string
	BuyerID  string
	FarmerID string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	Create(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	// buyer/farmerの立場で絞り込んだ一覧（farmerはcrops経由）
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
}
