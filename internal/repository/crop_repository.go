package repository

import (
	"context"
	"errors"

	"agrimarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type CropListQuery struct {
	Type     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Order    string
}

// 出品の永続化（保存・取得）だけを約束。
type CropRepository interface {
	FindByID(ctx context.Context, id string) (model.Crop, error)
	ListAvailable(ctx context.Context, q CropListQuery) ([]model.Crop, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]model.Crop, error)

	Create(ctx context.Context, c model.Crop) (model.Crop, error)
	Update(ctx context.Context, c model.Crop) error
	Delete(ctx context.Context, id string) error

	// 在庫が足りてavailableなときだけ減算。残量0でsoldに落とす。
	ReserveStock(ctx context.Context, cropID string, qty decimal.Decimal) (bool, error)

	// 在庫戻し（キャンセル）。戻した出品は常にavailableへ。
	RestoreStock(ctx context.Context, cropID string, qty decimal.Decimal) error
}
