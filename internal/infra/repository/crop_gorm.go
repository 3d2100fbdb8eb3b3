package repository

import (
	"context"
	"errors"

	"agrimarket/internal/domain/model"
	repo "agrimarket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CropGormRepository struct {
	db *gorm.DB
}

func NewCropGormRepository(db *gorm.DB) *CropGormRepository {
	return &CropGormRepository{db: db}
}

func (r *CropGormRepository) FindByID(ctx context.Context, id string) (model.Crop, error) {
	var c model.Crop
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Crop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Crop{}, err
	}
	return c, nil
}

func (r *CropGormRepository) ListAvailable(ctx context.Context, f repo.CropListQuery) ([]model.Crop, error) {
	q := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("status = ?", model.CropStatusAvailable)

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	//並び順はホワイトリストで絞る
	sort := "created_at"
	switch f.Sort {
	case "price", "created_at", "health_score":
		sort = f.Sort
	}
	dir := "desc"
	if f.Order == "asc" {
		dir = "asc"
	}

	var items []model.Crop
	if err := q.Order(sort + " " + dir).Find(&items).Error; err != nil {
		return []model.Crop{}, err
	}
	return items, nil
}

func (r *CropGormRepository) ListByFarmerID(ctx context.Context, farmerID string) ([]model.Crop, error) {
	var items []model.Crop
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Crop{}, err
	}
	return items, nil
}

func (r *CropGormRepository) Create(ctx context.Context, c model.Crop) (model.Crop, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Crop{}, err
	}
	return c, nil
}

func (r *CropGormRepository) Update(ctx context.Context, c model.Crop) error {
	res := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"price":       c.Price,
			"quantity":    c.Quantity,
			"status":      c.Status,
			"description": c.Description,
			"image_url":   c.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CropGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Crop{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りてavailableなときだけ減らす。
// 条件付きUPDATEなので同じ出品への同時予約で二重取りは起きない。
func (r *CropGormRepository) ReserveStock(ctx context.Context, cropID string, qty decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("id = ? AND status = ? AND quantity >= ?", cropID, model.CropStatusAvailable, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	//残量0になったらsoldへ
	res = r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("id = ? AND quantity <= 0", cropID).
		Update("status", model.CropStatusSold)
	if res.Error != nil {
		return false, res.Error
	}
	return true, nil
}

// 在庫戻し（キャンセル）。戻した出品はavailableに戻す。
func (r *CropGormRepository) RestoreStock(ctx context.Context, cropID string, qty decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Crop{}).
		Where("id = ?", cropID).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", qty),
			"status":   model.CropStatusAvailable,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
