package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrimarket/internal/domain/model"
	repo "agrimarket/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EscrowGormRepository struct {
	db *gorm.DB
}

func NewEscrowGormRepository(db *gorm.DB) *EscrowGormRepository {
	return &EscrowGormRepository{db: db}
}

func (r *EscrowGormRepository) Create(ctx context.Context, e model.Escrow) error {
	err := r.db.WithContext(ctx).Create(&e).Error
	if err != nil && isDuplicateKey(err) {
		return repo.ErrDuplicateHold
	}
	return err
}

func (r *EscrowGormRepository) FindByOrderID(ctx context.Context, orderID string) (model.Escrow, error) {
	var e model.Escrow
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Escrow{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Escrow{}, err
	}
	return e, nil
}

// held→released。条件付きUPDATEなので同時のrelease/refundが両方成功することは無い。
func (r *EscrowGormRepository) MarkReleased(ctx context.Context, orderID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Escrow{}).
		Where("order_id = ? AND status = ?", orderID, model.EscrowStatusHeld).
		Updates(map[string]interface{}{
			"status":      model.EscrowStatusReleased,
			"released_at": at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.finalizeError(ctx, orderID)
	}
	return nil
}

// held→refunded。返金額とペナルティは終端遷移と同時に確定する。
func (r *EscrowGormRepository) MarkRefunded(ctx context.Context, orderID string, refund decimal.Decimal, penalty decimal.Decimal, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Escrow{}).
		Where("order_id = ? AND status = ?", orderID, model.EscrowStatusHeld).
		Updates(map[string]interface{}{
			"status":         model.EscrowStatusRefunded,
			"refund_amount":  refund,
			"penalty_amount": penalty,
			"refunded_at":    at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.finalizeError(ctx, orderID)
	}
	return nil
}

// 0行更新だったときにNotFoundか終端済みかを切り分ける
func (r *EscrowGormRepository) finalizeError(ctx context.Context, orderID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Escrow{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repo.ErrNotFound
	}
	return repo.ErrAlreadyFinalized
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	//postgres unique_violation
	return strings.Contains(err.Error(), "SQLSTATE 23505")
}
