package repository

import (
	"context"
	"errors"
	"time"

	"agrimarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

var (
	// 同じorderIDで二重hold
	ErrDuplicateHold = errors.New("duplicate hold")
	// held以外からの遷移
	ErrAlreadyFinalized = errors.New("already finalized")
)

// 注文ごとのエスクロー台帳。held→released/refundedの遷移は
// orderID単位でアトミックであること（条件付きUPDATE）。
type EscrowRepository interface {
	Create(ctx context.Context, e model.Escrow) error
	FindByOrderID(ctx context.Context, orderID string) (model.Escrow, error)

	MarkReleased(ctx context.Context, orderID string, at time.Time) error
	MarkRefunded(ctx context.Context, orderID string, refund decimal.Decimal, penalty decimal.Decimal, at time.Time) error
}
