package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrDeclined = errors.New("payment declined")

type Authorization struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// Gateway は決済の承認と取り消しの約束。
// 本番ならRazorpay/Stripe等のSDKが入る場所で、ここではモックのみ。
type Gateway interface {
	Authorize(ctx context.Context, amount decimal.Decimal) (Authorization, error)
	Void(ctx context.Context, transactionID string) error
}
