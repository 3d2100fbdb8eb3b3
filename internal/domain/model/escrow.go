package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowStatusHeld     EscrowStatus = "held"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
)

// 手数料0.5%、買い手都合キャンセルのペナルティ5%
var (
	CommissionRate = decimal.RequireFromString("0.005")
	PenaltyRate    = decimal.RequireFromString("0.05")
)

const ReasonBuyerCancellation = "buyer_cancellation"

// heldからreleased/refundedのどちらか一方へしか遷移しない
type Escrow struct {
	OrderID          string           `gorm:"type:uuid;primaryKey" json:"order_id"`
	TransactionID    string           `gorm:"type:varchar(64);not null" json:"transaction_id"`
	HeldAmount       decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"held_amount"`
	CommissionAmount decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"commission_amount"`
	Status           EscrowStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	RefundAmount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"refund_amount,omitempty"`
	PenaltyAmount    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"penalty_amount,omitempty"`
	CreatedAt        time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	ReleasedAt       *time.Time       `json:"released_at,omitempty"`
	RefundedAt       *time.Time       `json:"refunded_at,omitempty"`
}

// Round2 は金額を小数2桁へ丸める（四捨五入、sourceのtoFixed(2)相当）
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NewEscrow は総額から手数料を引いてheld状態のレコードを作る
func NewEscrow(orderID string, transactionID string, amount decimal.Decimal) Escrow {
	commission := Round2(amount.Mul(CommissionRate))
	return Escrow{
		OrderID:          orderID,
		TransactionID:    transactionID,
		HeldAmount:       amount.Sub(commission),
		CommissionAmount: commission,
		Status:           EscrowStatusHeld,
	}
}

// RefundBreakdown は返金額とペナルティを計算する。
// 買い手都合のキャンセルだけ5%を差し引く。
func RefundBreakdown(held decimal.Decimal, reason string) (refund decimal.Decimal, penalty decimal.Decimal) {
	penalty = decimal.Zero
	if reason == ReasonBuyerCancellation {
		penalty = Round2(held.Mul(PenaltyRate))
	}
	return held.Sub(penalty), penalty
}
