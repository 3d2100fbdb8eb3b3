package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockGateway は常に承認するゲートウェイ。
// 承認済みIDを覚えてVoidの整合だけ確認できるようにしてある。
type MockGateway struct {
	mu         sync.Mutex
	authorized map[string]decimal.Decimal
}

func NewMockGateway() *MockGateway {
	return &MockGateway{authorized: map[string]decimal.Decimal{}}
}

func (g *MockGateway) Authorize(ctx context.Context, amount decimal.Decimal) (Authorization, error) {
	if err := ctx.Err(); err != nil {
		return Authorization{}, err
	}
	if amount.Sign() <= 0 {
		return Authorization{}, ErrDeclined
	}

	txnID := "txn_" + uuid.NewString()

	g.mu.Lock()
	g.authorized[txnID] = amount
	g.mu.Unlock()

	return Authorization{TransactionID: txnID, Amount: amount}, nil
}

func (g *MockGateway) Void(ctx context.Context, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.authorized[transactionID]; !ok {
		return ErrDeclined
	}
	delete(g.authorized, transactionID)
	return nil
}
