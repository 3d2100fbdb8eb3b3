package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMockGateway_AuthorizeIssuesTxnID(t *testing.T) {
	g := NewMockGateway()

	auth, err := g.Authorize(context.Background(), decimal.RequireFromString("1000"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(auth.TransactionID, "txn_"))
	assert.True(t, auth.Amount.Equal(decimal.RequireFromString("1000")))
}

func TestMockGateway_DeclinesNonPositiveAmount(t *testing.T) {
	g := NewMockGateway()

	_, err := g.Authorize(context.Background(), decimal.Zero)
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestMockGateway_VoidKnownAuthorization(t *testing.T) {
	g := NewMockGateway()

	auth, err := g.Authorize(context.Background(), decimal.RequireFromString("10.50"))
	assert.NoError(t, err)

	assert.NoError(t, g.Void(context.Background(), auth.TransactionID))
	//二重Voidは失敗
	assert.Error(t, g.Void(context.Background(), auth.TransactionID))
}

func TestMockGateway_AuthorizeHonorsCanceledContext(t *testing.T) {
	g := NewMockGateway()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Authorize(ctx, decimal.RequireFromString("100"))
	assert.Error(t, err)
}
