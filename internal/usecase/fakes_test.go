package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrimarket/internal/domain/model"
	"agrimarket/internal/payment"
	repo "agrimarket/internal/repository"

	"github.com/shopspring/decimal"
)

// =====================
// In-memory store + repos
// =====================

// memStore はGORM実装と同じ条件付き更新の振る舞いをメモリ上で再現する
type memStore struct {
	mu      sync.Mutex
	crops   map[string]model.Crop
	orders  map[string]model.Order
	escrows map[string]model.Escrow
}

func newMemStore() *memStore {
	return &memStore{
		crops:   map[string]model.Crop{},
		orders:  map[string]model.Order{},
		escrows: map[string]model.Escrow{},
	}
}

func (s *memStore) snapshot() (map[string]model.Crop, map[string]model.Order, map[string]model.Escrow) {
	crops := make(map[string]model.Crop, len(s.crops))
	for k, v := range s.crops {
		crops[k] = v
	}
	orders := make(map[string]model.Order, len(s.orders))
	for k, v := range s.orders {
		orders[k] = v
	}
	escrows := make(map[string]model.Escrow, len(s.escrows))
	for k, v := range s.escrows {
		escrows[k] = v
	}
	return crops, orders, escrows
}

type memCropRepo struct{ s *memStore }

func (r *memCropRepo) FindByID(ctx context.Context, id string) (model.Crop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.crops[id]
	if !ok {
		return model.Crop{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *memCropRepo) ListAvailable(ctx context.Context, q repo.CropListQuery) ([]model.Crop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Crop
	for _, c := range r.s.crops {
		if c.Status == model.CropStatusAvailable {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCropRepo) ListByFarmerID(ctx context.Context, farmerID string) ([]model.Crop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Crop
	for _, c := range r.s.crops {
		if c.FarmerID == farmerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCropRepo) Create(ctx context.Context, c model.Crop) (model.Crop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.crops[c.ID] = c
	return c, nil
}

func (r *memCropRepo) Update(ctx context.Context, c model.Crop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.crops[c.ID]; !ok {
		return repo.ErrNotFound
	}
	r.s.crops[c.ID] = c
	return nil
}

func (r *memCropRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.crops[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.crops, id)
	return nil
}

func (r *memCropRepo) ReserveStock(ctx context.Context, cropID string, qty decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.crops[cropID]
	if !ok {
		return false, nil
	}
	//条件付き減算と同じ判定
	if c.Status != model.CropStatusAvailable || c.Quantity.LessThan(qty) {
		return false, nil
	}
	c.Quantity = c.Quantity.Sub(qty)
	if c.Quantity.Sign() <= 0 {
		c.Status = model.CropStatusSold
	}
	r.s.crops[cropID] = c
	return true, nil
}

func (r *memCropRepo) RestoreStock(ctx context.Context, cropID string, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.crops[cropID]
	if !ok {
		return repo.ErrNotFound
	}
	c.Quantity = c.Quantity.Add(qty)
	c.Status = model.CropStatusAvailable
	r.s.crops[cropID] = c
	return nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) Create(ctx context.Context, order model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.s.orders[orderID] = o
	return nil
}

func (r *memOrderRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for _, o := range r.s.orders {
		if f.BuyerID != "" && o.BuyerID != f.BuyerID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.FarmerID != "" {
			c, ok := r.s.crops[o.CropID]
			if !ok || c.FarmerID != f.FarmerID {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

type memEscrowRepo struct{ s *memStore }

func (r *memEscrowRepo) Create(ctx context.Context, e model.Escrow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.escrows[e.OrderID]; ok {
		return repo.ErrDuplicateHold
	}
	e.CreatedAt = time.Now()
	r.s.escrows[e.OrderID] = e
	return nil
}

func (r *memEscrowRepo) FindByOrderID(ctx context.Context, orderID string) (model.Escrow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.escrows[orderID]
	if !ok {
		return model.Escrow{}, repo.ErrNotFound
	}
	return e, nil
}

func (r *memEscrowRepo) MarkReleased(ctx context.Context, orderID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.escrows[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	if e.Status != model.EscrowStatusHeld {
		return repo.ErrAlreadyFinalized
	}
	e.Status = model.EscrowStatusReleased
	e.ReleasedAt = &at
	r.s.escrows[orderID] = e
	return nil
}

func (r *memEscrowRepo) MarkRefunded(ctx context.Context, orderID string, refund decimal.Decimal, penalty decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.escrows[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	if e.Status != model.EscrowStatusHeld {
		return repo.ErrAlreadyFinalized
	}
	e.Status = model.EscrowStatusRefunded
	e.RefundAmount = &refund
	e.PenaltyAmount = &penalty
	e.RefundedAt = &at
	r.s.escrows[orderID] = e
	return nil
}

// =====================
// TxManager fake
// =====================

// memTxManager はトランザクションを直列化して、fnが失敗したら
// スナップショットへ巻き戻す（DBのrollback相当）
type memTxManager struct {
	txMu sync.Mutex
	s    *memStore
}

func newMemTxManager(s *memStore) *memTxManager {
	return &memTxManager{s: s}
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.s.mu.Lock()
	crops, orders, escrows := m.s.snapshot()
	m.s.mu.Unlock()

	err := fn(&memTxRepos{s: m.s})
	if err != nil {
		m.s.mu.Lock()
		m.s.crops = crops
		m.s.orders = orders
		m.s.escrows = escrows
		m.s.mu.Unlock()
	}
	return err
}

type memTxRepos struct{ s *memStore }

func (r *memTxRepos) Crops() repo.CropRepository     { return &memCropRepo{s: r.s} }
func (r *memTxRepos) Orders() repo.OrderRepository   { return &memOrderRepo{s: r.s} }
func (r *memTxRepos) Escrows() repo.EscrowRepository { return &memEscrowRepo{s: r.s} }

// =====================
// Gateway fake
// =====================

type fakeGateway struct {
	mu         sync.Mutex
	declineAll bool
	seq        int
	authorized []string
	voided     []string

	// Authorize成功の直前に呼ぶフック。承認とDBトランザクションの
	// 合間に割り込む別リクエストを再現するのに使う。
	onAuthorize func()
}

func (g *fakeGateway) Authorize(ctx context.Context, amount decimal.Decimal) (payment.Authorization, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.declineAll {
		return payment.Authorization{}, payment.ErrDeclined
	}
	if g.onAuthorize != nil {
		g.onAuthorize()
	}
	g.seq++
	id := fmt.Sprintf("txn_%d", g.seq)
	g.authorized = append(g.authorized, id)
	return payment.Authorization{TransactionID: id, Amount: amount}, nil
}

func (g *fakeGateway) Void(ctx context.Context, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.voided = append(g.voided, transactionID)
	return nil
}

func (g *fakeGateway) authorizeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.authorized)
}

func (g *fakeGateway) voidCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.voided)
}
