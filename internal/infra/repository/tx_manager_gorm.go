package repository

import (
	"context"

	repo "agrimarket/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	crops   repo.CropRepository
	orders  repo.OrderRepository
	escrows repo.EscrowRepository
}

func (r *txReposGorm) Crops() repo.CropRepository     { return r.crops }
func (r *txReposGorm) Orders() repo.OrderRepository   { return r.orders }
func (r *txReposGorm) Escrows() repo.EscrowRepository { return r.escrows }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			crops:   NewCropGormRepository(tx),
			orders:  NewOrderGormRepository(tx),
			escrows: NewEscrowGormRepository(tx),
		}
		return fn(r)
	})
}
