package usecase

import (
	"context"
	"errors"
	"time"

	"agrimarket/internal/domain/model"
	"agrimarket/internal/payment"
	repo "agrimarket/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ゲートウェイ呼び出しの上限。超えたら承認失敗として扱う（fail-closed）。
const defaultGatewayTimeout = 5 * time.Second

type OrderUsecase struct {
	tx             repo.TransactionManager
	crops          repo.CropRepository
	gateway        payment.Gateway
	logger         *zap.Logger
	gatewayTimeout time.Duration
}

func NewOrderUsecase(tx repo.TransactionManager, crops repo.CropRepository, gateway payment.Gateway, logger *zap.Logger) *OrderUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderUsecase{
		tx:             tx,
		crops:          crops,
		gateway:        gateway,
		logger:         logger,
		gatewayTimeout: defaultGatewayTimeout,
	}
}

type CreateOrderInput struct {
	CropID     string
	Quantity   decimal.Decimal
	PickupDate *time.Time
}

type OrderOutput struct {
	ID          string          `json:"id"`
	CropID      string          `json:"crop_id"`
	BuyerID     string          `json:"buyer_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	PaymentID   string          `json:"payment_id"`
	PickupDate  *time.Time      `json:"pickup_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PaymentOutput struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	EscrowAmount  decimal.Decimal `json:"escrow_amount"`
	Commission    decimal.Decimal `json:"commission"`
}

type CreateOrderOutput struct {
	Order   OrderOutput   `json:"order"`
	Payment PaymentOutput `json:"payment"`
}

type EscrowOutput struct {
	Status        string           `json:"status"`
	HeldAmount    decimal.Decimal  `json:"held_amount"`
	Commission    decimal.Decimal  `json:"commission"`
	TransactionID string           `json:"transaction_id"`
	RefundAmount  *decimal.Decimal `json:"refund_amount,omitempty"`
	PenaltyAmount *decimal.Decimal `json:"penalty_amount,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ReleasedAt    *time.Time       `json:"released_at,omitempty"`
	RefundedAt    *time.Time       `json:"refunded_at,omitempty"`
}

type OrderDetailOutput struct {
	Order  OrderOutput  `json:"order"`
	Escrow EscrowOutput `json:"escrow"`
}

type CancelOrderOutput struct {
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

// CreateOrder は注文作成。承認→hold→在庫予約→注文作成の順で、
// 承認より後はひとつのDBトランザクション。途中で失敗したら承認を取り消す。
func (u *OrderUsecase) CreateOrder(ctx context.Context, buyerID string, in CreateOrderInput) (CreateOrderOutput, error) {
	if buyerID == "" {
		return CreateOrderOutput{}, ErrUnauthorized
	}
	if in.CropID == "" || in.Quantity.Sign() <= 0 {
		return CreateOrderOutput{}, ErrValidation
	}

	crop, err := u.crops.FindByID(ctx, in.CropID)
	if errors.Is(err, repo.ErrNotFound) {
		return CreateOrderOutput{}, ErrNotFound
	}
	if err != nil {
		return CreateOrderOutput{}, err
	}

	if !crop.IsAvailable() {
		return CreateOrderOutput{}, ErrCropUnavailable
	}
	if in.Quantity.GreaterThan(crop.Quantity) {
		return CreateOrderOutput{}, ErrInsufficientStock
	}

	total := model.Round2(in.Quantity.Mul(crop.Price))

	//在庫を触る前に承認を取る。拒否されたら何も変わらない。
	actx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()
	auth, err := u.gateway.Authorize(actx, total)
	if err != nil {
		u.logger.Warn("payment authorization failed",
			zap.String("crop_id", in.CropID),
			zap.String("amount", total.String()),
			zap.Error(err))
		return CreateOrderOutput{}, ErrPaymentDeclined
	}

	orderID := uuid.NewString()
	order := model.Order{
		ID:          orderID,
		CropID:      in.CropID,
		BuyerID:     buyerID,
		Quantity:    in.Quantity,
		TotalAmount: total,
		Status:      model.OrderStatusPending,
		PaymentID:   auth.TransactionID,
		PickupDate:  in.PickupDate,
	}
	esc := model.NewEscrow(orderID, auth.TransactionID, total)

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Escrows().Create(ctx, esc); err != nil {
			if errors.Is(err, repo.ErrDuplicateHold) {
				return ErrDuplicateHold
			}
			return err
		}

		//条件付き減算。負けたら在庫不足。
		ok, err := r.Crops().ReserveStock(ctx, in.CropID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		return r.Orders().Create(ctx, order)
	})
	if err != nil {
		//承認済みの資金を宙に残さない
		u.voidAuthorization(auth.TransactionID)
		return CreateOrderOutput{}, err
	}

	u.logger.Info("order created",
		zap.String("order_id", orderID),
		zap.String("crop_id", in.CropID),
		zap.String("total", total.String()))

	return CreateOrderOutput{
		Order: toOrderOutput(order),
		Payment: PaymentOutput{
			TransactionID: auth.TransactionID,
			Amount:        total,
			EscrowAmount:  esc.HeldAmount,
			Commission:    esc.CommissionAmount,
		},
	}, nil
}

// AdvanceStatus はpending→in-transit（farmerのみ）と
// in-transit→delivered（buyerのみ、release成功が条件）だけを許す。
func (u *OrderUsecase) AdvanceStatus(ctx context.Context, orderID string, requested string, actorID string) (OrderOutput, error) {
	if actorID == "" {
		return OrderOutput{}, ErrUnauthorized
	}

	target := model.OrderStatus(requested)
	if target != model.OrderStatusInTransit && target != model.OrderStatusDelivered {
		return OrderOutput{}, ErrInvalidStatus
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		crop, err := r.Crops().FindByID(ctx, o.CropID)
		if err != nil {
			return err
		}

		switch target {
		case model.OrderStatusInTransit:
			if actorID != crop.FarmerID {
				return ErrForbidden
			}
			if o.Status != model.OrderStatusPending {
				return ErrInvalidTransition
			}

		case model.OrderStatusDelivered:
			if actorID != o.BuyerID {
				return ErrForbidden
			}
			if o.Status != model.OrderStatusInTransit {
				return ErrInvalidTransition
			}
			//releaseを先に。失敗したら注文のステータスは進めない。
			if err := r.Escrows().MarkReleased(ctx, orderID, time.Now()); err != nil {
				return mapEscrowErr(err)
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}

		o.Status = target
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.logger.Info("order status advanced",
		zap.String("order_id", orderID),
		zap.String("status", requested))
	return out, nil
}

// CancelOrder はpendingの注文だけ取り消せる。refund→ステータス→在庫戻しの順。
func (u *OrderUsecase) CancelOrder(ctx context.Context, orderID string, reason string, actorID string) (CancelOrderOutput, error) {
	if actorID == "" {
		return CancelOrderOutput{}, ErrUnauthorized
	}

	var out CancelOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		crop, err := r.Crops().FindByID(ctx, o.CropID)
		if err != nil {
			return err
		}

		//当事者（買い手か出品者）だけ
		if actorID != o.BuyerID && actorID != crop.FarmerID {
			return ErrForbidden
		}
		//輸送が始まったらキャンセル不可
		if o.Status != model.OrderStatusPending {
			return ErrInvalidTransition
		}

		esc, err := r.Escrows().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		refund, penalty := model.RefundBreakdown(esc.HeldAmount, reason)
		if err := r.Escrows().MarkRefunded(ctx, orderID, refund, penalty, time.Now()); err != nil {
			return mapEscrowErr(err)
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
			return err
		}
		if err := r.Crops().RestoreStock(ctx, o.CropID, o.Quantity); err != nil {
			return err
		}

		out = CancelOrderOutput{RefundAmount: refund, PenaltyAmount: penalty}
		return nil
	})
	if err != nil {
		return CancelOrderOutput{}, err
	}

	u.logger.Info("order canceled",
		zap.String("order_id", orderID),
		zap.String("reason", reason),
		zap.String("refund", out.RefundAmount.String()))
	return out, nil
}

// GetOrder は注文とエスクローのスナップショット。当事者以外には見せない。
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string, actorID string) (OrderDetailOutput, error) {
	if actorID == "" {
		return OrderDetailOutput{}, ErrUnauthorized
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		crop, err := r.Crops().FindByID(ctx, o.CropID)
		if err != nil {
			return err
		}

		if actorID != o.BuyerID && actorID != crop.FarmerID {
			return ErrForbidden
		}

		esc, err := r.Escrows().FindByOrderID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		out = OrderDetailOutput{
			Order:  toOrderOutput(o),
			Escrow: toEscrowOutput(esc),
		}
		return nil
	})
	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

// ListOrders は立場で絞った一覧。buyerは自分の注文、farmerは自分の出品への注文。
func (u *OrderUsecase) ListOrders(ctx context.Context, actorID string, role model.Role, status string) ([]OrderOutput, error) {
	if actorID == "" {
		return []OrderOutput{}, ErrUnauthorized
	}

	f := repo.OrderListFilter{Status: status}
	switch role {
	case model.RoleBuyer:
		f.BuyerID = actorID
	case model.RoleFarmer:
		f.FarmerID = actorID
	default:
		return []OrderOutput{}, ErrForbidden
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().List(ctx, f)
		if err != nil {
			return err
		}
		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// トランザクションが失敗した後に呼ぶ。承認済みの資金を解放する。
// Void自体の失敗はログに残すだけ（外側のエラーを優先する）。
func (u *OrderUsecase) voidAuthorization(transactionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), u.gatewayTimeout)
	defer cancel()

	if err := u.gateway.Void(ctx, transactionID); err != nil {
		u.logger.Error("failed to void authorization",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
	}
}

func mapEscrowErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, repo.ErrAlreadyFinalized) {
		return ErrAlreadyFinalized
	}
	return err
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:          o.ID,
		CropID:      o.CropID,
		BuyerID:     o.BuyerID,
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		PaymentID:   o.PaymentID,
		PickupDate:  o.PickupDate,
		CreatedAt:   o.CreatedAt,
	}
}

func toEscrowOutput(e model.Escrow) EscrowOutput {
	return EscrowOutput{
		Status:        string(e.Status),
		HeldAmount:    e.HeldAmount,
		Commission:    e.CommissionAmount,
		TransactionID: e.TransactionID,
		RefundAmount:  e.RefundAmount,
		PenaltyAmount: e.PenaltyAmount,
		CreatedAt:     e.CreatedAt,
		ReleasedAt:    e.ReleasedAt,
		RefundedAt:    e.RefundedAt,
	}
}
