package usecase

import "errors"

// 呼び出し側（handler）がHTTPコードへ写すエラー種別。
// 業務ルール違反はここで確定し、内部でリトライしない。
var (
	//404
	ErrNotFound = errors.New("not found")
	//403 役割が合わない
	ErrForbidden = errors.New("forbidden")
	//400 遷移グラフに無い遷移
	ErrInvalidTransition = errors.New("invalid transition")
	//400 未知のステータス値
	ErrInvalidStatus = errors.New("invalid status")
	//400 在庫不足
	ErrInsufficientStock = errors.New("insufficient stock")
	//400 出品がavailableでない
	ErrCropUnavailable = errors.New("crop unavailable")
	//400 承認失敗（タイムアウト含む）
	ErrPaymentDeclined = errors.New("payment declined")
	//409 同じ注文への二重hold
	ErrDuplicateHold = errors.New("duplicate hold")
	//409 エスクローが終端済み
	ErrAlreadyFinalized = errors.New("already finalized")

	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//409 重複登録
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)
