package usecase

import (
	"context"
	"errors"
	"time"

	"agrimarket/internal/ai"
	"agrimarket/internal/domain/model"
	repo "agrimarket/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CropUsecase struct {
	crops   repo.CropRepository
	advisor ai.Advisor
	logger  *zap.Logger
}

func NewCropUsecase(crops repo.CropRepository, advisor ai.Advisor, logger *zap.Logger) *CropUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CropUsecase{crops: crops, advisor: advisor, logger: logger}
}

type CreateCropInput struct {
	Name        string
	Type        string
	Quantity    decimal.Decimal
	Unit        string
	Price       decimal.Decimal
	ImageURL    string
	Description string
	HarvestDate *time.Time
}

type UpdateCropInput struct {
	Price       *decimal.Decimal
	Quantity    *decimal.Decimal
	Status      *string
	Description *string
	ImageURL    *string
}

type CropOutput struct {
	Crop             model.Crop          `json:"crop"`
	HealthAssessment *ai.HealthAssessment `json:"health_assessment,omitempty"`
	PricePrediction  *ai.PricePrediction  `json:"price_prediction,omitempty"`
}

func validCropType(t string) bool {
	switch model.CropType(t) {
	case model.CropTypeVegetables, model.CropTypeFruits, model.CropTypeGrains,
		model.CropTypePulses, model.CropTypeOthers:
		return true
	}
	return false
}

// Create は出品を作る。価格はAIの提案値で上書きする（提案が取れたとき）。
func (u *CropUsecase) Create(ctx context.Context, farmerID string, in CreateCropInput) (CropOutput, error) {
	if farmerID == "" {
		return CropOutput{}, ErrUnauthorized
	}
	if in.Name == "" || !validCropType(in.Type) || in.Quantity.Sign() <= 0 || in.Price.Sign() <= 0 {
		return CropOutput{}, ErrValidation
	}

	health, err := u.advisor.AssessHealth(ctx, in.ImageURL)
	if err != nil {
		return CropOutput{}, err
	}

	prediction, err := u.advisor.PredictPrice(ctx, ai.PriceInput{
		Type:     in.Type,
		Quantity: in.Quantity,
		Price:    in.Price,
	})
	if err != nil {
		return CropOutput{}, err
	}

	price := in.Price
	if prediction.SuggestedPrice.Sign() > 0 {
		price = prediction.SuggestedPrice
	}

	unit := in.Unit
	if unit == "" {
		unit = "kg"
	}

	crop := model.Crop{
		ID:          uuid.NewString(),
		FarmerID:    farmerID,
		Name:        in.Name,
		Type:        model.CropType(in.Type),
		Quantity:    in.Quantity,
		Unit:        unit,
		Price:       price,
		ImageURL:    in.ImageURL,
		HealthScore: health.HealthScore,
		Status:      model.CropStatusAvailable,
		HarvestDate: in.HarvestDate,
		Description: in.Description,
	}

	created, err := u.crops.Create(ctx, crop)
	if err != nil {
		return CropOutput{}, err
	}

	u.logger.Info("crop listed",
		zap.String("crop_id", created.ID),
		zap.String("farmer_id", farmerID))

	return CropOutput{
		Crop:             created,
		HealthAssessment: &health,
		PricePrediction:  &prediction,
	}, nil
}

func (u *CropUsecase) List(ctx context.Context, q repo.CropListQuery) ([]model.Crop, error) {
	return u.crops.ListAvailable(ctx, q)
}

// ListMine はfarmer自身の出品一覧。ステータスを問わず全部返す。
func (u *CropUsecase) ListMine(ctx context.Context, farmerID string) ([]model.Crop, error) {
	if farmerID == "" {
		return nil, ErrUnauthorized
	}
	return u.crops.ListByFarmerID(ctx, farmerID)
}

// Suggest はシーズンに合わせた作物推奨を返す。
func (u *CropUsecase) Suggest(ctx context.Context, location string) (ai.CropSuggestion, error) {
	return u.advisor.SuggestCrops(ctx, location)
}

func (u *CropUsecase) Get(ctx context.Context, id string) (model.Crop, error) {
	c, err := u.crops.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Crop{}, ErrNotFound
	}
	return c, err
}

// Update は自分の出品だけ。価格が変わるときは提案を取り直す。
func (u *CropUsecase) Update(ctx context.Context, farmerID string, cropID string, in UpdateCropInput) (CropOutput, error) {
	if farmerID == "" {
		return CropOutput{}, ErrUnauthorized
	}

	crop, err := u.crops.FindByID(ctx, cropID)
	if errors.Is(err, repo.ErrNotFound) {
		return CropOutput{}, ErrNotFound
	}
	if err != nil {
		return CropOutput{}, err
	}
	if crop.FarmerID != farmerID {
		return CropOutput{}, ErrForbidden
	}

	var prediction *ai.PricePrediction
	if in.Price != nil {
		if in.Price.Sign() <= 0 {
			return CropOutput{}, ErrValidation
		}
		p, err := u.advisor.PredictPrice(ctx, ai.PriceInput{
			Type:     string(crop.Type),
			Quantity: crop.Quantity,
			Price:    *in.Price,
		})
		if err != nil {
			return CropOutput{}, err
		}
		prediction = &p

		crop.Price = *in.Price
		if p.SuggestedPrice.Sign() > 0 {
			crop.Price = p.SuggestedPrice
		}
	}
	if in.Quantity != nil {
		if in.Quantity.Sign() < 0 {
			return CropOutput{}, ErrValidation
		}
		crop.Quantity = *in.Quantity
	}
	if in.Status != nil {
		switch model.CropStatus(*in.Status) {
		case model.CropStatusAvailable, model.CropStatusCancelled:
			crop.Status = model.CropStatus(*in.Status)
		default:
			return CropOutput{}, ErrInvalidStatus
		}
	}
	if in.Description != nil {
		crop.Description = *in.Description
	}
	if in.ImageURL != nil {
		crop.ImageURL = *in.ImageURL
	}

	if err := u.crops.Update(ctx, crop); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CropOutput{}, ErrNotFound
		}
		return CropOutput{}, err
	}

	return CropOutput{Crop: crop, PricePrediction: prediction}, nil
}

// Delete は注文が付いていない（available）出品だけ消せる。
func (u *CropUsecase) Delete(ctx context.Context, farmerID string, cropID string) error {
	if farmerID == "" {
		return ErrUnauthorized
	}

	crop, err := u.crops.FindByID(ctx, cropID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if crop.FarmerID != farmerID {
		return ErrForbidden
	}
	if !crop.IsAvailable() {
		return ErrCropUnavailable
	}

	if err := u.crops.Delete(ctx, cropID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
