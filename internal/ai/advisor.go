package ai

import (
	"context"

	"github.com/shopspring/decimal"
)

type HealthAssessment struct {
	HealthScore     decimal.Decimal `json:"health_score"`
	Confidence      decimal.Decimal `json:"confidence"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

type PriceInput struct {
	Type     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

type PricePrediction struct {
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	Confidence     decimal.Decimal `json:"confidence"`
	DemandTrend    string          `json:"demand_trend"`
	SupplyTrend    string          `json:"supply_trend"`
	PriceMin       decimal.Decimal `json:"price_min"`
	PriceMax       decimal.Decimal `json:"price_max"`
}

type WeatherForecast struct {
	Rainfall string `json:"rainfall"`
	TempMin  int    `json:"temp_min"`
	TempMax  int    `json:"temp_max"`
	Humidity int    `json:"humidity"`
}

type SoilConditions struct {
	Moisture string          `json:"moisture"`
	PH       decimal.Decimal `json:"ph"`
}

// 作付けシーズンに合わせた推奨作物
type CropSuggestion struct {
	Season          string          `json:"season"`
	SuggestedCrops  []string        `json:"suggested_crops"`
	WeatherForecast WeatherForecast `json:"weather_forecast"`
	SoilConditions  SoilConditions  `json:"soil_conditions"`
}

// Advisor は出品時のスコアリングと価格提案、作物推奨の約束。
// 実体はモック。テストでは固定値のfakeを差し込む。
type Advisor interface {
	AssessHealth(ctx context.Context, imageURL string) (HealthAssessment, error)
	PredictPrice(ctx context.Context, in PriceInput) (PricePrediction, error)
	SuggestCrops(ctx context.Context, location string) (CropSuggestion, error)
}
