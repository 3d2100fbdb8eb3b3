package ai

import (
	"context"
	"math/rand"
	"sync"

	"agrimarket/internal/domain/model"

	"github.com/shopspring/decimal"
)

var possibleIssues = []string{
	"Minor pest damage",
	"Slight discoloration",
	"Early signs of disease",
	"Nutrient deficiency",
	"Water stress",
}

var recommendations = []string{
	"Consider organic pesticides",
	"Adjust irrigation schedule",
	"Apply appropriate fertilizers",
}

// MockAdvisor は乱数で値を作るスタブ。rand.Sourceを注入して決定的にできる。
type MockAdvisor struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockAdvisor(src rand.Source) *MockAdvisor {
	return &MockAdvisor{rnd: rand.New(src)}
}

// AssessHealth は3.0〜5.0のスコアを返す。4未満のときだけ問題点を付ける。
func (a *MockAdvisor) AssessHealth(ctx context.Context, imageURL string) (HealthAssessment, error) {
	if err := ctx.Err(); err != nil {
		return HealthAssessment{}, err
	}

	a.mu.Lock()
	score := 3 + a.rnd.Float64()*2
	confidence := 0.7 + a.rnd.Float64()*0.3

	var issues []string
	if score < 4 {
		n := a.rnd.Intn(2) + 1
		for i := 0; i < n; i++ {
			issue := possibleIssues[a.rnd.Intn(len(possibleIssues))]
			if !contains(issues, issue) {
				issues = append(issues, issue)
			}
		}
	}
	a.mu.Unlock()

	out := HealthAssessment{
		HealthScore: model.Round2(decimal.NewFromFloat(score)),
		Confidence:  model.Round2(decimal.NewFromFloat(confidence)),
		Issues:      issues,
	}
	if len(issues) > 0 {
		out.Recommendations = recommendations
	}
	return out, nil
}

// PredictPrice は基準価格に季節・需要係数を掛けた提案価格を返す。
func (a *MockAdvisor) PredictPrice(ctx context.Context, in PriceInput) (PricePrediction, error) {
	if err := ctx.Err(); err != nil {
		return PricePrediction{}, err
	}

	base := in.Price
	if base.Sign() <= 0 {
		base = decimal.NewFromInt(100)
	}

	a.mu.Lock()
	seasonal := 0.8 + a.rnd.Float64()*0.4
	demand := 0.9 + a.rnd.Float64()*0.4
	confidence := 0.7 + a.rnd.Float64()*0.2
	demandUp := a.rnd.Float64() > 0.5
	supplyStable := a.rnd.Float64() > 0.5
	a.mu.Unlock()

	suggested := model.Round2(base.
		Mul(decimal.NewFromFloat(seasonal)).
		Mul(decimal.NewFromFloat(demand)))

	demandTrend := "stable"
	if demandUp {
		demandTrend = "increasing"
	}
	supplyTrend := "decreasing"
	if supplyStable {
		supplyTrend = "stable"
	}

	return PricePrediction{
		SuggestedPrice: suggested,
		Confidence:     model.Round2(decimal.NewFromFloat(confidence)),
		DemandTrend:    demandTrend,
		SupplyTrend:    supplyTrend,
		PriceMin:       model.Round2(suggested.Mul(decimal.RequireFromString("0.9"))),
		PriceMax:       model.Round2(suggested.Mul(decimal.RequireFromString("1.1"))),
	}, nil
}

var seasons = []string{"Kharif", "Rabi", "Zaid"}

var cropsBySeason = map[string][]string{
	"Kharif": {"Rice", "Maize", "Soybean", "Cotton"},
	"Rabi":   {"Wheat", "Mustard", "Chickpea", "Barley"},
	"Zaid":   {"Watermelon", "Muskmelon", "Cucumber", "Vegetables"},
}

// SuggestCrops はシーズンと天候を乱数で決めて推奨作物を返す。
func (a *MockAdvisor) SuggestCrops(ctx context.Context, location string) (CropSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return CropSuggestion{}, err
	}

	a.mu.Lock()
	season := seasons[a.rnd.Intn(len(seasons))]
	rainAdequate := a.rnd.Float64() > 0.5
	tempMin := 15 + a.rnd.Intn(10)
	tempMax := 25 + a.rnd.Intn(10)
	humidity := 40 + a.rnd.Intn(40)
	ph := 6.0 + a.rnd.Float64()*1.5
	a.mu.Unlock()

	rainfall := "moderate"
	if rainAdequate {
		rainfall = "adequate"
	}

	return CropSuggestion{
		Season:         season,
		SuggestedCrops: cropsBySeason[season],
		WeatherForecast: WeatherForecast{
			Rainfall: rainfall,
			TempMin:  tempMin,
			TempMax:  tempMax,
			Humidity: humidity,
		},
		SoilConditions: SoilConditions{
			Moisture: "optimal",
			PH:       decimal.NewFromFloat(ph).Round(1),
		},
	}, nil
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
