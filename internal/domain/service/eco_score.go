package service

import (
	"math"

	"github.com/shopspring/decimal"

	"ecosprout/internal/domain/entity"
)

var (
	categoryBase = map[string]float64{
		entity.CategoryElectronics: 8.5,
		entity.CategoryFurniture:   7.0,
		entity.CategoryClothing:    6.5,
		entity.CategoryBooks:       5.0,
		entity.CategorySports:      6.0,
		entity.CategoryHome:        7.5,
		entity.CategoryOther:       5.5,
	}
	conditionMultiplier = map[string]float64{
		entity.ConditionExcellent: 1.0,
		entity.ConditionGood:      0.9,
		entity.ConditionFair:      0.7,
		entity.ConditionPoor:      0.5,
	}
)

const (
	defaultBase       = 5.0
	defaultMultiplier = 0.5

	co2PerPoint   = 5.2
	waterPerPoint = 12.8
)

type EcoResult struct {
	Score  float64
	Impact entity.EcoImpact
}

// ComputeEco derives the eco score and impact estimate. Products are taken in
// binary floating point and rounded half up to one decimal, so electronics in
// fair condition (8.5 x 0.7 = 5.9499...) scores 5.9. The impact is derived from
// the rounded score.
func ComputeEco(category, condition string) EcoResult {
	base, ok := categoryBase[category]
	if !ok {
		base = defaultBase
	}
	mult, ok := conditionMultiplier[condition]
	if !ok {
		mult = defaultMultiplier
	}

	score := roundTenth(float64(base * mult))
	return EcoResult{
		Score: score,
		Impact: entity.EcoImpact{
			CO2Saved:   roundTenth(float64(score * co2PerPoint)),
			WaterSaved: roundTenth(float64(score * waterPerPoint)),
		},
	}
}

// roundTenth rounds half up to one decimal. The explicit conversions keep the
// compiler from fusing the multiply and add.
func roundTenth(v float64) float64 {
	return math.Floor(float64(v*10)+0.5) / 10
}

// ApplyEco stamps the derived fields onto item.
func ApplyEco(item *entity.Item) {
	eco := ComputeEco(item.Category, item.Condition)
	item.EcoScore = eco.Score
	item.EcoImpact = eco.Impact
}

// AddRounded sums two one-decimal quantities without float drift.
func AddRounded(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(1).InexactFloat64()
}
