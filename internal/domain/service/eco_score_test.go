package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecosprout/internal/domain/entity"
)

func TestComputeEco_AllCombinations(t *testing.T) {
	expected := map[string][4]float64{
		entity.CategoryElectronics: {8.5, 7.7, 5.9, 4.3},
		entity.CategoryFurniture:   {7.0, 6.3, 4.9, 3.5},
		entity.CategoryClothing:    {6.5, 5.9, 4.6, 3.3},
		entity.CategoryBooks:       {5.0, 4.5, 3.5, 2.5},
		entity.CategorySports:      {6.0, 5.4, 4.2, 3.0},
		entity.CategoryHome:        {7.5, 6.8, 5.3, 3.8},
		entity.CategoryOther:       {5.5, 5.0, 3.9, 2.8},
	}
	conditions := []string{entity.ConditionExcellent, entity.ConditionGood, entity.ConditionFair, entity.ConditionPoor}

	for category, scores := range expected {
		for i, condition := range conditions {
			t.Run(category+"/"+condition, func(t *testing.T) {
				eco := ComputeEco(category, condition)
				assert.Equal(t, scores[i], eco.Score)
			})
		}
	}
}

func TestComputeEco_UnknownInputs(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		condition string
		want      float64
	}{
		{"unknown category", "vehicles", entity.ConditionExcellent, 5.0},
		{"unknown condition", entity.CategoryElectronics, "mint", 4.3},
		{"both unknown", "", "", 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeEco(tt.category, tt.condition).Score)
		})
	}
}

func TestComputeEco_ImpactDerivedFromRoundedScore(t *testing.T) {
	tests := []struct {
		category, condition string
		co2, water          float64
	}{
		{entity.CategoryElectronics, entity.ConditionExcellent, 44.2, 108.8},
		{entity.CategoryElectronics, entity.ConditionGood, 40.0, 98.6},
		{entity.CategoryElectronics, entity.ConditionFair, 30.7, 75.5},
		{entity.CategorySports, entity.ConditionExcellent, 31.2, 76.8},
		{entity.CategoryClothing, entity.ConditionPoor, 17.2, 42.2},
		{entity.CategoryOther, entity.ConditionGood, 26.0, 64.0},
		{entity.CategoryBooks, entity.ConditionPoor, 13.0, 32.0},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.condition, func(t *testing.T) {
			eco := ComputeEco(tt.category, tt.condition)
			assert.Equal(t, tt.co2, eco.Impact.CO2Saved)
			assert.Equal(t, tt.water, eco.Impact.WaterSaved)
		})
	}
}

// 8.5 x 0.7 is just below 5.95 as a double, so it rounds down.
func TestComputeEco_BinaryTieRoundsDown(t *testing.T) {
	eco := ComputeEco(entity.CategoryElectronics, entity.ConditionFair)
	assert.Equal(t, 5.9, eco.Score)
	assert.Equal(t, 30.7, eco.Impact.CO2Saved)
	assert.Equal(t, 75.5, eco.Impact.WaterSaved)
}

func TestApplyEco(t *testing.T) {
	item := &entity.Item{Category: entity.CategoryHome, Condition: entity.ConditionFair}
	ApplyEco(item)

	assert.Equal(t, 5.3, item.EcoScore)
	assert.Equal(t, 27.6, item.EcoImpact.CO2Saved)
	assert.Equal(t, 67.8, item.EcoImpact.WaterSaved)
}

func TestAddRounded(t *testing.T) {
	assert.Equal(t, 0.3, AddRounded(0.1, 0.2))
	assert.Equal(t, 152.4, AddRounded(44.2, 108.2))
}
