package domain

import "time"

// Pricing: 报销价格表
type Pricing struct {
	PerKilometre      float64   `json:"perKilometre"`
	PerDay            float64   `json:"perDay"`
	OneNightReduction float64   `json:"oneNightReduction"`
	PerMeal           float64   `json:"perMeal"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int32     `json:"-"`
}
