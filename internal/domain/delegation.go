package domain

const (
	MinDays     = 1
	MaxDays     = 5
	MealsPerDay = 4
)

// Delegation: 一次出差，值类型，修改时总是返回新的值
type Delegation struct {
	Trip           *Trip `json:"trip"`
	Days           int   `json:"days"`
	MealsReduction int   `json:"mealsReduction"`
}

// MealsCeiling 返回某个天数下允许扣减的最大餐数
func MealsCeiling(days, maxMeals int) int {
	return max(0, min(maxMeals, MealsPerDay*days))
}

// clampDays 将天数限制在 [1, 5]，短途行程强制为 1 天
func clampDays(trip *Trip, days int) int {
	if trip.IsShort() {
		return MinDays
	}
	return min(max(days, MinDays), MaxDays)
}

func clampMeals(days, meals, maxMeals int) int {
	return min(max(meals, 0), MealsCeiling(days, maxMeals))
}

// NewDelegation 创建一次出差，天数与扣餐数按约束修正
func NewDelegation(trip *Trip, days, meals, maxMeals int) Delegation {
	d := clampDays(trip, days)
	return Delegation{
		Trip:           trip,
		Days:           d,
		MealsReduction: clampMeals(d, meals, maxMeals),
	}
}

func (d Delegation) WithDays(days, maxMeals int) Delegation {
	return NewDelegation(d.Trip, days, d.MealsReduction, maxMeals)
}

func (d Delegation) WithMeals(meals, maxMeals int) Delegation {
	return NewDelegation(d.Trip, d.Days, meals, maxMeals)
}

func (d Delegation) WithTrip(trip *Trip, maxMeals int) Delegation {
	return NewDelegation(trip, d.Days, d.MealsReduction, maxMeals)
}

// Cost = 2 * km * 每公里价格 + 天数 * 每日补贴 - 单晚扣减 - 扣餐数 * 每餐价格
func (d Delegation) Cost(p Pricing) float64 {
	return 2*d.Trip.Kilometres*p.PerKilometre +
		float64(d.Days)*p.PerDay -
		p.OneNightReduction -
		float64(d.MealsReduction)*p.PerMeal
}

// Valid 检查出差是否满足所有约束
func (d Delegation) Valid(maxMeals int) bool {
	if d.Trip == nil || d.Days < MinDays || d.Days > MaxDays {
		return false
	}
	if d.Trip.IsShort() && d.Days != MinDays {
		return false
	}
	return d.MealsReduction >= 0 && d.MealsReduction <= MealsCeiling(d.Days, maxMeals)
}
