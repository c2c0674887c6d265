package domain

import "time"

// 行程时长低于该值的出差只能持续一天
const ShortTripThreshold = 2 * time.Hour

// Trip: 两个城市之间的有向行程，由行程目录统一持有，不可修改
type Trip struct {
	Kilometres      float64 `json:"kilometres"`
	DurationSeconds int     `json:"durationSeconds"`
	StartIndex      int     `json:"startIndex"`
	EndIndex        int     `json:"endIndex"`
	StartName       string  `json:"startName"`
	EndName         string  `json:"endName"`
}

func (t *Trip) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// IsShort 判断单程时长是否不足 2 小时
func (t *Trip) IsShort() bool {
	return t.Duration() < ShortTripThreshold
}

// TripKey 按 (起点, 终点) 标识一条行程，方向不同视为不同的行程
type TripKey struct {
	Start int
	End   int
}

func (t *Trip) Key() TripKey {
	return TripKey{Start: t.StartIndex, End: t.EndIndex}
}
