package domain

import "time"

type City struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Distance: 数据库中存储的一条城市间距离
type Distance struct {
	StartCityID     int64   `json:"startCityID"`
	EndCityID       int64   `json:"endCityID"`
	Kilometres      float64 `json:"kilometres"`
	DurationSeconds int     `json:"durationSeconds"`
}
