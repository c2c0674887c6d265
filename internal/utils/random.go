package utils

import (
	"math"
	"math/rand"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

var commonCityPrefixes = []string{
	"东", "西", "南", "北", "中", "新", "上", "下", "长", "安",
	"青", "白", "金", "石", "平", "清", "龙", "凤", "宁", "永",
}
var commonCitySuffixes = []string{
	"阳", "州", "山", "江", "河", "海", "城", "口", "林", "川",
	"原", "湖", "岭", "水", "沙", "溪", "泉", "关", "门", "港",
}

func GenerateRandomCityName(rng *rand.Rand) string {
	return commonCityPrefixes[rng.Intn(len(commonCityPrefixes))] + commonCitySuffixes[rng.Intn(len(commonCitySuffixes))]
}

// GenerateRandomCityNames 生成 n 个互不相同的城市名，名字耗尽时返回的数量可能少于 n
func GenerateRandomCityNames(rng *rand.Rand, n int) []string {
	maxNames := len(commonCityPrefixes) * len(commonCitySuffixes)
	n = min(n, maxNames)

	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)
	for len(names) < n {
		name := GenerateRandomCityName(rng)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// GenerateRandomDistanceTable 生成对称的距离矩阵，平均车速约为 60-90 km/h
func GenerateRandomDistanceTable(rng *rand.Rand, cities []string) *domain.DistanceTable {
	n := len(cities)
	table := &domain.DistanceTable{
		Starts:     cities,
		Ends:       cities,
		Kilometres: make([][]float64, n),
		Durations:  make([][]int, n),
	}
	for i := range n {
		table.Kilometres[i] = make([]float64, n)
		table.Durations[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := math.Round((20+rng.Float64()*580)*10) / 10
			speed := 60 + rng.Float64()*30
			seconds := int(km / speed * 3600)

			table.Kilometres[i][j], table.Kilometres[j][i] = km, km
			table.Durations[i][j], table.Durations[j][i] = seconds, seconds
		}
	}

	return table
}
