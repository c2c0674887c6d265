package domain

import (
	"errors"
	"fmt"
)

// DistanceTable: 距离矩阵，每行对应一个出发城市，每列对应一个到达城市
// Durations 可以为空，单位为秒
type DistanceTable struct {
	Starts     []string    `json:"starts"`
	Ends       []string    `json:"ends"`
	Kilometres [][]float64 `json:"kilometres"`
	Durations  [][]int     `json:"durations"`
}

func (t *DistanceTable) Validate() error {
	if len(t.Starts) == 0 || len(t.Ends) == 0 {
		return errors.New("出发城市与到达城市不能为空")
	}
	if len(t.Kilometres) != len(t.Starts) {
		return fmt.Errorf("距离矩阵行数 %d 与出发城市数量 %d 不一致", len(t.Kilometres), len(t.Starts))
	}
	for i, row := range t.Kilometres {
		if len(row) != len(t.Ends) {
			return fmt.Errorf("距离矩阵第 %d 行列数 %d 与到达城市数量 %d 不一致", i, len(row), len(t.Ends))
		}
	}

	if t.Durations == nil {
		return nil
	}
	if len(t.Durations) != len(t.Starts) {
		return fmt.Errorf("时长矩阵行数 %d 与出发城市数量 %d 不一致", len(t.Durations), len(t.Starts))
	}
	for i, row := range t.Durations {
		if len(row) != len(t.Ends) {
			return fmt.Errorf("时长矩阵第 %d 行列数 %d 与到达城市数量 %d 不一致", i, len(row), len(t.Ends))
		}
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("时长矩阵 (%d, %d) 不能为负数", i, j)
			}
		}
	}

	return nil
}

// Duration 返回 (i, j) 的行程时长，没有时长矩阵时为 0
func (t *DistanceTable) Duration(i, j int) int {
	if t.Durations == nil {
		return 0
	}
	return t.Durations[i][j]
}
