package seed

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

//go:embed data/wroclaw.csv
var builtinCSV string

// BuiltinTable 返回从 Wroclaw 出发到 21 个波兰城市的 1×22 距离表
func BuiltinTable() *domain.DistanceTable {
	table, err := LoadCSV(strings.NewReader(builtinCSV))
	if err != nil {
		panic(fmt.Sprintf("内置距离表损坏: %v", err))
	}
	return table
}

const (
	columnStart      = "start"
	columnEnd        = "end"
	columnKilometres = "kilometres"
	columnDuration   = "duration_seconds"
)

func LoadCSV(r io.Reader) (*domain.DistanceTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 失败: %w", err)
	}

	return tableFromRows(rows)
}

func LoadCSVFile(path string) (*domain.DistanceTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSV(file)
}

// LoadXLSX 读取工作簿的第一个工作表，列与 CSV 相同
func LoadXLSX(r io.Reader) (*domain.DistanceTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()

	return tableFromWorkbook(f)
}

func LoadXLSXFile(path string) (*domain.DistanceTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()

	return tableFromWorkbook(f)
}

func tableFromWorkbook(f *excelize.File) (*domain.DistanceTable, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("工作簿中没有工作表")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表 %s 失败: %w", sheets[0], err)
	}

	return tableFromRows(rows)
}

// tableFromRows 根据表头定位各列，起点按首次出现的顺序排列
// 终点列先按起点的顺序排列，使同一城市的行列下标一致，其余终点按首次出现的顺序追加
func tableFromRows(rows [][]string) (*domain.DistanceTable, error) {
	if len(rows) == 0 {
		return nil, errors.New("没有找到表头")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range []string{columnStart, columnEnd, columnKilometres} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("没有找到 %s 列", name)
		}
	}
	durationColumn, hasDuration := columns[columnDuration]

	type entry struct {
		start, end string
		km         float64
		seconds    int
	}

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var entries []entry
	startIndex := map[string]int{}
	starts, endOrder := []string{}, []string{}
	seen := map[[2]string]bool{}
	seenEnd := map[string]bool{}

	for n, row := range rows[1:] {
		line := n + 2
		start, end := cell(row, columns[columnStart]), cell(row, columns[columnEnd])
		if start == "" && end == "" {
			continue
		}
		if start == "" || end == "" {
			return nil, fmt.Errorf("第 %d 行缺少起点或终点", line)
		}

		km, err := strconv.ParseFloat(cell(row, columns[columnKilometres]), 64)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行公里数非法: %w", line, err)
		}

		seconds := 0
		if hasDuration {
			if raw := cell(row, durationColumn); raw != "" {
				seconds, err = strconv.Atoi(raw)
				if err != nil {
					return nil, fmt.Errorf("第 %d 行行程时长非法: %w", line, err)
				}
			}
		}

		key := [2]string{start, end}
		if seen[key] {
			return nil, fmt.Errorf("第 %d 行与之前的 %s -> %s 重复", line, start, end)
		}
		seen[key] = true

		if _, ok := startIndex[start]; !ok {
			startIndex[start] = len(starts)
			starts = append(starts, start)
		}
		if !seenEnd[end] {
			seenEnd[end] = true
			endOrder = append(endOrder, end)
		}
		entries = append(entries, entry{start, end, km, seconds})
	}

	if len(entries) == 0 {
		return nil, errors.New("距离表为空")
	}

	ends := slices.Clone(starts)
	for _, end := range endOrder {
		if _, ok := startIndex[end]; !ok {
			ends = append(ends, end)
		}
	}
	endIndex := make(map[string]int, len(ends))
	for j, end := range ends {
		endIndex[end] = j
	}

	table := &domain.DistanceTable{
		Starts:     starts,
		Ends:       ends,
		Kilometres: make([][]float64, len(starts)),
	}
	for i := range starts {
		table.Kilometres[i] = make([]float64, len(ends))
	}
	if hasDuration {
		table.Durations = make([][]int, len(starts))
		for i := range starts {
			table.Durations[i] = make([]int, len(ends))
		}
	}

	for _, e := range entries {
		i, j := startIndex[e.start], endIndex[e.end]
		table.Kilometres[i][j] = e.km
		if hasDuration {
			table.Durations[i][j] = e.seconds
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	return table, nil
}
