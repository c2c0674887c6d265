package report

import (
	"io"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	DelegationsSheet = "Delegations"
	RunSheet         = "Run"
)

var delegationHeaders = []any{"#", "Start", "End", "Kilometres", "Travel time (min)", "Days", "Meals", "Cost"}

// NewWorkbook 生成包含出差明细与运行参数两个工作表的表格
func NewWorkbook(run *domain.OptimizationRun) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", DelegationsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(DelegationsSheet, "A1", &delegationHeaders); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range run.Delegations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{r.Position, r.StartName, r.EndName, r.Kilometres, r.DurationSeconds / 60, r.Days, r.MealsReduction, r.Cost}
		if err := f.SetSheetRow(DelegationsSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(7, len(run.Delegations)+2)
	if err != nil {
		f.Close()
		return nil, err
	}
	totalRow := []any{"TOTAL", Total(run.Delegations)}
	if err := f.SetSheetRow(DelegationsSheet, totalCell, &totalRow); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(RunSheet); err != nil {
		f.Close()
		return nil, err
	}
	params := [][]any{
		{"ID", run.ID},
		{"Target cost", run.TargetCost},
		{"Time budget (ms)", run.TimeBudgetMS},
		{"Epsilon", run.Epsilon},
		{"Max meals", run.MaxMeals},
		{"Seed", run.Seed},
		{"Outcome", run.Outcome},
		{"Generations", run.Generations},
		{"Elapsed (ms)", run.ElapsedMS},
	}
	if run.BestFitness != nil {
		params = append(params, []any{"Fitness", *run.BestFitness})
	}
	for i, row := range params {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(RunSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	return f, nil
}

func WriteXLSX(w io.Writer, run *domain.OptimizationRun) error {
	f, err := NewWorkbook(run)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func SaveXLSX(path string, run *domain.OptimizationRun) error {
	f, err := NewWorkbook(run)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.SaveAs(path)
}
