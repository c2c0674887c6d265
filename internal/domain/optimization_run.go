package domain

import "time"

type RunStatus string

const (
	RunStatusQueued  RunStatus = "queued"
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusFailed  RunStatus = "failed"
)

// RunDelegation: 已保存的优化结果中的一次出差，城市名与距离都做了快照
type RunDelegation struct {
	Position        int     `json:"position"`
	StartName       string  `json:"startName"`
	EndName         string  `json:"endName"`
	Kilometres      float64 `json:"kilometres"`
	DurationSeconds int     `json:"durationSeconds"`
	Days            int     `json:"days"`
	MealsReduction  int     `json:"mealsReduction"`
	Cost            float64 `json:"cost"`
}

type OptimizationRun struct {
	ID           string          `json:"id"`
	TargetCost   float64         `json:"targetCost"`
	TimeBudgetMS int64           `json:"timeBudgetMS"`
	Epsilon      float64         `json:"epsilon"`
	MaxMeals     int             `json:"maxMeals"`
	Seed         int64           `json:"seed"`
	NotifyEmail  string          `json:"notifyEmail"`
	Status       RunStatus       `json:"status"`
	Outcome      string          `json:"outcome"` // converged, timed_out, trivial, cancelled
	BestFitness  *float64        `json:"bestFitness"`
	TotalCost    *float64        `json:"totalCost"`
	Generations  int             `json:"generations"`
	ElapsedMS    int64           `json:"elapsedMS"`
	ErrorMessage string          `json:"errorMessage"`
	Delegations  []RunDelegation `json:"delegations"`
	CreatedAt    time.Time       `json:"createdAt"`
	FinishedAt   *time.Time      `json:"finishedAt"`
}

// OptimizationMessage: 投递到任务队列中的消息
type OptimizationMessage struct {
	RunID string `json:"runID"`
}
