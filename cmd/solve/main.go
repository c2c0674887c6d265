package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/history"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/report"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/seed"
)

const usage = `用法: solve [选项] TARGET TIME_MS EPSILON [MAX_MEALS]
       solve -history runs.db -list 10

`

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置
	 **********************************************/
	cfg, err := config.LoadOptimizerConfig()
	if err != nil {
		logger.Error("无法读取配置", "error", err)
		os.Exit(1)
	}

	var (
		seedValue   int64
		csvPath     string
		xlsxPath    string
		reportPath  string
		historyPath string
		generations int
		list        int
	)

	flag.Int64Var(&seedValue, "seed", cfg.Seed, "随机数种子，0 表示使用当前时间")
	flag.StringVar(&csvPath, "csv", "", "从 CSV 文件读取距离表 (start,end,kilometres,duration_seconds)")
	flag.StringVar(&xlsxPath, "xlsx-table", "", "从 XLSX 文件的第一个工作表读取距离表")
	flag.StringVar(&reportPath, "report", "", "将结果保存为 XLSX 报表")
	flag.StringVar(&historyPath, "history", "", "将运行记录保存到 SQLite 文件")
	flag.IntVar(&generations, "generations", cfg.MaxGenerations, "最大迭代次数，0 表示不限制")
	flag.IntVar(&list, "list", 0, "列出最近的 N 条运行记录后退出，需要同时指定 -history")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if list > 0 {
		if err := listHistory(historyPath, list); err != nil {
			logger.Error("无法读取运行记录", "error", err)
			os.Exit(1)
		}
		return
	}

	/**********************************************
	 * 解析参数
	 **********************************************/
	args := flag.Args()
	if len(args) < 3 || len(args) > 4 {
		flag.Usage()
		os.Exit(1)
	}

	targetCost, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		logger.Error("目标费用不是合法的数字", "value", args[0])
		os.Exit(1)
	}
	timeBudgetMS, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		logger.Error("时间预算不是合法的整数", "value", args[1])
		os.Exit(1)
	}
	epsilon, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		logger.Error("收敛阈值不是合法的数字", "value", args[2])
		os.Exit(1)
	}
	maxMeals := cfg.MaxMeals
	if len(args) == 4 {
		maxMeals, err = strconv.Atoi(args[3])
		if err != nil {
			logger.Error("最大扣餐数不是合法的整数", "value", args[3])
			os.Exit(1)
		}
	}

	/**********************************************
	 * 读取距离表
	 **********************************************/
	var table *domain.DistanceTable
	switch {
	case csvPath != "" && xlsxPath != "":
		logger.Error("-csv 与 -xlsx-table 不能同时指定")
		os.Exit(1)
	case csvPath != "":
		table, err = seed.LoadCSVFile(csvPath)
	case xlsxPath != "":
		table, err = seed.LoadXLSXFile(xlsxPath)
	default:
		table = seed.BuiltinTable()
	}
	if err != nil {
		logger.Error("无法读取距离表", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * 运行优化器
	 **********************************************/
	params := optimizer.Parameters{
		TargetCost:     targetCost,
		TimeBudget:     time.Duration(timeBudgetMS) * time.Millisecond,
		Epsilon:        epsilon,
		MaxMeals:       maxMeals,
		MaxGenerations: generations,
	}
	pricing := cfg.PricingTable()

	// CTRL+C 会提前结束优化并输出当前最好的结果
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := optimizer.Solve(ctx, table, pricing, params, seedValue)
	if err != nil {
		logger.Error("优化失败", "error", err)
		os.Exit(1)
	}

	run := &domain.OptimizationRun{
		ID:           uuid.New().String(),
		TargetCost:   targetCost,
		TimeBudgetMS: timeBudgetMS,
		Epsilon:      epsilon,
		MaxMeals:     maxMeals,
		Seed:         seedValue,
		CreatedAt:    time.Now(),
	}
	report.ApplyResult(run, res, pricing)

	if err := report.WriteText(os.Stdout, run.Delegations); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}
	logger.Info("优化结束", "outcome", res.Status, "fitness", res.Fitness, "generations", res.Generations, "elapsed", res.Elapsed)

	/**********************************************
	 * 保存报表与运行记录
	 **********************************************/
	if reportPath != "" {
		if err := report.SaveXLSX(reportPath, run); err != nil {
			logger.Error("无法保存报表", "path", reportPath, "error", err)
			os.Exit(1)
		}
		logger.Info("报表已保存", "path", reportPath)
	}

	if historyPath != "" {
		store, err := history.Open(historyPath)
		if err != nil {
			logger.Error("无法打开运行记录", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Record(context.Background(), run); err != nil {
			logger.Error("无法保存运行记录", "error", err)
			os.Exit(1)
		}
		logger.Info("运行记录已保存", "id", run.ID)
	}
}

func listHistory(path string, limit int) error {
	if path == "" {
		return fmt.Errorf("没有指定 -history")
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	for _, run := range runs {
		total := 0.0
		if run.TotalCost != nil {
			total = *run.TotalCost
		}
		fmt.Printf("%s  %s  target: %.2f; total: %.2f; outcome: %s; generations: %d\n",
			run.CreatedAt.Format(time.DateTime), run.ID, run.TargetCost, total, run.Outcome, run.Generations)
	}

	return nil
}
