package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/seed"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var file string
	var randomSeed int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入内置距离表, 2: 插入 CSV 距离表, 3: 插入 XLSX 距离表, 4: 插入随机距离表, 5: 插入默认价格表)")
	flag.IntVar(&n, "n", 10, "随机距离表中的城市数量")
	flag.StringVar(&file, "file", "", "CSV 或 XLSX 文件路径")
	flag.Int64Var(&randomSeed, "seed", 0, "随机距离表使用的随机数种子，0 表示使用当前时间")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", "error", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.InitSchema(); err != nil {
		logger.Error("无法初始化数据库表结构", "error", err)
		return
	}

	// 执行操作
	var table *domain.DistanceTable
	switch op {
	case 0:
		logger.Error("未指定操作")
		return
	case 1:
		table = seed.BuiltinTable()
	case 2:
		if file == "" {
			logger.Error("请通过 -file 指定 CSV 文件")
			return
		}
		table, err = seed.LoadCSVFile(file)
	case 3:
		if file == "" {
			logger.Error("请通过 -file 指定 XLSX 文件")
			return
		}
		table, err = seed.LoadXLSXFile(file)
	case 4:
		if n < 2 {
			logger.Error("随机距离表至少需要两个城市")
			return
		}
		rng := optimizer.NewRand(randomSeed)
		table = utils.GenerateRandomDistanceTable(rng, utils.GenerateRandomCityNames(rng, n))
	case 5:
		if err := seed.SeedPricing(repo, cfg.Optimizer.PricingTable()); err != nil {
			logger.Error("无法插入价格表", "error", err)
			return
		}
		logger.Info("插入价格表成功")
		return
	default:
		logger.Error("指定的操作非法")
		return
	}
	if err != nil {
		logger.Error("无法读取距离表", "error", err)
		return
	}

	count, err := seed.SeedTable(repo, table)
	if err != nil {
		logger.Error("无法插入距离表", "error", err)
		return
	}

	logger.Info("插入距离表成功", "cities", len(table.Ends), "distances", count)
}
