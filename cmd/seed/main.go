package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/seed"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var jobID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机申请人, 2: 插入随机职位, 3: 插入随机申请, 4: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&jobID, "job-id", 0, "随机插入申请时的目标职位 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
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

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的申请人数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				applicant, err := utils.GenerateRandomApplicant(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
				if err != nil {
					slog.Error("无法生成随机申请人", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(applicant); err != nil {
					slog.Error("无法插入申请人", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入申请人成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的职位数量")
		} else {
			// 随机职位挂在已有的 HR 或管理员名下
			creators, _, err := repo.GetAllUsers(domain.RoleHR, 1, 100)
			if err != nil {
				slog.Error("无法获取 HR 列表", slog.String("error", err.Error()))
				return
			}
			if len(creators) == 0 {
				slog.Error("数据库中没有 HR，请先插入演示数据或手动创建")
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				creator := creators[rand.Intn(len(creators))]

				job := utils.GenerateRandomJob(creator.ID)
				if err := repo.CreateJob(job); err != nil {
					slog.Error("无法插入职位", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入职位成功", slog.Int("count", n-cnt))
		}
	case 3:
		if jobID <= 0 {
			slog.Error("请输入合法的职位 ID")
			return
		}

		// 获取对应的职位
		job, err := repo.GetJobByID(jobID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的职位不存在", slog.Int64("job_id", jobID))
			default:
				slog.Error("无法获取职位", slog.String("error", err.Error()))
			}
			return
		}

		// 获取所有的申请人
		applicants, _, err := repo.GetAllUsers(domain.RoleApplicant, 1, 100)
		if err != nil {
			slog.Error("无法获取申请人列表", slog.String("error", err.Error()))
			return
		}

		// 为每一个申请人都生成一份申请并插入
		cnt := 0
		for _, applicant := range applicants {
			app := utils.GenerateRandomApplication(job.ID, applicant.ID)
			if err := repo.CreateApplication(app); err != nil {
				slog.Error("无法插入申请", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入申请成功", slog.Int("count", cnt))
	case 4:
		seed.SeedDemoData(cfg, repo)
	default:
		slog.Error("指定的操作非法")
	}
}
