/*
 * @module service/scheduler/scheduler_service
 * @description 管道定时调度器：按cron表达式顺序跑全部数据集，Redis锁防多实例重复执行，
 *              每轮结束后评估告警并发布事件
 * @architecture 基于cron的调度器模式
 * @documentReference dev_docs/scheduler.md
 * @stateFlow cron触发 -> 抢分布式锁 -> 逐数据集执行管道 -> 告警评估 -> 释放锁
 * @rules 数据集顺序执行；单数据集失败不中断本轮其余数据集；
 *        抢锁失败说明其他实例在跑，本轮静默跳过；Redis不可用时退化为无锁单实例模式
 * @dependencies github.com/robfig/cron/v3
 * @refs service/pipeline, service/distributed_lock, service/monitoring
 */

package scheduler

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"civicdata-service/service/distributed_lock"
	"civicdata-service/service/event"
	"civicdata-service/service/models"
	"civicdata-service/service/monitoring"
	"civicdata-service/service/pipeline"
	"civicdata-service/service/schema"
)

const (
	// defaultCronSpec 默认每天凌晨2点(带秒字段)
	defaultCronSpec = "0 0 2 * * *"
	runLockKey      = "pipeline_run"
	runLockTTL      = 30 * time.Minute
)

// SchedulerService 管道调度器
type SchedulerService struct {
	pipeline  *pipeline.Service
	dashboard *monitoring.Dashboard
	events    event.Publisher
	lock      distributed_lock.DistributedLock
	cron      *cron.Cron
	cronSpec  string
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewSchedulerService 创建调度器。lock可为nil(单实例部署)
func NewSchedulerService(p *pipeline.Service, dashboard *monitoring.Dashboard,
	events event.Publisher, lock distributed_lock.DistributedLock) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())
	spec := os.Getenv("SCHEDULE_CRON")
	if spec == "" {
		spec = defaultCronSpec
	}
	return &SchedulerService{
		pipeline:  p,
		dashboard: dashboard,
		events:    events,
		lock:      lock,
		cron:      cron.New(cron.WithSeconds()),
		cronSpec:  spec,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start 注册cron任务并启动调度
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.cronSpec, s.runCycle); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("管道调度器已启动", "cron", s.cronSpec)
	return nil
}

// Stop 停止调度器
func (s *SchedulerService) Stop() {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	slog.Info("管道调度器已停止")
}

// runCycle 一轮调度：抢锁后顺序处理全部数据集，结束后评估告警
func (s *SchedulerService) runCycle() {
	ctx, cancel := context.WithTimeout(s.ctx, runLockTTL)
	defer cancel()

	if s.lock != nil {
		acquired, err := s.lock.TryLock(ctx, runLockKey, runLockTTL)
		if err != nil {
			slog.Warn("抢锁失败，本轮以无锁模式继续", "error", err)
		} else if !acquired {
			slog.Info("其他实例正在执行调度，本轮跳过")
			return
		} else {
			defer func() {
				if err := s.lock.Unlock(context.Background(), runLockKey); err != nil {
					slog.Warn("释放调度锁失败", "error", err)
				}
			}()
		}
	}

	s.RunAll(ctx)
}

// RunAll 顺序处理全部已注册数据集并评估告警
func (s *SchedulerService) RunAll(ctx context.Context) {
	for _, dataset := range schema.DatasetNames() {
		metrics, err := s.pipeline.RunDataset(ctx, dataset)
		if err != nil {
			slog.Error("数据集处理失败", "dataset", dataset, "error", err)
			continue
		}
		slog.Info("数据集处理完成",
			"dataset", dataset,
			"status", metrics.Status,
			"duration", metrics.DurationSeconds)
	}

	report, err := s.dashboard.CheckAlerts(24)
	if err != nil {
		slog.Error("告警评估失败", "error", err)
		return
	}
	if report.AlertStatus != models.AlertGreen && s.events != nil {
		s.events.PublishAlert(ctx, report)
	}
}
