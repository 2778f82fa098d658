/*
 * @module service/init
 * @description 服务初始化模块：指标存储选择、监控与看板、管道编排、事件与调度器的装配
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 应用启动 -> 存储初始化 -> 服务装配 -> 调度器启动
 * @rules 设置DATABASE_URL/DB_HOST时指标入库，否则落JSON文件目录；
 *        Redis不可用退化为无锁单实例；初始化失败仅存储层致命，其余降级
 * @dependencies gorm.io/driver/postgres, gorm.io/gorm
 * @refs api/routes.go, main.go
 */

package service

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civicdata-service/client"
	"civicdata-service/logger"
	"civicdata-service/service/distributed_lock"
	"civicdata-service/service/event"
	"civicdata-service/service/monitoring"
	"civicdata-service/service/pipeline"
	"civicdata-service/service/scheduler"
)

var (
	DB                     *gorm.DB
	GlobalMetricsStore     monitoring.MetricsStore
	GlobalMonitor          *monitoring.Monitor
	GlobalDashboard        *monitoring.Dashboard
	GlobalEventService     *event.EventService
	GlobalPipelineService  *pipeline.Service
	GlobalSchedulerService *scheduler.SchedulerService
)

func init() {
	logger.InitLogger()
	initMetricsStore()
	initServices()
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// initMetricsStore 初始化指标存储：配置了数据库用GORM存储，否则用文件存储
func initMetricsStore() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" && os.Getenv("DB_HOST") != "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			getEnvWithDefault("DB_HOST", "localhost"),
			getEnvWithDefault("DB_PORT", "5432"),
			getEnvWithDefault("DB_USER", "postgres"),
			getEnvWithDefault("DB_PASSWORD", "postgres"),
			getEnvWithDefault("DB_NAME", "civicdata"),
			getEnvWithDefault("DB_SSLMODE", "disable"),
			getEnvWithDefault("DB_SCHEMA", "public"))
	}

	if dsn != "" {
		var err error
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		store, err := monitoring.NewGormMetricsStore(DB)
		if err != nil {
			log.Fatalf("初始化数据库指标存储失败: %v", err)
		}
		GlobalMetricsStore = store
		log.Println("指标存储: 数据库")
		return
	}

	dir := getEnvWithDefault("MONITORING_DIR", "data/monitoring")
	store, err := monitoring.NewFileMetricsStore(dir)
	if err != nil {
		log.Fatalf("初始化文件指标存储失败: %v", err)
	}
	GlobalMetricsStore = store
	log.Printf("指标存储: 文件目录 %s", dir)
}

// initServices 装配监控、管道、事件与调度器
func initServices() {
	GlobalMonitor = monitoring.NewMonitor(GlobalMetricsStore)
	GlobalDashboard = monitoring.NewDashboard(GlobalMetricsStore)
	GlobalEventService = event.NewEventService()

	writer, err := client.NewCSVSheetWriter(getEnvWithDefault("OUTPUT_DIR", "data/output"))
	if err != nil {
		log.Printf("初始化下游写入器失败，落地阶段将被跳过: %v", err)
	}

	GlobalPipelineService = pipeline.NewService(
		newDefaultFetcher(),
		sheetWriterOrNil(writer, err),
		GlobalMonitor,
		GlobalEventService,
		pipeline.EngineModeFromEnv(),
	)

	var lock distributed_lock.DistributedLock
	if redisLock, lockErr := distributed_lock.NewRedisLock(); lockErr != nil {
		log.Printf("Redis分布式锁不可用，调度退化为无锁模式: %v", lockErr)
	} else {
		lock = redisLock
	}

	GlobalSchedulerService = scheduler.NewSchedulerService(
		GlobalPipelineService, GlobalDashboard, GlobalEventService, lock)
	if err := GlobalSchedulerService.Start(); err != nil {
		log.Printf("启动调度器失败: %v", err)
	}

	log.Println("服务初始化完成")
}

func sheetWriterOrNil(w *client.CSVSheetWriter, err error) client.SheetWriter {
	if err != nil {
		return nil
	}
	return w
}
