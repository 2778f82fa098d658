/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"civicdata-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 管道管理
	r.Route("/pipeline", func(r chi.Router) {
		pipelineController := controllers.NewPipelineController()

		// 数据集列表
		r.Get("/datasets", pipelineController.ListDatasets)

		// 手动触发执行
		r.Post("/run/{dataset}", pipelineController.TriggerRun)

		// 执行记录查询
		r.Route("/executions", func(r chi.Router) {
			r.Get("/", pipelineController.ListExecutions)
			r.Get("/{id}", pipelineController.GetExecution)
		})
	})

	// 数据质量
	r.Route("/quality", func(r chi.Router) {
		qualityController := controllers.NewQualityController()
		r.Get("/scores", qualityController.ListScores)
		r.Get("/scores/recent", qualityController.RecentScores)
	})

	// 监控看板
	r.Route("/dashboard", func(r chi.Router) {
		dashboardController := controllers.NewDashboardController()
		r.Get("/alerts", dashboardController.CheckAlerts)
		r.Get("/health-report", dashboardController.HealthReport)
		r.Get("/metrics/export", dashboardController.ExportMetrics)
		r.Get("/emergency/health", dashboardController.EmergencyHealth)
	})
}
