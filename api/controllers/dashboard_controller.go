/*
 * @module api/controllers/dashboard_controller
 * @description 监控看板控制器：告警检查、健康报告、指标导出与应急通道健康
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/api.md
 * @stateFlow 请求接收 -> 看板服务聚合 -> JSON/文本/CSV响应
 * @rules CSV导出使用流式写出，不在内存中拼接完整文件
 * @dependencies net/http
 * @refs service/monitoring, service/emergency
 */

package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"civicdata-service/service"
)

// DashboardController 监控看板控制器
type DashboardController struct{}

// NewDashboardController 创建监控看板控制器实例
func NewDashboardController() *DashboardController {
	return &DashboardController{}
}

// CheckAlerts 检查告警状态
// @Summary 检查告警
// @Description 基于时间窗内的执行指标生成告警报告
// @Tags 监控看板
// @Produce json
// @Param hours query int false "回看小时数" default(24)
// @Success 200 {object} APIResponse{data=models.AlertReport}
// @Failure 500 {object} APIResponse
// @Router /dashboard/alerts [get]
func (c *DashboardController) CheckAlerts(w http.ResponseWriter, r *http.Request) {
	hours := parseHours(r, 24)
	report, err := service.GlobalDashboard.CheckAlerts(hours)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	render.JSON(w, r, &APIResponse{Status: 0, Msg: "查询成功", Data: report})
}

// HealthReport 生成文本健康报告
// @Summary 生成健康报告
// @Description 返回时间窗内管道运行状况的文本报告
// @Tags 监控看板
// @Produce plain
// @Param hours query int false "回看小时数" default(24)
// @Success 200 {string} string "健康报告文本"
// @Failure 500 {object} APIResponse
// @Router /dashboard/health-report [get]
func (c *DashboardController) HealthReport(w http.ResponseWriter, r *http.Request) {
	hours := parseHours(r, 24)
	report, err := service.GlobalDashboard.GenerateHealthReport(hours)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report))
}

// ExportMetrics 导出执行指标CSV
// @Summary 导出指标CSV
// @Description 将时间窗内的执行指标以CSV文件下载
// @Tags 监控看板
// @Produce text/csv
// @Param hours query int false "回看小时数" default(24)
// @Success 200 {string} string "CSV内容"
// @Failure 500 {object} APIResponse
// @Router /dashboard/metrics/export [get]
func (c *DashboardController) ExportMetrics(w http.ResponseWriter, r *http.Request) {
	hours := parseHours(r, 24)
	filename := fmt.Sprintf("pipeline_metrics_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := service.GlobalDashboard.ExportMetricsCSV(hours, w); err != nil {
		// 响应头已写出，只能记录错误
		slog.Error("导出指标CSV失败", "error", err)
	}
}

// EmergencyHealth 查询引擎健康状态
// @Summary 查询引擎健康
// @Description 探测主转换引擎可用性并给出处理通道建议
// @Tags 监控看板
// @Produce json
// @Success 200 {object} APIResponse{data=emergency.HealthCheck}
// @Router /dashboard/emergency/health [get]
func (c *DashboardController) EmergencyHealth(w http.ResponseWriter, r *http.Request) {
	check := service.GlobalPipelineService.Emergency().CheckHealth()
	render.JSON(w, r, &APIResponse{Status: 0, Msg: "查询成功", Data: check})
}
