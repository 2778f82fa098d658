/*
 * @module api/controllers/quality_controller
 * @description 数据质量控制器：质量评分查询
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/api.md
 * @stateFlow 请求接收 -> 存储查询 -> 统一响应返回
 * @rules 评分按时间升序返回；时间窗默认24小时
 * @dependencies net/http
 * @refs service/monitoring
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"civicdata-service/service"
)

// QualityController 数据质量控制器
type QualityController struct{}

// NewQualityController 创建数据质量控制器实例
func NewQualityController() *QualityController {
	return &QualityController{}
}

// ListScores 查询时间窗内的质量评分
// @Summary 查询质量评分列表
// @Description 按时间窗(小时)返回各执行的质量评分
// @Tags 数据质量
// @Produce json
// @Param hours query int false "回看小时数" default(24)
// @Success 200 {object} APIResponse{data=[]models.DataQualityScore}
// @Failure 500 {object} APIResponse
// @Router /quality/scores [get]
func (c *QualityController) ListScores(w http.ResponseWriter, r *http.Request) {
	hours := parseHours(r, 24)
	scores, err := service.GlobalMetricsStore.LoadRecentScores(time.Duration(hours) * time.Hour)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	render.JSON(w, r, &APIResponse{Status: 0, Msg: "查询成功", Data: scores})
}

// RecentScores 查询内存中最近的质量评分
// @Summary 查询最近质量评分
// @Description 返回当前进程内最近的质量评分(最多100条)
// @Tags 数据质量
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.DataQualityScore}
// @Router /quality/scores/recent [get]
func (c *QualityController) RecentScores(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, &APIResponse{
		Status: 0,
		Msg:    "查询成功",
		Data:   service.GlobalPipelineService.Monitor().RecentScores(10),
	})
}
