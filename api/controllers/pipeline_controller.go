/*
 * @module api/controllers/pipeline_controller
 * @description 管道控制器：手动触发数据集处理、查询执行指标
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/api.md
 * @stateFlow 请求接收 -> 管道/存储调用 -> 统一响应返回
 * @rules 未知数据集返回400；触发执行是同步操作，调用方自行控制超时
 * @dependencies net/http, github.com/go-chi/chi/v5
 * @refs service/pipeline, service/monitoring
 */

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"civicdata-service/service"
	"civicdata-service/service/schema"
)

// PipelineController 管道控制器
type PipelineController struct{}

// NewPipelineController 创建管道控制器实例
func NewPipelineController() *PipelineController {
	return &PipelineController{}
}

// TriggerRun 触发一次数据集处理
// @Summary 触发管道执行
// @Description 同步拉取并处理指定数据集，返回本次执行指标
// @Tags 管道
// @Produce json
// @Param dataset path string true "数据集名" Enums(business_licenses,building_permits,cta_boardings)
// @Success 200 {object} APIResponse{data=models.PipelineMetrics}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /pipeline/run/{dataset} [post]
func (c *PipelineController) TriggerRun(w http.ResponseWriter, r *http.Request) {
	dataset := chi.URLParam(r, "dataset")
	if _, err := schema.Get(dataset); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}

	metrics, err := service.GlobalPipelineService.RunDataset(r.Context(), dataset)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	render.JSON(w, r, &APIResponse{Status: 0, Msg: "执行完成", Data: metrics})
}

// ListExecutions 分页查询时间窗内的执行指标
// @Summary 查询执行指标列表
// @Description 按时间窗(小时)返回执行指标，按时间升序分页
// @Tags 管道
// @Produce json
// @Param hours query int false "回看小时数" default(24)
// @Param page query int false "页码" default(1)
// @Param size query int false "每页条数" default(20)
// @Success 200 {object} PaginatedResponse{data=[]models.PipelineMetrics}
// @Failure 500 {object} APIResponse
// @Router /pipeline/executions [get]
func (c *PipelineController) ListExecutions(w http.ResponseWriter, r *http.Request) {
	hours := parseHours(r, 24)
	page := parsePositiveQuery(r, "page", 1)
	size := parsePositiveQuery(r, "size", 20)

	metrics, err := service.GlobalMetricsStore.LoadRecentMetrics(time.Duration(hours) * time.Hour)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}

	total := len(metrics)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	render.JSON(w, r, &PaginatedResponse{
		Status: 0,
		Msg:    "查询成功",
		Data:   metrics[start:end],
		Total:  int64(total),
		Page:   page,
		Size:   size,
	})
}

// GetExecution 按execution_id查询单次执行指标
// @Summary 查询单次执行指标
// @Description 在最近一周的指标中按execution_id精确查找
// @Tags 管道
// @Produce json
// @Param id path string true "执行ID"
// @Success 200 {object} APIResponse{data=models.PipelineMetrics}
// @Failure 404 {object} APIResponse
// @Router /pipeline/executions/{id} [get]
func (c *PipelineController) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	metrics, err := service.GlobalMetricsStore.LoadRecentMetrics(7 * 24 * time.Hour)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &APIResponse{Status: 1, Msg: err.Error()})
		return
	}
	for i := range metrics {
		if metrics[i].ExecutionID == id {
			render.JSON(w, r, &APIResponse{Status: 0, Msg: "查询成功", Data: metrics[i]})
			return
		}
	}
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, &APIResponse{Status: 1, Msg: "执行记录不存在"})
}

// ListDatasets 列出已注册数据集及其schema概要
// @Summary 查询已注册数据集
// @Description 返回schema注册表中的全部数据集名
// @Tags 管道
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /pipeline/datasets [get]
func (c *PipelineController) ListDatasets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, &APIResponse{Status: 0, Msg: "查询成功", Data: schema.DatasetNames()})
}

func parseHours(r *http.Request, defaultHours int) int {
	return parsePositiveQuery(r, "hours", defaultHours)
}

func parsePositiveQuery(r *http.Request, key string, defaultValue int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
