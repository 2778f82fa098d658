/*
 * @module service/monitoring/collector
 * @description Prometheus指标采集：执行计数、时长分布、行量与质量评分，经/metrics暴露
 * @architecture 可观测层
 * @documentReference dev_docs/monitoring.md
 * @rules 指标在包加载时注册到默认Registry；标签仅dataset与status，避免高基数
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go
 */

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"civicdata-service/service/models"
)

var (
	executionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civicdata_pipeline_executions_total",
		Help: "管道执行总数，按数据集与终态分类",
	}, []string{"dataset", "status"})

	executionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "civicdata_pipeline_duration_seconds",
		Help:    "管道执行耗时分布",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	}, []string{"dataset"})

	rowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civicdata_pipeline_rows_processed_total",
		Help: "管道处理的输入行总数",
	}, []string{"dataset"})

	transformationRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "civicdata_transformation_success_rate",
		Help: "最近一次执行的转换成功率",
	}, []string{"dataset"})

	qualityScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "civicdata_quality_score",
		Help: "最近一次执行的综合数据质量评分",
	}, []string{"dataset"})
)

// ObserveExecution 在执行结束时上报Prometheus指标
func ObserveExecution(m *models.PipelineMetrics) {
	executionsTotal.WithLabelValues(m.DatasetName, string(m.Status)).Inc()
	executionDuration.WithLabelValues(m.DatasetName).Observe(m.DurationSeconds)
	rowsProcessed.WithLabelValues(m.DatasetName).Add(float64(m.InputRows))
	transformationRate.WithLabelValues(m.DatasetName).Set(m.TransformationSuccessRate)
}

// ObserveQualityScore 上报质量评分
func ObserveQualityScore(s *models.DataQualityScore) {
	qualityScore.WithLabelValues(s.DatasetName).Set(s.OverallQualityScore)
}
