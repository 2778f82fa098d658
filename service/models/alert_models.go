/*
 * @module service/models/alert_models
 * @description 告警与健康报告模型，覆盖阈值配置、触发告警和整改建议
 * @architecture 数据模型层
 * @documentReference dev_docs/monitoring.md
 * @stateFlow 指标加载 -> 阈值评估 -> 告警聚合 -> 建议生成
 * @rules 告警状态RED > YELLOW > GREEN，取最严重者；无数据为YELLOW而非RED
 * @dependencies 标准库
 * @refs service/monitoring/dashboard.go
 */

package models

// AlertStatus 告警灯状态
type AlertStatus string

const (
	AlertGreen  AlertStatus = "GREEN"
	AlertYellow AlertStatus = "YELLOW"
	AlertRed    AlertStatus = "RED"
)

// Worse 返回两个状态中更严重的一个
func (s AlertStatus) Worse(other AlertStatus) AlertStatus {
	rank := map[AlertStatus]int{AlertGreen: 0, AlertYellow: 1, AlertRed: 2}
	if rank[other] > rank[s] {
		return other
	}
	return s
}

// AlertType 告警类型
type AlertType string

const (
	AlertNoData                AlertType = "NO_DATA"
	AlertLowSuccessRate        AlertType = "LOW_SUCCESS_RATE"
	AlertSlowPerformance       AlertType = "SLOW_PERFORMANCE"
	AlertLowTransformationRate AlertType = "LOW_TRANSFORMATION_RATE"
	AlertRepeatedFailures      AlertType = "REPEATED_FAILURES"
)

// AlertSeverity 告警严重程度
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert 单条触发告警
type Alert struct {
	Type      AlertType     `json:"type"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Value     float64       `json:"value,omitempty"`
	Threshold float64       `json:"threshold,omitempty"`
}

// AlertThresholds 告警阈值配置
type AlertThresholds struct {
	MinSuccessRate     float64 `json:"min_success_rate"`
	MaxDurationSeconds float64 `json:"max_duration_seconds"`
	MinQualityScore    float64 `json:"min_quality_score"`
	MaxErrorRate       float64 `json:"max_error_rate"`
}

// DefaultAlertThresholds 默认阈值
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MinSuccessRate:     70.0,
		MaxDurationSeconds: 60.0,
		MinQualityScore:    60.0,
		MaxErrorRate:       10.0,
	}
}

// MetricsSummary 时间窗内执行指标汇总
type MetricsSummary struct {
	TotalExecutions           int     `json:"total_executions"`
	ExecutionSuccessRate      float64 `json:"execution_success_rate"`
	AverageDuration           float64 `json:"average_duration"`
	AverageTransformationRate float64 `json:"average_transformation_rate"`
	FailedExecutions          int     `json:"failed_executions"`
}

// AlertReport 健康/告警报告
type AlertReport struct {
	Timestamp       string         `json:"timestamp"`
	AlertStatus     AlertStatus    `json:"alert_status"`
	AlertsTriggered []Alert        `json:"alerts_triggered"`
	MetricsSummary  MetricsSummary `json:"metrics_summary"`
	Recommendations []string       `json:"recommendations"`
}
