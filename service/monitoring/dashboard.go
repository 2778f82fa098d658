/*
 * @module service/monitoring/dashboard
 * @description 告警看板：按时间窗聚合执行指标，评估阈值生成告警与建议，输出健康报告和CSV导出
 * @architecture 业务服务层 - 看板/告警
 * @documentReference dev_docs/monitoring.md
 * @stateFlow Store读取 -> 聚合 -> 阈值评估 -> 告警状态(GREEN/YELLOW/RED)+建议
 * @rules 时间窗内无数据为YELLOW(NO_DATA)；最近5次中失败>=2为RED(REPEATED_FAILURES)；
 *        建议去重且保持生成顺序；告警状态只升不降
 * @dependencies 标准库encoding/csv
 * @refs api/controllers/dashboard_controller.go
 */

package monitoring

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"civicdata-service/service/models"
)

// Dashboard 管道看板与告警评估器
type Dashboard struct {
	store      MetricsStore
	thresholds models.AlertThresholds
}

// NewDashboard 创建看板，阈值使用默认配置
func NewDashboard(store MetricsStore) *Dashboard {
	return &Dashboard{store: store, thresholds: models.DefaultAlertThresholds()}
}

// NewDashboardWithThresholds 创建自定义阈值的看板
func NewDashboardWithThresholds(store MetricsStore, t models.AlertThresholds) *Dashboard {
	return &Dashboard{store: store, thresholds: t}
}

// Thresholds 返回当前阈值配置
func (d *Dashboard) Thresholds() models.AlertThresholds {
	return d.thresholds
}

// LoadRecentMetrics 读取最近hours小时的执行指标
func (d *Dashboard) LoadRecentMetrics(hours int) ([]models.PipelineMetrics, error) {
	return d.store.LoadRecentMetrics(time.Duration(hours) * time.Hour)
}

// CheckAlerts 评估时间窗内的告警条件
func (d *Dashboard) CheckAlerts(hours int) (*models.AlertReport, error) {
	metrics, err := d.LoadRecentMetrics(hours)
	if err != nil {
		return nil, fmt.Errorf("加载指标失败: %w", err)
	}

	report := &models.AlertReport{
		Timestamp:   time.Now().Format(time.RFC3339Nano),
		AlertStatus: models.AlertGreen,
	}

	if len(metrics) == 0 {
		report.AlertStatus = models.AlertYellow
		report.AlertsTriggered = append(report.AlertsTriggered, models.Alert{
			Type:     models.AlertNoData,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("最近%d小时内没有管道执行记录", hours),
		})
		report.Recommendations = recommendations(report.AlertsTriggered)
		return report, nil
	}

	total := len(metrics)
	failed := 0
	var sumDuration, sumTransformRate float64
	for _, m := range metrics {
		if m.Status == models.StatusFailed {
			failed++
		}
		sumDuration += m.DurationSeconds
		sumTransformRate += m.TransformationSuccessRate
	}
	successRate := float64(total-failed) / float64(total) * 100
	avgDuration := sumDuration / float64(total)
	avgTransformRate := sumTransformRate / float64(total)

	report.MetricsSummary = models.MetricsSummary{
		TotalExecutions:           total,
		ExecutionSuccessRate:      successRate,
		AverageDuration:           avgDuration,
		AverageTransformationRate: avgTransformRate,
		FailedExecutions:          failed,
	}

	if successRate < d.thresholds.MinSuccessRate {
		report.AlertStatus = report.AlertStatus.Worse(models.AlertRed)
		report.AlertsTriggered = append(report.AlertsTriggered, models.Alert{
			Type:      models.AlertLowSuccessRate,
			Severity:  models.SeverityCritical,
			Message:   fmt.Sprintf("管道执行成功率 %.1f%% (阈值: %.1f%%)", successRate, d.thresholds.MinSuccessRate),
			Value:     successRate,
			Threshold: d.thresholds.MinSuccessRate,
		})
	}

	if avgDuration > d.thresholds.MaxDurationSeconds {
		report.AlertStatus = report.AlertStatus.Worse(models.AlertYellow)
		report.AlertsTriggered = append(report.AlertsTriggered, models.Alert{
			Type:      models.AlertSlowPerformance,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("平均执行耗时 %.1fs (阈值: %.1fs)", avgDuration, d.thresholds.MaxDurationSeconds),
			Value:     avgDuration,
			Threshold: d.thresholds.MaxDurationSeconds,
		})
	}

	if avgTransformRate < d.thresholds.MinSuccessRate {
		report.AlertStatus = report.AlertStatus.Worse(models.AlertYellow)
		report.AlertsTriggered = append(report.AlertsTriggered, models.Alert{
			Type:      models.AlertLowTransformationRate,
			Severity:  models.SeverityWarning,
			Message:   fmt.Sprintf("平均转换成功率 %.1f%% (阈值: %.1f%%)", avgTransformRate, d.thresholds.MinSuccessRate),
			Value:     avgTransformRate,
			Threshold: d.thresholds.MinSuccessRate,
		})
	}

	// 最近5次执行中失败>=2次视为反复失败
	tail := metrics
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	recentFailures := 0
	for _, m := range tail {
		if m.Status == models.StatusFailed {
			recentFailures++
		}
	}
	if recentFailures >= 2 {
		report.AlertStatus = report.AlertStatus.Worse(models.AlertRed)
		report.AlertsTriggered = append(report.AlertsTriggered, models.Alert{
			Type:     models.AlertRepeatedFailures,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("检测到反复失败 (最近5次执行中失败%d次)", recentFailures),
			Value:    float64(recentFailures),
		})
	}

	if len(report.AlertsTriggered) > 0 {
		report.Recommendations = recommendations(report.AlertsTriggered)
	}
	return report, nil
}

// recommendations 按告警类型生成固定建议，去重并保持顺序
func recommendations(alerts []models.Alert) []string {
	var recs []string
	for _, a := range alerts {
		switch a.Type {
		case models.AlertLowSuccessRate:
			recs = append(recs,
				"检查失败的管道执行并核查数据源质量",
				"考虑为问题字段调整转换期望")
		case models.AlertSlowPerformance:
			recs = append(recs,
				"考虑针对大数据集优化处理流程",
				"使用小样本数据定位性能瓶颈")
		case models.AlertLowTransformationRate:
			recs = append(recs,
				"核查目标schema定义的准确性",
				"确认新的数据模式是否需要更新schema")
		case models.AlertRepeatedFailures:
			recs = append(recs,
				"紧急: 排查管道反复失败的根因",
				"考虑启用降级数据处理")
		case models.AlertNoData:
			recs = append(recs,
				"核实管道调度与执行情况",
				"检查阻止执行的系统级问题")
		}
	}
	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, r := range recs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// GenerateHealthReport 生成文本格式的健康报告
func (d *Dashboard) GenerateHealthReport(hours int) (string, error) {
	report, err := d.CheckAlerts(hours)
	if err != nil {
		return "", err
	}
	metrics, err := d.LoadRecentMetrics(hours)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("PIPELINE HEALTH REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Report Time: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Time Period: Last %d hours\n", hours)
	fmt.Fprintf(&b, "Overall Status: %s\n\n", report.AlertStatus)

	b.WriteString("PERFORMANCE METRICS:\n")
	fmt.Fprintf(&b, "   Total Executions: %d\n", report.MetricsSummary.TotalExecutions)
	fmt.Fprintf(&b, "   Success Rate: %.1f%%\n", report.MetricsSummary.ExecutionSuccessRate)
	fmt.Fprintf(&b, "   Avg Duration: %.2fs\n", report.MetricsSummary.AverageDuration)
	fmt.Fprintf(&b, "   Avg Transformation Rate: %.1f%%\n", report.MetricsSummary.AverageTransformationRate)

	if len(report.AlertsTriggered) > 0 {
		fmt.Fprintf(&b, "\nACTIVE ALERTS (%d):\n", len(report.AlertsTriggered))
		for i, a := range report.AlertsTriggered {
			fmt.Fprintf(&b, "   %d. [%s] %s: %s\n", i+1, a.Severity, a.Type, a.Message)
		}
	} else {
		b.WriteString("\nNO ACTIVE ALERTS\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nRECOMMENDATIONS:\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "   - %s\n", r)
		}
	}

	if len(metrics) > 0 {
		b.WriteString("\nRECENT EXECUTIONS:\n")
		tail := metrics
		if len(tail) > 3 {
			tail = tail[len(tail)-3:]
		}
		for _, m := range tail {
			ts := m.Timestamp
			if t, err := time.Parse(time.RFC3339Nano, m.Timestamp); err == nil {
				ts = t.Format("15:04:05")
			}
			fmt.Fprintf(&b, "   [%s] %s - %s (%.2fs)\n", m.Status, ts, m.DatasetName, m.DurationSeconds)
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	return b.String(), nil
}

// csvHeader 导出列与顺序固定
var csvHeader = []string{
	"timestamp", "dataset_name", "execution_id", "status", "duration_seconds",
	"input_rows", "output_rows", "input_columns", "output_columns",
	"transformations_attempted", "transformations_successful", "transformation_success_rate",
	"error_count", "warning_count",
}

// ExportMetricsCSV 将时间窗内指标以CSV写入w
func (d *Dashboard) ExportMetricsCSV(hours int, w io.Writer) error {
	metrics, err := d.LoadRecentMetrics(hours)
	if err != nil {
		return fmt.Errorf("加载指标失败: %w", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, m := range metrics {
		row := []string{
			m.Timestamp,
			m.DatasetName,
			m.ExecutionID,
			string(m.Status),
			strconv.FormatFloat(m.DurationSeconds, 'f', -1, 64),
			strconv.Itoa(m.InputRows),
			strconv.Itoa(m.OutputRows),
			strconv.Itoa(m.InputColumns),
			strconv.Itoa(m.OutputColumns),
			strconv.Itoa(m.TransformationsAttempted),
			strconv.Itoa(m.TransformationsSuccessful),
			strconv.FormatFloat(m.TransformationSuccessRate, 'f', -1, 64),
			strconv.Itoa(len(m.Errors)),
			strconv.Itoa(len(m.Warnings)),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
