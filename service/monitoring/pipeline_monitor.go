/*
 * @module service/monitoring/monitor
 * @description 管道执行监控器：跟踪单次执行全生命周期指标，计算质量评分，结束时持久化恰好一次
 * @architecture 业务服务层 - 监控
 * @documentReference dev_docs/monitoring.md
 * @stateFlow Start -> Log* -> CalculateQualityScore -> Finish(状态收敛+落盘)
 * @rules ERROR级错误立刻将状态置FAILED且不可降级；WARNING仅在RUNNING时升级状态；
 *        成功率在分母为0时恒为0；质量评分权重0.3/0.3/0.3/0.1固定
 * @dependencies github.com/google/uuid
 * @refs service/monitoring/metrics_store.go, service/pipeline
 */

package monitoring

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

// qualityHistoryLimit 内存质量评分环形缓冲上限
const qualityHistoryLimit = 100

// Monitor 管道执行监控器，可并发使用
type Monitor struct {
	store MetricsStore

	mu             sync.Mutex
	current        map[string]*models.PipelineMetrics
	ruleViolations map[string]int
	scores         []models.DataQualityScore
}

// NewMonitor 创建监控器
func NewMonitor(store MetricsStore) *Monitor {
	return &Monitor{
		store:          store,
		current:        make(map[string]*models.PipelineMetrics),
		ruleViolations: make(map[string]int),
	}
}

// Start 开始监控一次执行，返回唯一execution_id
func (m *Monitor) Start(datasetName string) string {
	now := time.Now()
	executionID := fmt.Sprintf("%s_%s_%s",
		datasetName,
		now.UTC().Format("20060102_150405.000000"),
		uuid.NewString()[:8])

	metrics := &models.PipelineMetrics{
		ExecutionID: executionID,
		DatasetName: datasetName,
		Timestamp:   now.Format(time.RFC3339Nano),
		StartTime:   now,
		Status:      models.StatusRunning,
		Errors:      []string{},
		Warnings:    []string{},
	}

	m.mu.Lock()
	m.current[executionID] = metrics
	m.mu.Unlock()

	slog.Info("开始监控管道执行", "execution_id", executionID, "dataset", datasetName)
	return executionID
}

func (m *Monitor) get(executionID string) *models.PipelineMetrics {
	metrics, ok := m.current[executionID]
	if !ok {
		slog.Warn("未知的execution_id", "execution_id", executionID)
		return nil
	}
	return metrics
}

// LogDataMetrics 记录输入输出数据帧的行列规模
func (m *Monitor) LogDataMetrics(executionID string, input, output *dataframe.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := m.get(executionID)
	if metrics == nil {
		return
	}
	if input != nil {
		metrics.InputRows = input.NumRows()
		metrics.InputColumns = input.NumCols()
	}
	if output != nil {
		metrics.OutputRows = output.NumRows()
		metrics.OutputColumns = output.NumCols()
	}
	slog.Info("数据规模指标",
		"execution_id", executionID,
		"input", fmt.Sprintf("%dx%d", metrics.InputRows, metrics.InputColumns),
		"output", fmt.Sprintf("%dx%d", metrics.OutputRows, metrics.OutputColumns))
}

// LogTransformationResults 记录转换尝试与成功数
func (m *Monitor) LogTransformationResults(executionID string, attempted, successful int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := m.get(executionID)
	if metrics == nil {
		return
	}
	metrics.TransformationsAttempted = attempted
	metrics.TransformationsSuccessful = successful
	if attempted > 0 {
		metrics.TransformationSuccessRate = float64(successful) / float64(attempted) * 100
	}
	slog.Info("转换结果",
		"execution_id", executionID,
		"successful", successful,
		"attempted", attempted,
		"rate", fmt.Sprintf("%.1f%%", metrics.TransformationSuccessRate))
}

// LogValidationResults 记录期望校验结果
func (m *Monitor) LogValidationResults(executionID string, evaluated, passed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := m.get(executionID)
	if metrics == nil {
		return
	}
	metrics.ExpectationsEvaluated = evaluated
	metrics.ExpectationsPassed = passed
	metrics.ExpectationsFailed = failed
	if evaluated > 0 {
		metrics.ValidationSuccessRate = float64(passed) / float64(evaluated) * 100
	}
	slog.Info("校验结果",
		"execution_id", executionID,
		"passed", passed,
		"evaluated", evaluated,
		"rate", fmt.Sprintf("%.1f%%", metrics.ValidationSuccessRate))
}

// LogRuleViolations 记录业务规则违例条数，质量评分时计入invalid_records
func (m *Monitor) LogRuleViolations(executionID string, violations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.get(executionID) == nil {
		return
	}
	m.ruleViolations[executionID] = violations
	slog.Info("业务规则违例", "execution_id", executionID, "violations", violations)
}

// LogError 记录错误或警告。ERROR直接将状态置FAILED；WARNING只在RUNNING时升级为WARNING
func (m *Monitor) LogError(executionID, message, level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := m.get(executionID)
	if metrics == nil {
		return
	}
	if level == "ERROR" {
		metrics.Errors = append(metrics.Errors, message)
		metrics.Status = models.StatusFailed
		slog.Error("管道错误", "execution_id", executionID, "error", message)
	} else {
		metrics.Warnings = append(metrics.Warnings, message)
		if metrics.Status == models.StatusRunning {
			metrics.Status = models.StatusWarning
		}
		slog.Warn("管道警告", "execution_id", executionID, "warning", message)
	}
}

// CalculateQualityScore 计算数据质量评分并持久化
func (m *Monitor) CalculateQualityScore(executionID string, f *dataframe.Frame) *models.DataQualityScore {
	m.mu.Lock()
	metrics := m.get(executionID)
	if metrics == nil {
		m.mu.Unlock()
		return nil
	}

	totalCells := f.TotalCells()
	nullCells := f.NullCells()
	completeness := 0.0
	if totalCells > 0 {
		completeness = float64(totalCells-nullCells) / float64(totalCells) * 100
	}
	validity := metrics.ValidationSuccessRate
	consistency := metrics.TransformationSuccessRate
	// 时效性暂按满分处理，后续可接入数据新鲜度检查
	timeliness := 100.0

	overall := completeness*0.3 + validity*0.3 + consistency*0.3 + timeliness*0.1

	score := &models.DataQualityScore{
		DatasetName:          metrics.DatasetName,
		ExecutionID:          executionID,
		Timestamp:            time.Now().Format(time.RFC3339Nano),
		CompletenessScore:    completeness,
		ValidityScore:        validity,
		ConsistencyScore:     consistency,
		TimelinessScore:      timeliness,
		OverallQualityScore:  overall,
		TotalRecords:         f.NumRows(),
		NullRecords:          nullCells,
		InvalidRecords:       m.ruleViolations[executionID],
		TypeConversionErrors: len(metrics.Errors),
	}

	m.scores = append(m.scores, *score)
	if len(m.scores) > qualityHistoryLimit {
		m.scores = m.scores[len(m.scores)-qualityHistoryLimit:]
	}
	m.mu.Unlock()

	if err := m.store.SaveScore(score); err != nil {
		slog.Error("保存质量评分失败", "execution_id", executionID, "error", err)
	}
	ObserveQualityScore(score)

	slog.Info("数据质量评分",
		"execution_id", executionID,
		"overall", fmt.Sprintf("%.1f", overall),
		"completeness", fmt.Sprintf("%.1f", completeness),
		"validity", fmt.Sprintf("%.1f", validity),
		"consistency", fmt.Sprintf("%.1f", consistency))
	return score
}

// Finish 结束一次执行：收敛终态、计算时长、持久化指标，之后该执行不可再修改
func (m *Monitor) Finish(executionID string) *models.PipelineMetrics {
	m.mu.Lock()
	metrics := m.get(executionID)
	if metrics == nil {
		m.mu.Unlock()
		return nil
	}
	end := time.Now()
	metrics.EndTime = &end
	metrics.DurationSeconds = end.Sub(metrics.StartTime).Seconds()

	if metrics.Status == models.StatusRunning {
		if len(metrics.Errors) == 0 {
			metrics.Status = models.StatusSuccess
		} else {
			metrics.Status = models.StatusFailed
		}
	}
	delete(m.current, executionID)
	delete(m.ruleViolations, executionID)
	m.mu.Unlock()

	if err := m.store.SaveMetrics(metrics); err != nil {
		slog.Error("保存执行指标失败", "execution_id", executionID, "error", err)
	}
	ObserveExecution(metrics)

	slog.Info("管道执行结束",
		"execution_id", executionID,
		"status", metrics.Status,
		"duration", fmt.Sprintf("%.2fs", metrics.DurationSeconds))
	return metrics
}

// RecentScores 返回内存中最近的质量评分，最多n条
func (m *Monitor) RecentScores(n int) []models.DataQualityScore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 || n > len(m.scores) {
		n = len(m.scores)
	}
	out := make([]models.DataQualityScore, n)
	copy(out, m.scores[len(m.scores)-n:])
	return out
}
