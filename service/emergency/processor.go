/*
 * @module service/emergency/processor
 * @description 应急降级处理器：主管道不可用时的五段式手工清洗流程，保障业务连续性
 * @architecture 业务服务层 - 降级通道
 * @documentReference dev_docs/emergency.md
 * @stateFlow 业务逻辑修复 -> 污染清理 -> 类型标准化 -> 可选字段治理 -> 终检，阶段互不依赖
 * @rules 单阶段失败不影响其余阶段；完成率<5%的列删除，5%-25%的文本列补"UNKNOWN"；
 *        健康检查中主通道可用性与降级就绪互相独立
 * @dependencies github.com/spf13/cast
 * @refs service/pipeline
 */

package emergency

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/transform"
)

// PerformanceReport 一次应急清洗的性能汇总
type PerformanceReport struct {
	TotalRows               int     `json:"total_rows"`
	DurationSeconds         float64 `json:"duration_seconds"`
	ThroughputRowsPerSecond float64 `json:"throughput_rows_per_second"`
	SuccessRate             float64 `json:"success_rate"`
}

// HealthCheck 应急系统健康状态
type HealthCheck struct {
	PrimaryAvailable  bool   `json:"primary_available"`
	FallbackReady     bool   `json:"fallback_ready"`
	RecommendedAction string `json:"recommended_action"`
}

// PrimaryProbe 主管道可用性探测函数
type PrimaryProbe func() error

// Processor 应急降级处理器
type Processor struct {
	probe       PrimaryProbe
	lastReport  PerformanceReport
	cleaningLog []string
}

// NewProcessor 创建应急处理器，probe可为nil(视为主通道不可用)
func NewProcessor(probe PrimaryProbe) *Processor {
	return &Processor{probe: probe}
}

func (p *Processor) log(msg string) {
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), msg)
	p.cleaningLog = append(p.cleaningLog, entry)
	slog.Info(msg, "component", "emergency")
}

// CheckHealth 探测主管道可用性与降级通道就绪状态
func (p *Processor) CheckHealth() HealthCheck {
	hc := HealthCheck{FallbackReady: true}
	if p.probe != nil {
		if err := p.probe(); err == nil {
			hc.PrimaryAvailable = true
		} else {
			p.log(fmt.Sprintf("主管道探测失败: %v", err))
		}
	}
	if hc.PrimaryAvailable {
		hc.RecommendedAction = "continue_primary"
	} else {
		hc.RecommendedAction = "use_emergency_fallback"
	}
	return hc
}

// Clean 对多数据集执行五段式应急清洗，返回清洗后的数据帧
func (p *Processor) Clean(datasets map[string]*dataframe.Frame) map[string]*dataframe.Frame {
	p.log("应急手工清洗启动")
	start := time.Now()

	totalRows := 0
	original := make(map[string]*dataframe.Frame, len(datasets))
	cleaned := make(map[string]*dataframe.Frame, len(datasets))
	for name, f := range datasets {
		totalRows += f.NumRows()
		original[name] = f
		cleaned[name] = f.Copy()
	}

	p.log("阶段1: 修复业务逻辑问题")
	p.fixBusinessLogic(cleaned)

	p.log("阶段2: 清理数据污染")
	p.fixContamination(cleaned)

	p.log("阶段3: 标准化数据类型")
	p.standardizeTypes(cleaned)

	p.log("阶段4: 治理可选字段")
	p.cleanOptionalFields(cleaned)

	p.log("阶段5: 最终校验")
	p.finalValidation(cleaned)

	duration := time.Since(start).Seconds()
	throughput := 0.0
	if duration > 0 {
		throughput = float64(totalRows) / duration
	}
	p.lastReport = PerformanceReport{
		TotalRows:               totalRows,
		DurationSeconds:         duration,
		ThroughputRowsPerSecond: throughput,
		SuccessRate:             successRate(original, cleaned),
	}
	p.log(fmt.Sprintf("应急清洗完成: %d行, %.2fs, 成功率%.1f%%",
		totalRows, duration, p.lastReport.SuccessRate))
	return cleaned
}

// fixBusinessLogic 修复营业执照的日期先后违规：到期日早于起始日时按起始日加一年
func (p *Processor) fixBusinessLogic(datasets map[string]*dataframe.Frame) {
	f, ok := datasets["business_licenses"]
	if !ok {
		return
	}
	dateFields := []string{"license_start_date", "expiration_date", "application_created_date", "date_issued"}
	for _, field := range dateFields {
		if s := f.Column(field); s != nil {
			coerced, err := (transform.DateCoercer{}).Coerce(s, field)
			if err == nil {
				f.SetColumn(field, coerced)
			}
		}
	}
	start := f.Column("license_start_date")
	end := f.Column("expiration_date")
	if start == nil || end == nil {
		return
	}
	fixed := 0
	for i := range start.Values {
		st, ok1 := start.Values[i].(time.Time)
		et, ok2 := end.Values[i].(time.Time)
		if ok1 && ok2 && st.After(et) {
			end.Values[i] = st.AddDate(1, 0, 0)
			fixed++
		}
	}
	if fixed > 0 {
		p.log(fmt.Sprintf("修复了%d条日期先后违规", fixed))
	}
}

var (
	quotePattern    = regexp.MustCompile(`['"]`)
	zipDigitPattern = regexp.MustCompile(`\d{5}`)
	idCharPattern   = regexp.MustCompile(`[^a-zA-Z0-9\-]`)
)

// fixContamination 清理邮编引号污染与标识字段的非法字符
func (p *Processor) fixContamination(datasets map[string]*dataframe.Frame) {
	for name, f := range datasets {
		if s := f.Column("zip_code"); s != nil {
			f.SetColumn("zip_code", s.Map(dataframe.DTypeString, func(v interface{}) interface{} {
				if v == nil {
					return nil
				}
				raw := quotePattern.ReplaceAllString(dataframe.StringValue(v), "")
				if m := zipDigitPattern.FindString(raw); m != "" {
					return m
				}
				return nil
			}))
			p.log(fmt.Sprintf("清理了%s的邮编污染", name))
		}

		for _, col := range f.Columns() {
			lower := strings.ToLower(col)
			if !strings.Contains(lower, "id") && !strings.Contains(lower, "permit_") {
				continue
			}
			s := f.Column(col)
			if s.DType != dataframe.DTypeObject && s.DType != dataframe.DTypeString {
				continue
			}
			f.SetColumn(col, s.Map(s.DType, func(v interface{}) interface{} {
				if v == nil {
					return nil
				}
				raw := strings.TrimSpace(dataframe.StringValue(v))
				return idCharPattern.ReplaceAllString(raw, "")
			}))
		}
	}
}

var datePatterns = []string{"date", "created", "issued", "expiration", "start", "approved", "payment"}

var numericCandidates = []string{
	"community_area", "ward", "precinct", "zip_code",
	"latitude", "longitude", "processing_time", "total_fee",
	"ssa", "police_district",
}

var categoricalCandidates = []string{
	"license_code", "license_status", "permit_status",
	"application_type", "work_type", "permit_type",
	"city", "state", "neighborhood",
}

// standardizeTypes 按固定字段清单标准化类型：名称含日期关键词转日期，数值清单转数值，
// 低基数(唯一值比<0.1)的分类清单字段转category
func (p *Processor) standardizeTypes(datasets map[string]*dataframe.Frame) {
	for _, f := range datasets {
		for _, col := range f.Columns() {
			s := f.Column(col)
			if s.DType != dataframe.DTypeObject {
				continue
			}
			lower := strings.ToLower(col)
			for _, pat := range datePatterns {
				if strings.Contains(lower, pat) {
					coerced, err := (transform.DateCoercer{}).Coerce(s, col)
					if err == nil {
						f.SetColumn(col, coerced)
					}
					break
				}
			}
		}

		for _, field := range numericCandidates {
			s := f.Column(field)
			if s == nil || s.DType != dataframe.DTypeObject {
				continue
			}
			f.SetColumn(field, s.Map(dataframe.DTypeFloat64, func(v interface{}) interface{} {
				if v == nil {
					return nil
				}
				n, err := cast.ToFloat64E(strings.TrimSpace(dataframe.StringValue(v)))
				if err != nil {
					return nil
				}
				return n
			}))
		}

		for _, field := range categoricalCandidates {
			s := f.Column(field)
			if s == nil || s.DType != dataframe.DTypeObject || f.NumRows() == 0 {
				continue
			}
			ratio := float64(s.UniqueCount()) / float64(f.NumRows())
			if ratio < 0.1 {
				f.SetColumn(field, s.Map(dataframe.DTypeCategory, func(v interface{}) interface{} {
					return v
				}))
			}
		}
	}
}

// cleanOptionalFields 完成率<5%的列删除；5%-25%的object列null补"UNKNOWN"
func (p *Processor) cleanOptionalFields(datasets map[string]*dataframe.Frame) {
	for name, f := range datasets {
		if f.NumRows() == 0 {
			continue
		}
		var toDrop []string
		for _, col := range f.Columns() {
			s := f.Column(col)
			completion := s.Completeness()
			if completion < 0.05 {
				toDrop = append(toDrop, col)
			} else if completion < 0.25 && s.DType == dataframe.DTypeObject {
				f.SetColumn(col, s.Map(s.DType, func(v interface{}) interface{} {
					if v == nil {
						return "UNKNOWN"
					}
					return v
				}))
			}
		}
		if len(toDrop) > 0 {
			f.DropColumns(toDrop...)
			p.log(fmt.Sprintf("%s: 删除了%d个低价值列", name, len(toDrop)))
		}
	}
}

// finalValidation 删除全null行并修剪文本字段空白
func (p *Processor) finalValidation(datasets map[string]*dataframe.Frame) {
	for name, f := range datasets {
		dropped := f.DropAllNullRows()
		if dropped > 0 {
			p.log(fmt.Sprintf("%s: 删除了%d个空行", name, dropped))
		}
		for _, col := range f.Columns() {
			s := f.Column(col)
			if s.DType != dataframe.DTypeObject && s.DType != dataframe.DTypeString {
				continue
			}
			f.SetColumn(col, s.Map(s.DType, func(v interface{}) interface{} {
				if v == nil {
					return nil
				}
				return strings.TrimSpace(dataframe.StringValue(v))
			}))
		}
		p.log(fmt.Sprintf("%s: %d行 %d列 校验通过", name, f.NumRows(), f.NumCols()))
	}
}

// successRate 按dtype改善程度统计成功率：object转具体类型计1分，类型保持计0.5分
func successRate(original, cleaned map[string]*dataframe.Frame) float64 {
	total := 0
	score := 0.0
	for name, orig := range original {
		clean, ok := cleaned[name]
		if !ok {
			continue
		}
		for _, col := range orig.Columns() {
			cs := clean.Column(col)
			if cs == nil {
				continue
			}
			total++
			os := orig.Column(col)
			if os.DType == dataframe.DTypeObject && cs.DType != dataframe.DTypeObject {
				score++
			} else if os.DType == cs.DType {
				score += 0.5
			}
		}
	}
	if total == 0 {
		return 0
	}
	return score / float64(total) * 100
}

// PerformanceSummary 最近一次清洗的性能报告
func (p *Processor) PerformanceSummary() PerformanceReport {
	return p.lastReport
}

// CleaningLog 清洗日志副本
func (p *Processor) CleaningLog() []string {
	out := make([]string, len(p.cleaningLog))
	copy(out, p.cleaningLog)
	return out
}
