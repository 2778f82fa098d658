/*
 * @module service/rules/rules
 * @description 业务规则引擎：对转换后的数据帧应用封闭规则集，越界置null、费用下限归零、日期先后关系修复
 * @architecture 业务服务层 - 规则引擎
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 数据帧+schema规则清单 -> 逐规则应用 -> 修正计数汇总
 * @rules 规则集封闭，未知Kind跳过并记日志；坐标越界按列独立置null，不联动
 * @dependencies log/slog
 * @refs service/schema, service/pipeline
 */

package rules

import (
	"log/slog"
	"strings"
	"time"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

// RuleApplication 单条规则的应用结果
type RuleApplication struct {
	Kind       models.BusinessRuleKind `json:"kind"`
	Field      string                  `json:"field"`
	Violations int                     `json:"violations"`
	Corrected  int                     `json:"corrected"`
	Skipped    bool                    `json:"skipped,omitempty"`
}

// ApplyResult 全部规则的应用汇总
type ApplyResult struct {
	Applications    []RuleApplication `json:"applications"`
	TotalViolations int               `json:"total_violations"`
	TotalCorrected  int               `json:"total_corrected"`
}

// Apply 在数据帧上就地应用schema定义的业务规则
func Apply(f *dataframe.Frame, s *models.DatasetSchema) *ApplyResult {
	result := &ApplyResult{}
	for _, rule := range s.BusinessRules {
		var apps []RuleApplication
		switch rule.Kind {
		case models.RuleRange:
			apps = []RuleApplication{applyRange(f, rule)}
		case models.RuleNonNegative:
			apps = applyNonNegative(f, rule)
		case models.RuleDateOrder:
			apps = []RuleApplication{applyDateOrder(f, rule)}
		case models.RuleCoordinateBounds:
			apps = applyCoordinateBounds(f, rule)
		case models.RuleNotFuture:
			apps = []RuleApplication{applyNotFuture(f, rule)}
		default:
			slog.Warn("跳过未知业务规则", "kind", rule.Kind)
			apps = []RuleApplication{{Kind: rule.Kind, Skipped: true}}
		}
		for _, a := range apps {
			result.Applications = append(result.Applications, a)
			result.TotalViolations += a.Violations
			result.TotalCorrected += a.Corrected
		}
	}
	return result
}

func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// applyRange 数值越界置null
func applyRange(f *dataframe.Frame, rule models.BusinessRule) RuleApplication {
	app := RuleApplication{Kind: rule.Kind, Field: rule.Field}
	series := f.Column(rule.Field)
	if series == nil {
		app.Skipped = true
		return app
	}
	for i, v := range series.Values {
		if v == nil {
			continue
		}
		if n, ok := asFloat(v); ok && (n < rule.Min || n > rule.Max) {
			series.Values[i] = nil
			app.Violations++
			app.Corrected++
		}
	}
	return app
}

// applyNonNegative 名称包含关键词的数值列负值归零
func applyNonNegative(f *dataframe.Frame, rule models.BusinessRule) []RuleApplication {
	var apps []RuleApplication
	for _, col := range f.Columns() {
		if !strings.Contains(strings.ToLower(col), strings.ToLower(rule.FieldContains)) {
			continue
		}
		app := RuleApplication{Kind: rule.Kind, Field: col}
		series := f.Column(col)
		for i, v := range series.Values {
			if v == nil {
				continue
			}
			if n, ok := asFloat(v); ok && n < 0 {
				series.Values[i] = float64(0)
				app.Violations++
				app.Corrected++
			}
		}
		apps = append(apps, app)
	}
	return apps
}

// applyDateOrder 结束日期早于开始日期时，按开始日期加一年修复
func applyDateOrder(f *dataframe.Frame, rule models.BusinessRule) RuleApplication {
	app := RuleApplication{Kind: rule.Kind, Field: rule.EndField}
	start := f.Column(rule.StartField)
	end := f.Column(rule.EndField)
	if start == nil || end == nil {
		app.Skipped = true
		return app
	}
	for i := range start.Values {
		st, ok1 := start.Values[i].(time.Time)
		et, ok2 := end.Values[i].(time.Time)
		if !ok1 || !ok2 {
			continue
		}
		if et.Before(st) {
			end.Values[i] = st.AddDate(1, 0, 0)
			app.Violations++
			app.Corrected++
		}
	}
	return app
}

// applyCoordinateBounds 经纬度各自独立校验，单列越界只置该列null
func applyCoordinateBounds(f *dataframe.Frame, rule models.BusinessRule) []RuleApplication {
	bounds := []struct {
		field    string
		min, max float64
	}{
		{rule.LatField, rule.LatMin, rule.LatMax},
		{rule.LonField, rule.LonMin, rule.LonMax},
	}
	var apps []RuleApplication
	for _, b := range bounds {
		app := RuleApplication{Kind: rule.Kind, Field: b.field}
		series := f.Column(b.field)
		if series == nil {
			app.Skipped = true
			apps = append(apps, app)
			continue
		}
		for i, v := range series.Values {
			if v == nil {
				continue
			}
			if n, ok := asFloat(v); ok && (n < b.min || n > b.max) {
				series.Values[i] = nil
				app.Violations++
				app.Corrected++
			}
		}
		apps = append(apps, app)
	}
	return apps
}

// applyNotFuture 未来日期置null
func applyNotFuture(f *dataframe.Frame, rule models.BusinessRule) RuleApplication {
	app := RuleApplication{Kind: rule.Kind, Field: rule.Field}
	series := f.Column(rule.Field)
	if series == nil {
		app.Skipped = true
		return app
	}
	now := time.Now()
	for i, v := range series.Values {
		if t, ok := v.(time.Time); ok && t.After(now) {
			series.Values[i] = nil
			app.Violations++
			app.Corrected++
		}
	}
	return app
}
