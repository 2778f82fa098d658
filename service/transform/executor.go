/*
 * @module service/transform/executor
 * @description 转换执行器：按critical->high->medium->low严格分层执行计划，单字段失败隔离，不污染其余字段
 * @architecture 业务服务层 - 执行引擎
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 计划+数据帧副本 -> 逐层逐字段收敛 -> 结果数据帧+字段级结果清单
 * @rules 执行在输入副本上进行；字段失败只记录不中断；panic按字段捕获
 * @dependencies log/slog
 * @refs service/transform/planner, service/pipeline
 */

package transform

import (
	"fmt"
	"log/slog"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

// FieldResult 单字段转换结果
type FieldResult struct {
	FieldName string                  `json:"field_name"`
	FromType  string                  `json:"from_type"`
	ToType    models.DesiredDataType  `json:"to_type"`
	Priority  models.AnalysisPriority `json:"priority"`
	Success   bool                    `json:"success"`
	Error     string                  `json:"error,omitempty"`
}

// ExecutionResult 一次计划执行的汇总
type ExecutionResult struct {
	Frame        *dataframe.Frame `json:"-"`
	FieldResults []FieldResult    `json:"field_results"`
	Attempted    int              `json:"attempted"`
	Successful   int              `json:"successful"`
	SuccessRate  float64          `json:"success_rate"`
}

// Execute 在输入数据帧的副本上执行转换计划
func Execute(f *dataframe.Frame, plan *AnalysisPlan) *ExecutionResult {
	result := &ExecutionResult{Frame: f.Copy()}
	tiers := EntriesByPriority(plan.TransformationPlan)

	for _, priority := range models.PriorityOrder {
		for _, entry := range tiers[priority] {
			fr := applyEntry(result.Frame, entry)
			result.FieldResults = append(result.FieldResults, fr)
			result.Attempted++
			if fr.Success {
				result.Successful++
			} else {
				slog.Warn("字段转换失败",
					"dataset", plan.DatasetName,
					"field", entry.FieldName,
					"to_type", entry.DesiredType,
					"error", fr.Error)
			}
		}
	}

	if result.Attempted > 0 {
		result.SuccessRate = float64(result.Successful) / float64(result.Attempted) * 100
	}
	return result
}

// applyEntry 执行单字段收敛，panic在字段边界捕获
func applyEntry(f *dataframe.Frame, entry models.PlanEntry) (fr FieldResult) {
	fr = FieldResult{
		FieldName: entry.FieldName,
		FromType:  entry.CurrentType,
		ToType:    entry.DesiredType,
		Priority:  entry.Priority,
	}
	defer func() {
		if r := recover(); r != nil {
			fr.Success = false
			fr.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	series := f.Column(entry.FieldName)
	if series == nil {
		fr.Error = "列不存在"
		return fr
	}
	coerced, err := ForType(entry.DesiredType).Coerce(series, entry.FieldName)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}
	f.SetColumn(entry.FieldName, coerced)
	fr.Success = true
	return fr
}
