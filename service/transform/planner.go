/*
 * @module service/transform/planner
 * @description 转换规划器：对比数据帧现状与目标schema，产出字段质量画像、转换计划与未建模字段的类型建议
 * @architecture 业务服务层 - 分析规划
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 数据帧+数据集名 -> 字段分析 -> 转换计划(按优先级分层)
 * @rules 未注册数据集直接返回error；规划是只读操作，不修改输入数据帧
 * @dependencies log/slog
 * @refs service/transform/executor, service/schema
 */

package transform

import (
	"log/slog"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
	"civicdata-service/service/schema"
)

// AnalysisPlan 一次规划的完整产出
type AnalysisPlan struct {
	DatasetName        string                         `json:"dataset_name"`
	TransformationPlan []models.PlanEntry             `json:"transformation_plan"`
	FieldAnalysis      map[string]models.FieldQuality `json:"field_analysis"`
	PatternSuggestions map[string]string              `json:"pattern_suggestions"`
	MissingFields      []string                       `json:"missing_fields"`
	ExtraFields        []string                       `json:"extra_fields"`
}

// Plan 分析数据帧并生成转换计划
func Plan(f *dataframe.Frame, datasetName string) (*AnalysisPlan, error) {
	s, err := schema.Get(datasetName)
	if err != nil {
		return nil, err
	}

	plan := &AnalysisPlan{
		DatasetName:        datasetName,
		FieldAnalysis:      make(map[string]models.FieldQuality),
		PatternSuggestions: make(map[string]string),
	}

	defined := make(map[string]*models.FieldDefinition, len(s.Fields))
	for i := range s.Fields {
		defined[s.Fields[i].Name] = &s.Fields[i]
	}

	for _, col := range f.Columns() {
		series := f.Column(col)
		fd, modeled := defined[col]
		if !modeled {
			plan.ExtraFields = append(plan.ExtraFields, col)
			// 未建模字段按名称模式给出建议，不进入转换计划
			plan.PatternSuggestions[col] = string(schema.DetectFieldType(col, series.SampleValues(5)))
			continue
		}

		plan.FieldAnalysis[col] = models.FieldQuality{
			Completeness: series.Completeness(),
			UniqueValues: series.UniqueCount(),
			NullCount:    series.NullCount(),
			CurrentType:  string(series.DType),
			DesiredType:  fd.DesiredType,
			Priority:     fd.Priority,
			SampleValues: series.SampleValues(3),
		}

		if string(series.DType) != string(fd.DesiredType) {
			plan.TransformationPlan = append(plan.TransformationPlan, models.PlanEntry{
				FieldName:       col,
				CurrentType:     string(series.DType),
				DesiredType:     fd.DesiredType,
				ValidationRules: fd.ValidationRules,
				Priority:        fd.Priority,
			})
		}
	}

	for _, fd := range s.Fields {
		if !f.HasColumn(fd.Name) && fd.Required {
			plan.MissingFields = append(plan.MissingFields, fd.Name)
		}
	}
	if len(plan.MissingFields) > 0 {
		slog.Warn("数据帧缺少必填字段", "dataset", datasetName, "fields", plan.MissingFields)
	}

	return plan, nil
}

// EntriesByPriority 将计划条目按优先级分层，层内保持计划顺序
func EntriesByPriority(entries []models.PlanEntry) map[models.AnalysisPriority][]models.PlanEntry {
	tiers := make(map[models.AnalysisPriority][]models.PlanEntry)
	for _, e := range entries {
		tiers[e.Priority] = append(tiers[e.Priority], e)
	}
	return tiers
}
