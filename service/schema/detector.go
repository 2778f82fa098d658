/*
 * @module service/schema/detector
 * @description 字段模式探测器，根据字段名（可选数据样本）推断目标数据类型
 * @architecture 业务服务层 - 有序规则匹配
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 字段名归一化 -> 按优先级顺序匹配关键词组 -> 返回首个命中的目标类型
 * @rules 匹配顺序即优先级：货币组必须先于通用标识组，total_fee应命中currency而非其他；无命中回落string
 * @dependencies 标准库
 * @refs service/transform/planner.go
 */

package schema

import (
	"strings"

	"civicdata-service/service/models"
)

// FieldPattern 单个探测规则组
type FieldPattern struct {
	Keywords   []string
	TargetType models.DesiredDataType
	Rules      *models.ValidationRules
}

func floatPtr(v float64) *float64 { return &v }

// detectionPatterns 有序探测规则，先命中者生效
var detectionPatterns = []FieldPattern{
	// 货币金额类
	{
		Keywords:   []string{"fee", "paid", "cost", "price", "amount", "total", "subtotal"},
		TargetType: models.TypeCurrency,
		Rules:      &models.ValidationRules{MinValue: floatPtr(0), MaxValue: floatPtr(1000000)},
	},
	// 地理坐标
	{
		Keywords:   []string{"latitude", "lat"},
		TargetType: models.TypeFloat,
		Rules:      &models.ValidationRules{MinValue: floatPtr(-90), MaxValue: floatPtr(90)},
	},
	{
		Keywords:   []string{"longitude", "lon", "lng"},
		TargetType: models.TypeFloat,
		Rules:      &models.ValidationRules{MinValue: floatPtr(-180), MaxValue: floatPtr(180)},
	},
	// 行政区划编码
	{
		Keywords:   []string{"community_area", "ward", "precinct", "district"},
		TargetType: models.TypeInteger,
		Rules:      &models.ValidationRules{MinValue: floatPtr(0), MaxValue: floatPtr(200)},
	},
	// 邮政编码
	{
		Keywords:   []string{"zip", "postal"},
		TargetType: models.TypeZipcode,
		Rules:      &models.ValidationRules{Pattern: `^\d{5}(-\d{4})?$`},
	},
	// 日期类
	{
		Keywords:   []string{"date", "created", "issued", "start", "end", "expiration"},
		TargetType: models.TypeDate,
	},
	// 状态/类别类
	{
		Keywords:   []string{"status", "type", "category", "description"},
		TargetType: models.TypeCategory,
	},
	// 标识类
	{
		Keywords:   []string{"id", "number", "account"},
		TargetType: models.TypeString,
	},
}

// DetectFieldType 根据字段名推断目标类型，样本参数保留用于后续增强
// 探测是启发式的，误判允许存在，由调用方记录日志
func DetectFieldType(fieldName string, sample []interface{}) models.DesiredDataType {
	lower := strings.ToLower(fieldName)
	for _, pattern := range detectionPatterns {
		for _, keyword := range pattern.Keywords {
			if strings.Contains(lower, keyword) {
				return pattern.TargetType
			}
		}
	}
	return models.TypeString
}

// DetectFieldPattern 返回命中的完整规则组，无命中返回nil
func DetectFieldPattern(fieldName string) *FieldPattern {
	lower := strings.ToLower(fieldName)
	for i := range detectionPatterns {
		for _, keyword := range detectionPatterns[i].Keywords {
			if strings.Contains(lower, keyword) {
				return &detectionPatterns[i]
			}
		}
	}
	return nil
}
