/*
 * @module service/models/business_rule
 * @description 数据集级业务规则的封闭类型定义，取代原有的自由文本子串匹配派发
 * @architecture 数据模型层 - 标签联合
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 规则声明 -> 转换后应用 -> 异常值置空/修正
 * @rules 每种规则携带显式类型化参数；未识别的规则种类跳过不报错
 * @dependencies 标准库
 * @refs service/rules
 */

package models

// BusinessRuleKind 业务规则种类
type BusinessRuleKind string

const (
	// RuleRange 数值范围规则，越界值置空
	RuleRange BusinessRuleKind = "range"
	// RuleNonNegative 非负规则，负值归零
	RuleNonNegative BusinessRuleKind = "non_negative"
	// RuleDateOrder 日期先后规则，顺序颠倒时修正结束日期
	RuleDateOrder BusinessRuleKind = "date_order"
	// RuleCoordinateBounds 地理坐标边界规则，纬度/经度分别独立校验
	RuleCoordinateBounds BusinessRuleKind = "coordinate_bounds"
	// RuleNotFuture 日期不晚于当前时间
	RuleNotFuture BusinessRuleKind = "not_future"
)

// BusinessRule 类型化业务规则
// 仅Kind对应的参数字段有效，其余字段忽略
type BusinessRule struct {
	Kind BusinessRuleKind `json:"kind"`

	// RuleRange / RuleCoordinateBounds
	Field string  `json:"field,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`

	// RuleNonNegative：字段名包含该子串的所有列
	FieldContains string `json:"field_contains,omitempty"`

	// RuleDateOrder
	StartField string `json:"start_field,omitempty"`
	EndField   string `json:"end_field,omitempty"`

	// RuleCoordinateBounds
	LatField string  `json:"lat_field,omitempty"`
	LonField string  `json:"lon_field,omitempty"`
	LatMin   float64 `json:"lat_min,omitempty"`
	LatMax   float64 `json:"lat_max,omitempty"`
	LonMin   float64 `json:"lon_min,omitempty"`
	LonMax   float64 `json:"lon_max,omitempty"`
}

// RangeRule 构造数值范围规则
func RangeRule(field string, min, max float64) BusinessRule {
	return BusinessRule{Kind: RuleRange, Field: field, Min: min, Max: max}
}

// NonNegativeRule 构造非负规则，应用于名称包含contains的全部字段
func NonNegativeRule(contains string) BusinessRule {
	return BusinessRule{Kind: RuleNonNegative, FieldContains: contains}
}

// DateOrderRule 构造日期先后规则
func DateOrderRule(startField, endField string) BusinessRule {
	return BusinessRule{Kind: RuleDateOrder, StartField: startField, EndField: endField}
}

// CoordinateBoundsRule 构造地理边界规则
func CoordinateBoundsRule(latField string, latMin, latMax float64, lonField string, lonMin, lonMax float64) BusinessRule {
	return BusinessRule{
		Kind:     RuleCoordinateBounds,
		LatField: latField, LatMin: latMin, LatMax: latMax,
		LonField: lonField, LonMin: lonMin, LonMax: lonMax,
	}
}

// NotFutureRule 构造不晚于当前时间规则
func NotFutureRule(field string) BusinessRule {
	return BusinessRule{Kind: RuleNotFuture, Field: field}
}
