/*
 * @module service/models/dataset_schema
 * @description 数据集目标schema模型定义，包括字段定义、期望类型、校验规则和业务规则
 * @architecture 数据模型层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow schema注册 -> 转换规划 -> 转换执行 -> 规则校验
 * @rules desired_type与validation_rules需联合可满足；analysis_priority驱动转换执行顺序
 * @dependencies 标准库
 * @refs service/schema, service/transform
 */

package models

// DesiredDataType 清洗后的目标数据类型
type DesiredDataType string

const (
	TypeString     DesiredDataType = "string"
	TypeInteger    DesiredDataType = "Int64" // 可空整数
	TypeFloat      DesiredDataType = "float64"
	TypeCurrency   DesiredDataType = "currency"
	TypePercentage DesiredDataType = "percentage"
	TypeDate       DesiredDataType = "datetime64[ns]"
	TypeBoolean    DesiredDataType = "bool"
	TypeCategory   DesiredDataType = "category"
	TypeGeoJSON    DesiredDataType = "geojson"
	TypeZipcode    DesiredDataType = "zipcode"
	TypePhone      DesiredDataType = "phone"
	TypeEmail      DesiredDataType = "email"
)

// AnalysisPriority 字段分析优先级，决定转换执行顺序
type AnalysisPriority string

const (
	PriorityCritical AnalysisPriority = "critical"
	PriorityHigh     AnalysisPriority = "high"
	PriorityMedium   AnalysisPriority = "medium"
	PriorityLow      AnalysisPriority = "low"
)

// PriorityOrder 优先级执行顺序，跨级顺序必须保持
var PriorityOrder = []AnalysisPriority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// ValidationRules 字段级校验规则
type ValidationRules struct {
	MinValue      *float64 `json:"min_value,omitempty"`
	MaxValue      *float64 `json:"max_value,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// FieldDefinition 单字段目标定义
type FieldDefinition struct {
	Name            string           `json:"name"`
	DesiredType     DesiredDataType  `json:"desired_type"`
	Description     string           `json:"description"`
	Required        bool             `json:"required"`
	Nullable        bool             `json:"nullable"`
	ValidationRules *ValidationRules `json:"validation_rules,omitempty"`
	Priority        AnalysisPriority `json:"analysis_priority"`
}

// DatasetSchema 数据集完整目标schema
type DatasetSchema struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Fields            []FieldDefinition  `json:"fields"`
	PrimaryKey        string             `json:"primary_key,omitempty"`
	DateField         string             `json:"date_field,omitempty"`
	AreaField         string             `json:"area_field,omitempty"`
	AreaNameField     string             `json:"area_name_field,omitempty"`
	BusinessRules     []BusinessRule     `json:"business_rules,omitempty"`
	QualityThresholds map[string]float64 `json:"quality_thresholds,omitempty"`
}

// Field 按名称查找字段定义，不存在返回nil
func (s *DatasetSchema) Field(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// FieldNames 返回全部字段名
func (s *DatasetSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldsByType 按目标类型筛选字段名
func (s *DatasetSchema) FieldsByType(t DesiredDataType) []string {
	var names []string
	for _, f := range s.Fields {
		if f.DesiredType == t {
			names = append(names, f.Name)
		}
	}
	return names
}

// PlanEntry 转换计划条目，每次运行生成，不持久化
type PlanEntry struct {
	FieldName       string           `json:"field_name"`
	CurrentType     string           `json:"current_type"`
	DesiredType     DesiredDataType  `json:"desired_type"`
	ValidationRules *ValidationRules `json:"validation_rules,omitempty"`
	Priority        AnalysisPriority `json:"priority"`
}

// FieldQuality 单字段质量画像，仅用于报告
type FieldQuality struct {
	Completeness float64          `json:"completeness"`
	UniqueValues int              `json:"unique_values"`
	NullCount    int              `json:"null_count"`
	CurrentType  string           `json:"current_type"`
	DesiredType  DesiredDataType  `json:"desired_type"`
	Priority     AnalysisPriority `json:"analysis_priority"`
	SampleValues []interface{}    `json:"sample_values"`
}
