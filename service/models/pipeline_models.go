/*
 * @module service/models/pipeline_models
 * @description 管道执行指标与数据质量评分模型，覆盖一次执行的全生命周期记录
 * @architecture 数据模型层
 * @documentReference dev_docs/monitoring.md
 * @stateFlow RUNNING -> SUCCESS/WARNING/FAILED，finalize后不可再修改
 * @rules 每次执行恰好一条指标记录；成功率在attempted为0时恒为0，不做除零
 * @dependencies gorm标签, 标准库
 * @refs service/monitoring
 */

package models

import "time"

// ExecutionStatus 管道执行状态
type ExecutionStatus string

const (
	StatusRunning ExecutionStatus = "RUNNING"
	StatusSuccess ExecutionStatus = "SUCCESS"
	StatusWarning ExecutionStatus = "WARNING"
	StatusFailed  ExecutionStatus = "FAILED"
)

// PipelineMetrics 单次管道执行指标，finalize后写盘一次
type PipelineMetrics struct {
	// 标识
	ExecutionID string `json:"execution_id" gorm:"primaryKey;column:execution_id"`
	DatasetName string `json:"dataset_name" gorm:"column:dataset_name;index"`
	Timestamp   string `json:"timestamp" gorm:"column:timestamp;index"`

	// 时间
	StartTime       time.Time  `json:"start_time" gorm:"column:start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" gorm:"column:end_time"`
	DurationSeconds float64    `json:"duration_seconds" gorm:"column:duration_seconds"`

	// 数据量
	InputRows     int `json:"input_rows" gorm:"column:input_rows"`
	OutputRows    int `json:"output_rows" gorm:"column:output_rows"`
	InputColumns  int `json:"input_columns" gorm:"column:input_columns"`
	OutputColumns int `json:"output_columns" gorm:"column:output_columns"`

	// 转换结果
	TransformationsAttempted  int     `json:"transformations_attempted" gorm:"column:transformations_attempted"`
	TransformationsSuccessful int     `json:"transformations_successful" gorm:"column:transformations_successful"`
	TransformationSuccessRate float64 `json:"transformation_success_rate" gorm:"column:transformation_success_rate"`

	// 校验结果
	ExpectationsEvaluated int     `json:"expectations_evaluated" gorm:"column:expectations_evaluated"`
	ExpectationsPassed    int     `json:"expectations_passed" gorm:"column:expectations_passed"`
	ExpectationsFailed    int     `json:"expectations_failed" gorm:"column:expectations_failed"`
	ValidationSuccessRate float64 `json:"validation_success_rate" gorm:"column:validation_success_rate"`

	// 错误追踪
	Errors   []string        `json:"errors" gorm:"serializer:json"`
	Warnings []string        `json:"warnings" gorm:"serializer:json"`
	Status   ExecutionStatus `json:"status" gorm:"column:status;index"`
}

// TableName GORM表名
func (PipelineMetrics) TableName() string {
	return "pipeline_metrics"
}

// DataQualityScore 数据质量评分，按执行生成，生成后不可变
type DataQualityScore struct {
	ID          uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	DatasetName string `json:"dataset_name" gorm:"column:dataset_name;index"`
	ExecutionID string `json:"execution_id" gorm:"column:execution_id"`
	Timestamp   string `json:"timestamp" gorm:"column:timestamp"`

	// 质量维度，0-100
	CompletenessScore float64 `json:"completeness_score" gorm:"column:completeness_score"`
	ValidityScore     float64 `json:"validity_score" gorm:"column:validity_score"`
	ConsistencyScore  float64 `json:"consistency_score" gorm:"column:consistency_score"`
	TimelinessScore   float64 `json:"timeliness_score" gorm:"column:timeliness_score"`

	// 加权综合分：0.3/0.3/0.3/0.1
	OverallQualityScore float64 `json:"overall_quality_score" gorm:"column:overall_quality_score"`

	// 支撑计数
	TotalRecords         int `json:"total_records" gorm:"column:total_records"`
	NullRecords          int `json:"null_records" gorm:"column:null_records"`
	InvalidRecords       int `json:"invalid_records" gorm:"column:invalid_records"`
	TypeConversionErrors int `json:"type_conversion_errors" gorm:"column:type_conversion_errors"`
}

// TableName GORM表名
func (DataQualityScore) TableName() string {
	return "data_quality_scores"
}
