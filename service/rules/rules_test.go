/*
 * @module service/rules/rules_test
 * @description 业务规则引擎测试，覆盖范围置空、费用下限、日期修复、坐标边界与未来日期
 * @architecture 测试层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 规则声明 -> 数据帧应用 -> 修正结果验证
 * @rules 规则就地修改数据帧；缺列跳过不报错
 * @dependencies testing, github.com/stretchr/testify
 * @refs rules.go
 */

package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

func TestApplyRangeRule(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("community_area", dataframe.NewSeries(
		[]interface{}{int64(1), int64(77), int64(78), int64(-1), nil}, dataframe.DTypeInt64))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{models.RangeRule("community_area", 1, 77)},
	}
	result := Apply(f, s)

	assert.Equal(t, []interface{}{int64(1), int64(77), nil, nil, nil}, f.Column("community_area").Values)
	assert.Equal(t, 2, result.TotalViolations)
	assert.Equal(t, 2, result.TotalCorrected)
}

func TestApplyNonNegativeRule(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("building_fee_paid", dataframe.NewSeries(
		[]interface{}{100.0, -5.0, nil}, dataframe.DTypeFloat64))
	f.AddColumn("total_fee", dataframe.NewSeries(
		[]interface{}{-1.0, 50.0, 0.0}, dataframe.DTypeFloat64))
	f.AddColumn("legal_name", dataframe.NewSeries(
		[]interface{}{"A", "B", "C"}, dataframe.DTypeString))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{models.NonNegativeRule("fee")},
	}
	result := Apply(f, s)

	// 负值归零而非置null
	assert.Equal(t, []interface{}{100.0, float64(0), nil}, f.Column("building_fee_paid").Values)
	assert.Equal(t, []interface{}{float64(0), 50.0, 0.0}, f.Column("total_fee").Values)
	// 非费用列不受影响
	assert.Equal(t, []interface{}{"A", "B", "C"}, f.Column("legal_name").Values)
	assert.Equal(t, 2, result.TotalCorrected)
}

func TestApplyDateOrderRule(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	badEnd := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	goodEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	f := dataframe.New()
	f.AddColumn("license_start_date", dataframe.NewSeries(
		[]interface{}{start, start, nil}, dataframe.DTypeDatetime))
	f.AddColumn("expiration_date", dataframe.NewSeries(
		[]interface{}{badEnd, goodEnd, badEnd}, dataframe.DTypeDatetime))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{models.DateOrderRule("license_start_date", "expiration_date")},
	}
	result := Apply(f, s)

	// 颠倒的结束日期按开始日期加一年修复
	assert.Equal(t, start.AddDate(1, 0, 0), f.Column("expiration_date").Values[0])
	// 顺序正确的保持原值
	assert.Equal(t, goodEnd, f.Column("expiration_date").Values[1])
	// 缺开始日期的不处理
	assert.Equal(t, badEnd, f.Column("expiration_date").Values[2])
	assert.Equal(t, 1, result.TotalCorrected)
}

func TestApplyCoordinateBoundsRule(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("latitude", dataframe.NewSeries(
		[]interface{}{41.88, 10.0, 41.95}, dataframe.DTypeFloat64))
	f.AddColumn("longitude", dataframe.NewSeries(
		[]interface{}{-87.63, -87.70, 0.0}, dataframe.DTypeFloat64))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{
			models.CoordinateBoundsRule("latitude", 41.6, 42.1, "longitude", -87.9, -87.5),
		},
	}
	result := Apply(f, s)

	// 经纬度独立校验：单列越界只置该列null，另一列保留
	assert.Equal(t, []interface{}{41.88, nil, 41.95}, f.Column("latitude").Values)
	assert.Equal(t, []interface{}{-87.63, -87.70, nil}, f.Column("longitude").Values)
	assert.Equal(t, 2, result.TotalCorrected)
}

func TestApplyNotFutureRule(t *testing.T) {
	past := time.Now().AddDate(0, -1, 0)
	future := time.Now().AddDate(0, 1, 0)

	f := dataframe.New()
	f.AddColumn("service_date", dataframe.NewSeries(
		[]interface{}{past, future, nil}, dataframe.DTypeDatetime))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{models.NotFutureRule("service_date")},
	}
	result := Apply(f, s)

	assert.Equal(t, past, f.Column("service_date").Values[0])
	assert.Nil(t, f.Column("service_date").Values[1])
	assert.Equal(t, 1, result.TotalCorrected)
}

func TestApplyMissingColumnSkipped(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("other", dataframe.NewSeries([]interface{}{1.0}, dataframe.DTypeFloat64))

	s := &models.DatasetSchema{
		BusinessRules: []models.BusinessRule{models.RangeRule("community_area", 1, 77)},
	}
	result := Apply(f, s)

	require.Len(t, result.Applications, 1)
	assert.True(t, result.Applications[0].Skipped)
	assert.Equal(t, 0, result.TotalViolations)
}
