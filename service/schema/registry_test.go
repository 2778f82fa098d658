/*
 * @module service/schema/registry_test
 * @description 数据集schema注册表测试，覆盖查询、关键字段提取与转换计划生成
 * @architecture 测试层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow schema查询 -> 字段校验 -> 计划生成验证
 * @rules 未注册数据集必须硬错误，不允许静默空schema
 * @dependencies testing, github.com/stretchr/testify
 * @refs registry.go
 */

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/models"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		datasetName string
		wantErr     bool
	}{
		{name: "营业执照数据集", datasetName: "business_licenses"},
		{name: "建筑许可数据集", datasetName: "building_permits"},
		{name: "CTA客流数据集", datasetName: "cta_boardings"},
		{name: "未注册数据集报错", datasetName: "unknown_dataset", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Get(tt.datasetName)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.datasetName, s.Name)
			assert.NotEmpty(t, s.Fields)
		})
	}
}

func TestDatasetNames(t *testing.T) {
	names := DatasetNames()
	assert.Equal(t, []string{"business_licenses", "building_permits", "cta_boardings"}, names)

	for _, name := range names {
		_, err := Get(name)
		assert.NoError(t, err)
	}
}

func TestCriticalFields(t *testing.T) {
	fields, err := CriticalFields("business_licenses")
	require.NoError(t, err)

	assert.Contains(t, fields, "community_area")
	assert.Contains(t, fields, "license_start_date")
	assert.Contains(t, fields, "license_status")

	_, err = CriticalFields("unknown_dataset")
	assert.Error(t, err)
}

func TestCurrencyFields(t *testing.T) {
	fields, err := CurrencyFields("building_permits")
	require.NoError(t, err)

	assert.Contains(t, fields, "building_fee_paid")
	assert.Contains(t, fields, "total_fee")

	// 营业执照无货币字段
	licenseFields, err := CurrencyFields("business_licenses")
	require.NoError(t, err)
	assert.Empty(t, licenseFields)
}

func TestGenerateTransformationPlan(t *testing.T) {
	t.Run("类型不一致的字段进入计划", func(t *testing.T) {
		plan, err := GenerateTransformationPlan("business_licenses", map[string]string{
			"community_area":     "object",
			"license_start_date": "object",
			"legal_name":         "string",
		})
		require.NoError(t, err)
		require.Len(t, plan, 2)

		byField := make(map[string]models.PlanEntry)
		for _, entry := range plan {
			byField[entry.FieldName] = entry
		}
		assert.Equal(t, models.TypeInteger, byField["community_area"].DesiredType)
		assert.Equal(t, models.PriorityCritical, byField["community_area"].Priority)
		assert.Equal(t, models.TypeDate, byField["license_start_date"].DesiredType)
	})

	t.Run("已达目标类型的字段不进入计划", func(t *testing.T) {
		plan, err := GenerateTransformationPlan("business_licenses", map[string]string{
			"community_area": "Int64",
		})
		require.NoError(t, err)
		assert.Empty(t, plan)
	})

	t.Run("未注册数据集报错", func(t *testing.T) {
		_, err := GenerateTransformationPlan("unknown_dataset", nil)
		assert.Error(t, err)
	})
}

func TestBusinessRulesRegistered(t *testing.T) {
	licenses, err := Get("business_licenses")
	require.NoError(t, err)
	kinds := make([]models.BusinessRuleKind, 0, len(licenses.BusinessRules))
	for _, r := range licenses.BusinessRules {
		kinds = append(kinds, r.Kind)
	}
	assert.Contains(t, kinds, models.RuleDateOrder)
	assert.Contains(t, kinds, models.RuleRange)
	assert.Contains(t, kinds, models.RuleCoordinateBounds)

	cta, err := Get("cta_boardings")
	require.NoError(t, err)
	kinds = kinds[:0]
	for _, r := range cta.BusinessRules {
		kinds = append(kinds, r.Kind)
	}
	assert.Contains(t, kinds, models.RuleNotFuture)
}
