/*
 * @module service/schema/detector_test
 * @description 字段类型探测器测试，验证有序规则的命中优先级
 * @architecture 测试层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 字段名输入 -> 模式匹配 -> 目标类型验证
 * @rules 先命中的规则生效，同名多关键词不回溯
 * @dependencies testing, github.com/stretchr/testify
 * @refs detector.go
 */

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/models"
)

func TestDetectFieldType(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		expected  models.DesiredDataType
	}{
		{name: "费用字段识别为货币", fieldName: "building_fee_paid", expected: models.TypeCurrency},
		{name: "纬度识别为浮点", fieldName: "latitude", expected: models.TypeFloat},
		{name: "经度识别为浮点", fieldName: "longitude", expected: models.TypeFloat},
		{name: "社区区域识别为整数", fieldName: "community_area", expected: models.TypeInteger},
		{name: "邮编识别为zipcode", fieldName: "contact_zip", expected: models.TypeZipcode},
		{name: "日期后缀识别为日期", fieldName: "application_start_date", expected: models.TypeDate},
		{name: "状态识别为分类", fieldName: "license_status", expected: models.TypeCategory},
		{name: "标识识别为字符串", fieldName: "account_number", expected: models.TypeString},
		{name: "无命中默认字符串", fieldName: "legal_name", expected: models.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFieldType(tt.fieldName, nil))
		})
	}
}

func TestDetectFieldTypeOrdering(t *testing.T) {
	// 同时命中货币和日期关键词时，先声明的货币规则生效
	assert.Equal(t, models.TypeCurrency, DetectFieldType("total_fee_date", nil))

	// 同时命中区划和标识关键词时，区划规则更靠前
	assert.Equal(t, models.TypeInteger, DetectFieldType("ward_id", nil))
}

func TestDetectFieldPattern(t *testing.T) {
	p := DetectFieldPattern("permit_fee")
	require.NotNil(t, p)
	assert.Equal(t, models.TypeCurrency, p.TargetType)
	require.NotNil(t, p.Rules)
	assert.Equal(t, 0.0, *p.Rules.MinValue)
	assert.Equal(t, 1000000.0, *p.Rules.MaxValue)

	assert.Nil(t, DetectFieldPattern("legal_name"))
}
