/*
 * @module service/transform/coercer_test
 * @description 类型收敛器测试，覆盖货币、整数、日期、邮编、布尔与标识标准化
 * @architecture 测试层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 测试数据输入 -> 收敛器应用 -> 结果验证
 * @rules 单元格级失败必须置null而非报错
 * @dependencies testing, github.com/stretchr/testify
 * @refs coercer.go
 */

package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

func TestCurrencyCoercer(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected []interface{}
	}{
		{
			name:     "美元符号和千分位",
			input:    []interface{}{"$1,234.56", "$100", "250.75"},
			expected: []interface{}{1234.56, 100.0, 250.75},
		},
		{
			name:     "会计负数括号",
			input:    []interface{}{"(500)", "($1,000.00)"},
			expected: []interface{}{-500.0, -1000.0},
		},
		{
			name:     "无法解析置null",
			input:    []interface{}{"garbage", "", nil, "N/A"},
			expected: []interface{}{nil, nil, nil, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dataframe.NewSeries(tt.input, dataframe.DTypeObject)
			out, err := CurrencyCoercer{}.Coerce(s, "total_fee")
			require.NoError(t, err)
			assert.Equal(t, dataframe.DTypeFloat64, out.DType)
			assert.Equal(t, tt.expected, out.Values)
		})
	}
}

func TestIntegerCoercer(t *testing.T) {
	s := dataframe.NewSeries([]interface{}{"12", "12.0", "12.9", "bad", nil}, dataframe.DTypeObject)
	out, err := IntegerCoercer{}.Coerce(s, "community_area")
	require.NoError(t, err)

	assert.Equal(t, dataframe.DTypeInt64, out.DType)
	// 浮点写法截断为整数，坏值置null
	assert.Equal(t, []interface{}{int64(12), int64(12), int64(12), nil, nil}, out.Values)
}

func TestDateCoercer(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		check func(t *testing.T, v interface{})
	}{
		{
			name:  "ISO日期",
			input: "2024-03-15",
			check: func(t *testing.T, v interface{}) {
				parsed, ok := v.(time.Time)
				require.True(t, ok)
				assert.Equal(t, 2024, parsed.Year())
				assert.Equal(t, time.March, parsed.Month())
				assert.Equal(t, 15, parsed.Day())
			},
		},
		{
			name:  "美式斜杠日期",
			input: "03/15/2024",
			check: func(t *testing.T, v interface{}) {
				parsed, ok := v.(time.Time)
				require.True(t, ok)
				assert.Equal(t, time.March, parsed.Month())
			},
		},
		{
			name:  "带毫秒的时间戳",
			input: "2024-03-15T10:30:00.000",
			check: func(t *testing.T, v interface{}) {
				parsed, ok := v.(time.Time)
				require.True(t, ok)
				assert.Equal(t, 10, parsed.Hour())
			},
		},
		{
			name:  "无法解析置null",
			input: "not-a-date",
			check: func(t *testing.T, v interface{}) {
				assert.Nil(t, v)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dataframe.NewSeries([]interface{}{tt.input}, dataframe.DTypeObject)
			out, err := DateCoercer{}.Coerce(s, "license_start_date")
			require.NoError(t, err)
			assert.Equal(t, dataframe.DTypeDatetime, out.DType)
			tt.check(t, out.Values[0])
		})
	}
}

func TestCategoryCoercer(t *testing.T) {
	s := dataframe.NewSeries([]interface{}{"  issued ", "AAI", nil, "nan"}, dataframe.DTypeObject)
	out, err := CategoryCoercer{}.Coerce(s, "license_status")
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"ISSUED", "AAI", nil, nil}, out.Values)
}

func TestZipcodeCoercer(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{name: "标准五位邮编", input: "60601", expected: "60601"},
		{name: "九位邮编取前五位", input: "60601-1234", expected: "60601"},
		{name: "嵌在文本中的邮编", input: "Chicago IL 60614", expected: "60614"},
		{name: "无五位数字串落桶", input: "nope", expected: "00000"},
		{name: "null落桶", input: nil, expected: "00000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := dataframe.NewSeries([]interface{}{tt.input}, dataframe.DTypeObject)
			out, err := ZipcodeCoercer{}.Coerce(s, "zip_code")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Values[0])
		})
	}
}

func TestBooleanCoercer(t *testing.T) {
	s := dataframe.NewSeries(
		[]interface{}{"Y", "yes", "TRUE", "1", "active", "N", "no", "FALSE", "0", "inactive", "maybe", nil},
		dataframe.DTypeObject,
	)
	out, err := BooleanCoercer{}.Coerce(s, "conditional_approval")
	require.NoError(t, err)

	expected := []interface{}{
		true, true, true, true, true,
		false, false, false, false, false,
		nil, nil,
	}
	assert.Equal(t, expected, out.Values)
}

func TestStandardizeIDValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "管道复合值统一分隔", input: "100123|100456", expected: "100123 | 100456"},
		{name: "管道复合值去空白", input: " 100123 |  100456 ", expected: "100123 | 100456"},
		{name: "许可前缀大写", input: "b1234567", expected: "B1234567"},
		{name: "电气许可前缀", input: "e100555", expected: "E100555"},
		{name: "尾部浮点伪装去除", input: "100123.0", expected: "100123"},
		{name: "仅数字形态才去尾部.0", input: "p98765.0", expected: "P98765.0"},
		{name: "非数字值保留.0", input: "ABC.0", expected: "ABC.0"},
		{name: "带连字符的数字标识去.0", input: "12-345.0", expected: "12-345"},
		{name: "普通值原样保留", input: "ABC-123", expected: "ABC-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StandardizeIDValue(tt.input))
		})
	}
}

func TestStringCoercerIDFields(t *testing.T) {
	s := dataframe.NewSeries([]interface{}{"b1234567", "100|200", "100123.0"}, dataframe.DTypeObject)
	out, err := StringCoercer{}.Coerce(s, "license_number")
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"B1234567", "100 | 200", "100123"}, out.Values)

	// 非标识字段不做强标准化
	out2, err := StringCoercer{}.Coerce(s, "legal_name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"b1234567", "100|200", "100123.0"}, out2.Values)
}

func TestStringCoercerIDFieldMatching(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		isID      bool
	}{
		{name: "精确id", fieldName: "id", isID: true},
		{name: "id后缀", fieldName: "account_number", isID: true},
		{name: "permit前缀字段", fieldName: "permit_", isID: true},
		{name: "permit_number字段", fieldName: "permit_number", isID: true},
		{name: "license_number字段", fieldName: "license_number", isID: true},
		{name: "非标识字段", fieldName: "legal_name", isID: false},
		{name: "城市字段", fieldName: "city", isID: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isID, idFieldPattern.MatchString(tt.fieldName))
		})
	}
}

func TestForTypeDispatch(t *testing.T) {
	assert.Equal(t, "currency", ForType(models.TypeCurrency).Name())
	assert.Equal(t, "currency", ForType(models.TypePercentage).Name())
	assert.Equal(t, "integer", ForType(models.TypeInteger).Name())
	assert.Equal(t, "date", ForType(models.TypeDate).Name())
	assert.Equal(t, "zipcode", ForType(models.TypeZipcode).Name())
	assert.Equal(t, "boolean", ForType(models.TypeBoolean).Name())
	assert.Equal(t, "string", ForType(models.TypeString).Name())
}
