/*
 * @module service/transform/coercer
 * @description 按目标类型的列级类型收敛器集合，失败值一律置null，绝不让坏值中断整列转换
 * @architecture 业务服务层 - 策略模式
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 原始Series -> 清洗解析 -> 目标dtype Series
 * @rules 单元格级失败静默置null；收敛器本身只在输入Series为nil时返回error
 * @dependencies github.com/spf13/cast
 * @refs service/transform/executor
 */

package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
)

// Coercer 列级类型收敛器，将一列收敛到目标dtype
type Coercer interface {
	Name() string
	Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error)
}

// ForType 按目标类型返回对应收敛器
func ForType(t models.DesiredDataType) Coercer {
	switch t {
	case models.TypeCurrency, models.TypePercentage:
		return CurrencyCoercer{}
	case models.TypeInteger:
		return IntegerCoercer{}
	case models.TypeFloat:
		return FloatCoercer{}
	case models.TypeDate:
		return DateCoercer{}
	case models.TypeCategory:
		return CategoryCoercer{}
	case models.TypeZipcode:
		return ZipcodeCoercer{}
	case models.TypeBoolean:
		return BooleanCoercer{}
	default:
		return StringCoercer{}
	}
}

// CurrencyCoercer 货币列收敛：剥离$、千分位逗号，会计负数括号转负号，解析失败置null
type CurrencyCoercer struct{}

func (CurrencyCoercer) Name() string { return "currency" }

func (c CurrencyCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeFloat64, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		raw = strings.ReplaceAll(raw, "$", "")
		raw = strings.ReplaceAll(raw, ",", "")
		raw = strings.ReplaceAll(raw, "(", "-")
		raw = strings.ReplaceAll(raw, ")", "")
		raw = strings.TrimSpace(raw)
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil
		}
		return f
	}), nil
}

// IntegerCoercer 可空整数列收敛，保留null语义
type IntegerCoercer struct{}

func (IntegerCoercer) Name() string { return "integer" }

func (c IntegerCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeInt64, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		// "12.0"这类浮点写法的整数先按float解析再截断
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil
		}
		return int64(f)
	}), nil
}

// FloatCoercer 浮点列收敛，坐标等数值字段通用
type FloatCoercer struct{}

func (FloatCoercer) Name() string { return "float" }

func (c FloatCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeFloat64, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil
		}
		return f
	}), nil
}

// dateLayouts 按常见程度排序的日期解析格式
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04:05",
}

// ParseDate 逐格式尝试解析日期字符串
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateCoercer 日期列收敛，解析失败置null
type DateCoercer struct{}

func (DateCoercer) Name() string { return "date" }

func (c DateCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeDatetime, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		if t, ok := v.(time.Time); ok {
			return t
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		t, ok := ParseDate(raw)
		if !ok {
			return nil
		}
		return t
	}), nil
}

// CategoryCoercer 分类列收敛：去空白并统一大写
type CategoryCoercer struct{}

func (CategoryCoercer) Name() string { return "category" }

func (c CategoryCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeCategory, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		return strings.ToUpper(raw)
	}), nil
}

var zipRunPattern = regexp.MustCompile(`\d{5}`)

// ZipcodeCoercer 邮编列收敛：提取首个5位数字串，提取不到统一落桶"00000"
type ZipcodeCoercer struct{}

func (ZipcodeCoercer) Name() string { return "zipcode" }

func (c ZipcodeCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeCategory, func(v interface{}) interface{} {
		if v == nil {
			return "00000"
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if m := zipRunPattern.FindString(raw); m != "" {
			return m
		}
		return "00000"
	}), nil
}

// BooleanCoercer 三态布尔收敛：可识别真假写法之外全部置null
type BooleanCoercer struct{}

func (BooleanCoercer) Name() string { return "boolean" }

var (
	truthyTokens = map[string]bool{"y": true, "yes": true, "true": true, "1": true, "active": true}
	falsyTokens  = map[string]bool{"n": true, "no": true, "false": true, "0": true, "inactive": true}
)

func (c BooleanCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	return s.Map(dataframe.DTypeBoolean, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		if b, ok := v.(bool); ok {
			return b
		}
		token := strings.ToLower(strings.TrimSpace(dataframe.StringValue(v)))
		if truthyTokens[token] {
			return true
		}
		if falsyTokens[token] {
			return false
		}
		return nil
	}), nil
}

// StringCoercer 通用字符串收敛：去空白，缺失记号置null；标识字段走StandardizeIDValue
type StringCoercer struct{}

func (StringCoercer) Name() string { return "string" }

// idFieldPattern 字段名含id/permit/license_number/account即按标识字段做强标准化
var idFieldPattern = regexp.MustCompile(`(?i)(id|permit|license_number|account)`)

func (c StringCoercer) Coerce(s *dataframe.Series, fieldName string) (*dataframe.Series, error) {
	if s == nil {
		return nil, fmt.Errorf("字段 %s 的输入列为空", fieldName)
	}
	isID := idFieldPattern.MatchString(fieldName)
	return s.Map(dataframe.DTypeString, func(v interface{}) interface{} {
		if v == nil {
			return nil
		}
		raw := strings.TrimSpace(dataframe.StringValue(v))
		if dataframe.IsMissingToken(raw) {
			return nil
		}
		if isID {
			return StandardizeIDValue(raw)
		}
		return raw
	}), nil
}

var permitPrefixPattern = regexp.MustCompile(`^([bepnBEPN])(\d+)`)

// StandardizeIDValue 标识值标准化：管道复合值统一" | "分隔，许可前缀大写，去掉浮点伪装的尾部".0"
func StandardizeIDValue(raw string) string {
	if strings.Contains(raw, "|") {
		parts := strings.Split(raw, "|")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			cleaned = append(cleaned, standardizeIDToken(p))
		}
		return strings.Join(cleaned, " | ")
	}
	return standardizeIDToken(raw)
}

// numericIDPattern 纯数字形态的标识(允许小数点与连字符)，只有这类值才去尾部".0"
var numericIDPattern = regexp.MustCompile(`^[0-9.-]*[0-9][0-9.-]*$`)

func standardizeIDToken(raw string) string {
	if numericIDPattern.MatchString(raw) {
		raw = strings.TrimSuffix(raw, ".0")
	}
	if m := permitPrefixPattern.FindStringSubmatch(raw); m != nil {
		raw = strings.ToUpper(m[1]) + raw[1:]
	}
	return raw
}
