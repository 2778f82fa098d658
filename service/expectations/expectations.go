/*
 * @module service/expectations/expectations
 * @description 期望校验引擎：封闭的期望类型集合与逐条求值逻辑，单条失败不截断整套校验
 * @architecture 业务服务层 - 校验引擎
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 数据帧+期望套件 -> 逐条求值 -> 校验汇总(成功率/明细)
 * @rules 值级期望忽略null(非空期望除外)；零条期望时成功率为0不是100；全套必跑完
 * @dependencies 标准库
 * @refs service/expectations/suites, service/pipeline
 */

package expectations

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"civicdata-service/service/dataframe"
)

// ExpectationKind 期望类型，封闭集合
type ExpectationKind string

const (
	KindRowCountBetween     ExpectationKind = "row_count_between"
	KindColumnExists        ExpectationKind = "column_exists"
	KindValuesUnique        ExpectationKind = "values_unique"
	KindValuesNotNull       ExpectationKind = "values_not_null"
	KindValueLengthsBetween ExpectationKind = "value_lengths_between"
	KindValuesBetween       ExpectationKind = "values_between"
	KindDatesBetween        ExpectationKind = "dates_between"
	KindValuesMatchRegex    ExpectationKind = "values_match_regex"
	KindValuesNotMatchRegex ExpectationKind = "values_not_match_regex"
	KindValuesInSet         ExpectationKind = "values_in_set"
	KindColumnOfType        ExpectationKind = "column_of_type"
	KindDatePairOrder       ExpectationKind = "date_pair_order"
	KindMeanBetween         ExpectationKind = "mean_between"
	KindQuantileBetween     ExpectationKind = "quantile_between"
)

// Expectation 单条期望定义，字段按Kind取用
type Expectation struct {
	Kind     ExpectationKind `json:"kind"`
	Column   string          `json:"column,omitempty"`
	ColumnB  string          `json:"column_b,omitempty"`
	Min      float64         `json:"min,omitempty"`
	Max      float64         `json:"max,omitempty"`
	MinDate  string          `json:"min_date,omitempty"`
	Pattern  string          `json:"pattern,omitempty"`
	ValueSet []string        `json:"value_set,omitempty"`
	DType    dataframe.DType `json:"dtype,omitempty"`
	Quantile float64         `json:"quantile,omitempty"`
	Critical bool            `json:"critical,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// ExpectationResult 单条期望求值结果
type ExpectationResult struct {
	Kind            ExpectationKind `json:"kind"`
	Column          string          `json:"column,omitempty"`
	Success         bool            `json:"success"`
	UnexpectedCount int             `json:"unexpected_count"`
	Observed        string          `json:"observed,omitempty"`
}

// ValidationResult 一套期望的校验汇总
type ValidationResult struct {
	DatasetName string              `json:"dataset_name"`
	Success     bool                `json:"success"`
	Evaluated   int                 `json:"evaluated"`
	Successful  int                 `json:"successful"`
	Failed      int                 `json:"failed"`
	SuccessRate float64             `json:"success_rate"`
	Results     []ExpectationResult `json:"results"`
}

// Validate 对数据帧跑完整套期望
func Validate(f *dataframe.Frame, datasetName string) (*ValidationResult, error) {
	suite, err := SuiteFor(datasetName)
	if err != nil {
		return nil, err
	}
	return ValidateSuite(f, datasetName, suite), nil
}

// ValidateSuite 对数据帧逐条求值给定套件
func ValidateSuite(f *dataframe.Frame, datasetName string, suite []Expectation) *ValidationResult {
	result := &ValidationResult{DatasetName: datasetName}
	for _, exp := range suite {
		r := evaluate(f, exp)
		result.Results = append(result.Results, r)
		result.Evaluated++
		if r.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}
	if result.Evaluated > 0 {
		result.SuccessRate = float64(result.Successful) / float64(result.Evaluated) * 100
	}
	result.Success = result.Evaluated > 0 && result.Failed == 0
	return result
}

func evaluate(f *dataframe.Frame, exp Expectation) ExpectationResult {
	r := ExpectationResult{Kind: exp.Kind, Column: exp.Column}
	switch exp.Kind {
	case KindRowCountBetween:
		n := float64(f.NumRows())
		r.Success = n >= exp.Min && n <= exp.Max
		r.Observed = fmt.Sprintf("rows=%d", f.NumRows())
	case KindColumnExists:
		r.Success = f.HasColumn(exp.Column)
	case KindValuesUnique:
		r.Success, r.UnexpectedCount = evalUnique(f, exp.Column)
	case KindValuesNotNull:
		s := f.Column(exp.Column)
		if s == nil {
			return r
		}
		r.UnexpectedCount = s.NullCount()
		r.Success = r.UnexpectedCount == 0
	case KindValueLengthsBetween:
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			n := len(dataframe.StringValue(v))
			return n >= int(exp.Min) && n <= int(exp.Max)
		})
	case KindValuesBetween:
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			n, ok := toFloat(v)
			return ok && n >= exp.Min && n <= exp.Max
		})
	case KindDatesBetween:
		min, _ := time.Parse("2006-01-02", exp.MinDate)
		max := time.Now()
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			t, ok := v.(time.Time)
			return ok && !t.Before(min) && !t.After(max)
		})
	case KindValuesMatchRegex:
		re := regexp.MustCompile(exp.Pattern)
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			return re.MatchString(dataframe.StringValue(v))
		})
	case KindValuesNotMatchRegex:
		re := regexp.MustCompile(exp.Pattern)
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			return !re.MatchString(dataframe.StringValue(v))
		})
	case KindValuesInSet:
		allowed := make(map[string]bool, len(exp.ValueSet))
		for _, v := range exp.ValueSet {
			allowed[v] = true
		}
		r.Success, r.UnexpectedCount = evalNonNull(f, exp.Column, func(v interface{}) bool {
			return allowed[dataframe.StringValue(v)]
		})
	case KindColumnOfType:
		s := f.Column(exp.Column)
		if s == nil {
			return r
		}
		r.Success = s.DType == exp.DType
		r.Observed = string(s.DType)
	case KindDatePairOrder:
		r.Success, r.UnexpectedCount = evalDatePairOrder(f, exp.Column, exp.ColumnB)
	case KindMeanBetween:
		mean, ok := columnMean(f, exp.Column)
		r.Success = ok && mean >= exp.Min && mean <= exp.Max
		r.Observed = fmt.Sprintf("mean=%.2f", mean)
	case KindQuantileBetween:
		q, ok := columnQuantile(f, exp.Column, exp.Quantile)
		r.Success = ok && q >= exp.Min && q <= exp.Max
		r.Observed = fmt.Sprintf("q%.2f=%.2f", exp.Quantile, q)
	}
	return r
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// evalNonNull 值级求值，null单元格不参与
func evalNonNull(f *dataframe.Frame, column string, ok func(interface{}) bool) (bool, int) {
	s := f.Column(column)
	if s == nil {
		return false, 0
	}
	unexpected := 0
	for _, v := range s.Values {
		if v == nil {
			continue
		}
		if !ok(v) {
			unexpected++
		}
	}
	return unexpected == 0, unexpected
}

func evalUnique(f *dataframe.Frame, column string) (bool, int) {
	s := f.Column(column)
	if s == nil {
		return false, 0
	}
	seen := make(map[string]int)
	dup := 0
	for _, v := range s.Values {
		if v == nil {
			continue
		}
		key := dataframe.StringValue(v)
		seen[key]++
		if seen[key] > 1 {
			dup++
		}
	}
	return dup == 0, dup
}

func evalDatePairOrder(f *dataframe.Frame, colA, colB string) (bool, int) {
	a := f.Column(colA)
	b := f.Column(colB)
	if a == nil || b == nil {
		return false, 0
	}
	unexpected := 0
	for i := range a.Values {
		ta, ok1 := a.Values[i].(time.Time)
		tb, ok2 := b.Values[i].(time.Time)
		if !ok1 || !ok2 {
			continue
		}
		if tb.Before(ta) {
			unexpected++
		}
	}
	return unexpected == 0, unexpected
}

func columnMean(f *dataframe.Frame, column string) (float64, bool) {
	s := f.Column(column)
	if s == nil {
		return 0, false
	}
	sum, n := 0.0, 0
	for _, v := range s.Values {
		if x, ok := toFloat(v); ok {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func columnQuantile(f *dataframe.Frame, column string, q float64) (float64, bool) {
	s := f.Column(column)
	if s == nil {
		return 0, false
	}
	var xs []float64
	for _, v := range s.Values {
		if x, ok := toFloat(v); ok {
			xs = append(xs, x)
		}
	}
	if len(xs) == 0 {
		return 0, false
	}
	sort.Float64s(xs)
	idx := int(q * float64(len(xs)-1))
	return xs[idx], true
}
