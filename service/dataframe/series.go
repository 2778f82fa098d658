/*
 * @module service/dataframe/series
 * @description 单列数据结构，提供缺失统计、基数统计、逐值变换等列级操作
 * @architecture 数据结构层 - 批处理数据载体
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 列构建 -> 统计/变换 -> 写回表格
 * @rules nil表示缺失值；Map变换返回新列，原列不被修改
 * @dependencies 标准库, github.com/spf13/cast
 * @refs service/dataframe/frame.go
 */

package dataframe

import (
	"fmt"

	"github.com/spf13/cast"
)

// Series 单列数据，Values中nil表示缺失
type Series struct {
	Values []interface{}
	DType  DType
}

// NewSeries 创建列
func NewSeries(values []interface{}, dtype DType) *Series {
	return &Series{Values: values, DType: dtype}
}

// Copy 深拷贝列
func (s *Series) Copy() *Series {
	values := make([]interface{}, len(s.Values))
	copy(values, s.Values)
	return &Series{Values: values, DType: s.DType}
}

// Len 列长度
func (s *Series) Len() int {
	return len(s.Values)
}

// NullCount 缺失值个数
func (s *Series) NullCount() int {
	count := 0
	for _, v := range s.Values {
		if v == nil {
			count++
		}
	}
	return count
}

// NonNullCount 非缺失值个数
func (s *Series) NonNullCount() int {
	return len(s.Values) - s.NullCount()
}

// Completeness 非缺失比例，空列返回0
func (s *Series) Completeness() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return float64(s.NonNullCount()) / float64(len(s.Values))
}

// UniqueCount 非缺失值去重个数，按字符串形式比较
func (s *Series) UniqueCount() int {
	seen := make(map[string]bool)
	for _, v := range s.Values {
		if v == nil {
			continue
		}
		seen[fmt.Sprintf("%v", v)] = true
	}
	return len(seen)
}

// SampleValues 取前n个非缺失值，用于报告展示
func (s *Series) SampleValues(n int) []interface{} {
	out := make([]interface{}, 0, n)
	for _, v := range s.Values {
		if v == nil {
			continue
		}
		out = append(out, v)
		if len(out) >= n {
			break
		}
	}
	return out
}

// Map 对每个值应用变换函数，返回新列
func (s *Series) Map(dtype DType, fn func(interface{}) interface{}) *Series {
	values := make([]interface{}, len(s.Values))
	for i, v := range s.Values {
		values[i] = fn(v)
	}
	return &Series{Values: values, DType: dtype}
}

// StringValue 单元格的字符串形式，缺失返回空串
func StringValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

// IsMissingToken 判断字符串是否为常见的缺失标记
func IsMissingToken(s string) bool {
	switch s {
	case "", "nan", "NaN", "None", "none", "NONE", "null", "NULL", "<nil>":
		return true
	}
	return false
}
