/*
 * @module service/dataframe/frame
 * @description 内存表格数据结构，提供按列组织的批量数据载体，支持空值、列类型标注和列级操作
 * @architecture 数据结构层 - 批处理数据载体
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 数据摄取 -> 列构建 -> 转换/校验 -> 下游输出
 * @rules 单元格使用nil表示缺失值，列顺序保持稳定，所有修改操作返回后数据保持一致
 * @dependencies 标准库
 * @refs service/transform, service/expectations
 */

package dataframe

import (
	"fmt"
	"strings"
)

// DType 列数据类型标注，命名沿用上游数据约定
type DType string

const (
	DTypeObject   DType = "object"
	DTypeString   DType = "string"
	DTypeInt64    DType = "Int64"
	DTypeFloat64  DType = "float64"
	DTypeDatetime DType = "datetime64[ns]"
	DTypeCategory DType = "category"
	DTypeBoolean  DType = "boolean"
)

// Frame 按列组织的内存表格批次
// 单元格值为interface{}，nil表示缺失
type Frame struct {
	columns []string
	series  map[string]*Series
	rows    int
}

// New 创建空表格
func New() *Frame {
	return &Frame{
		columns: []string{},
		series:  make(map[string]*Series),
	}
}

// FromRecords 从行记录构建表格，列顺序按columns给定
// 记录中缺失的键填充为nil
func FromRecords(records []map[string]interface{}, columns []string) *Frame {
	f := New()
	for _, col := range columns {
		values := make([]interface{}, len(records))
		for i, rec := range records {
			values[i] = rec[col]
		}
		f.AddColumn(col, NewSeries(values, DTypeObject))
	}
	return f
}

// AddColumn 追加一列，若列已存在则覆盖并保持原顺序
func (f *Frame) AddColumn(name string, s *Series) {
	if _, exists := f.series[name]; !exists {
		f.columns = append(f.columns, name)
	}
	f.series[name] = s
	if len(s.Values) > f.rows {
		f.rows = len(s.Values)
	}
}

// SetColumn 替换已有列的内容，列不存在时等价于AddColumn
func (f *Frame) SetColumn(name string, s *Series) {
	f.AddColumn(name, s)
}

// Column 获取指定列，不存在返回nil
func (f *Frame) Column(name string) *Series {
	return f.series[name]
}

// HasColumn 判断列是否存在
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.series[name]
	return ok
}

// Columns 返回稳定顺序的列名列表
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// NumRows 行数
func (f *Frame) NumRows() int {
	return f.rows
}

// NumCols 列数
func (f *Frame) NumCols() int {
	return len(f.columns)
}

// DTypes 返回各列类型标注
func (f *Frame) DTypes() map[string]DType {
	out := make(map[string]DType, len(f.columns))
	for _, col := range f.columns {
		out[col] = f.series[col].DType
	}
	return out
}

// Copy 深拷贝表格，列内容与类型标注均复制
func (f *Frame) Copy() *Frame {
	out := New()
	for _, col := range f.columns {
		out.AddColumn(col, f.series[col].Copy())
	}
	out.rows = f.rows
	return out
}

// DropColumns 删除指定列，忽略不存在的列名
func (f *Frame) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := f.columns[:0]
	for _, col := range f.columns {
		if drop[col] {
			delete(f.series, col)
			continue
		}
		kept = append(kept, col)
	}
	f.columns = kept
}

// DropAllNullRows 删除所有列均为缺失值的行，返回删除的行数
func (f *Frame) DropAllNullRows() int {
	if f.rows == 0 || len(f.columns) == 0 {
		return 0
	}
	keep := make([]bool, f.rows)
	kept := 0
	for i := 0; i < f.rows; i++ {
		for _, col := range f.columns {
			s := f.series[col]
			if i < len(s.Values) && s.Values[i] != nil {
				keep[i] = true
				kept++
				break
			}
		}
	}
	dropped := f.rows - kept
	if dropped == 0 {
		return 0
	}
	for _, col := range f.columns {
		s := f.series[col]
		values := make([]interface{}, 0, kept)
		for i := 0; i < f.rows; i++ {
			if keep[i] {
				var v interface{}
				if i < len(s.Values) {
					v = s.Values[i]
				}
				values = append(values, v)
			}
		}
		s.Values = values
	}
	f.rows = kept
	return dropped
}

// TotalCells 单元格总数
func (f *Frame) TotalCells() int {
	return f.rows * len(f.columns)
}

// NullCells 缺失单元格总数
func (f *Frame) NullCells() int {
	total := 0
	for _, col := range f.columns {
		total += f.series[col].NullCount()
	}
	return total
}

// Records 按行导出记录，缺失值导出为nil
func (f *Frame) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, f.rows)
	for i := 0; i < f.rows; i++ {
		rec := make(map[string]interface{}, len(f.columns))
		for _, col := range f.columns {
			s := f.series[col]
			if i < len(s.Values) {
				rec[col] = s.Values[i]
			} else {
				rec[col] = nil
			}
		}
		out[i] = rec
	}
	return out
}

// Shape 返回"行x列"描述，用于日志
func (f *Frame) Shape() string {
	return fmt.Sprintf("%dx%d", f.rows, len(f.columns))
}

// String 简要描述，便于调试输出
func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%s)[%s]", f.Shape(), strings.Join(f.columns, ","))
}
