/*
 * @module service/dataframe/frame_test
 * @description 表格数据结构测试，覆盖列操作、深拷贝、空行删除与记录导出
 * @architecture 测试层
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow 表格构建 -> 列/行操作 -> 状态一致性验证
 * @rules Copy后的修改不影响原表；列顺序稳定
 * @dependencies testing, github.com/stretchr/testify
 * @refs frame.go, series.go
 */

package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame() *Frame {
	f := New()
	f.AddColumn("id", NewSeries([]interface{}{"1", "2", "3"}, DTypeString))
	f.AddColumn("value", NewSeries([]interface{}{1.5, nil, 3.5}, DTypeFloat64))
	return f
}

func TestFrameBasics(t *testing.T) {
	f := sampleFrame()

	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 2, f.NumCols())
	assert.Equal(t, []string{"id", "value"}, f.Columns())
	assert.True(t, f.HasColumn("id"))
	assert.False(t, f.HasColumn("missing"))
	assert.Nil(t, f.Column("missing"))
	assert.Equal(t, "3x2", f.Shape())
	assert.Equal(t, map[string]DType{"id": DTypeString, "value": DTypeFloat64}, f.DTypes())
}

func TestFrameAddColumnOverwriteKeepsOrder(t *testing.T) {
	f := sampleFrame()
	f.AddColumn("id", NewSeries([]interface{}{"a", "b", "c"}, DTypeCategory))

	assert.Equal(t, []string{"id", "value"}, f.Columns())
	assert.Equal(t, DTypeCategory, f.Column("id").DType)
}

func TestFrameCopyIsDeep(t *testing.T) {
	f := sampleFrame()
	cp := f.Copy()

	cp.Column("id").Values[0] = "mutated"
	cp.AddColumn("extra", NewSeries([]interface{}{nil, nil, nil}, DTypeObject))

	assert.Equal(t, "1", f.Column("id").Values[0])
	assert.False(t, f.HasColumn("extra"))
	assert.Equal(t, 3, cp.NumRows())
}

func TestFrameDropColumns(t *testing.T) {
	f := sampleFrame()
	f.DropColumns("value", "not_there")

	assert.Equal(t, []string{"id"}, f.Columns())
	assert.False(t, f.HasColumn("value"))
}

func TestFrameDropAllNullRows(t *testing.T) {
	f := New()
	f.AddColumn("a", NewSeries([]interface{}{"1", nil, nil, "4"}, DTypeString))
	f.AddColumn("b", NewSeries([]interface{}{nil, nil, "3", nil}, DTypeString))

	dropped := f.DropAllNullRows()

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, []interface{}{"1", nil, "4"}, f.Column("a").Values)
	assert.Equal(t, []interface{}{nil, "3", nil}, f.Column("b").Values)
}

func TestFrameCellCounts(t *testing.T) {
	f := sampleFrame()

	assert.Equal(t, 6, f.TotalCells())
	assert.Equal(t, 1, f.NullCells())
}

func TestFromRecordsAndRecords(t *testing.T) {
	records := []map[string]interface{}{
		{"id": "1", "name": "A"},
		{"id": "2"},
	}
	f := FromRecords(records, []string{"id", "name"})

	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, []string{"id", "name"}, f.Columns())
	assert.Nil(t, f.Column("name").Values[1])

	out := f.Records()
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0]["id"])
	assert.Nil(t, out[1]["name"])
}

func TestSeriesStats(t *testing.T) {
	s := NewSeries([]interface{}{"a", "b", "a", nil, nil}, DTypeString)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 2, s.NullCount())
	assert.Equal(t, 3, s.NonNullCount())
	assert.Equal(t, 0.6, s.Completeness())
	assert.Equal(t, 2, s.UniqueCount())
	assert.Equal(t, []interface{}{"a", "b"}, s.SampleValues(2))
}

func TestSeriesMapReturnsNewSeries(t *testing.T) {
	s := NewSeries([]interface{}{"1", "2"}, DTypeObject)
	out := s.Map(DTypeString, func(v interface{}) interface{} {
		return "x"
	})

	assert.Equal(t, []interface{}{"x", "x"}, out.Values)
	assert.Equal(t, DTypeString, out.DType)
	// 原列不被修改
	assert.Equal(t, []interface{}{"1", "2"}, s.Values)
}

func TestIsMissingToken(t *testing.T) {
	for _, token := range []string{"", "nan", "NaN", "None", "null", "NULL"} {
		assert.True(t, IsMissingToken(token), token)
	}
	assert.False(t, IsMissingToken("0"))
	assert.False(t, IsMissingToken("value"))
}
