/*
 * @module service/emergency/processor_test
 * @description 应急降级处理器测试，覆盖健康检查独立性、五段式清洗与性能汇总
 * @architecture 测试层
 * @documentReference dev_docs/emergency.md
 * @stateFlow 脏数据输入 -> 五段清洗 -> 修复结果验证
 * @rules 降级就绪状态不依赖主通道可用性
 * @dependencies testing, github.com/stretchr/testify
 * @refs processor.go
 */

package emergency

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/dataframe"
)

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		probe          PrimaryProbe
		wantPrimary    bool
		wantAction     string
	}{
		{
			name:        "主通道可用",
			probe:       func() error { return nil },
			wantPrimary: true,
			wantAction:  "continue_primary",
		},
		{
			name:        "主通道探测失败",
			probe:       func() error { return errors.New("schema加载失败") },
			wantPrimary: false,
			wantAction:  "use_emergency_fallback",
		},
		{
			name:        "无探测函数视为不可用",
			probe:       nil,
			wantPrimary: false,
			wantAction:  "use_emergency_fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewProcessor(tt.probe).CheckHealth()
			assert.Equal(t, tt.wantPrimary, hc.PrimaryAvailable)
			// 降级就绪与主通道可用性互相独立
			assert.True(t, hc.FallbackReady)
			assert.Equal(t, tt.wantAction, hc.RecommendedAction)
		})
	}
}

func TestCleanFixesDateOrder(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("license_start_date", dataframe.NewSeries(
		[]interface{}{"2025-06-01", "2024-01-01"}, dataframe.DTypeObject))
	f.AddColumn("expiration_date", dataframe.NewSeries(
		[]interface{}{"2024-01-01", "2025-01-01"}, dataframe.DTypeObject))

	p := NewProcessor(nil)
	cleaned := p.Clean(map[string]*dataframe.Frame{"business_licenses": f})

	end := cleaned["business_licenses"].Column("expiration_date")
	require.NotNil(t, end)

	// 颠倒的到期日按起始日加一年修复
	fixed, ok := end.Values[0].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), fixed)

	// 顺序正确的保持原值
	kept, ok := end.Values[1].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2025, kept.Year())

	// 输入帧不被修改
	assert.Equal(t, dataframe.DTypeObject, f.Column("expiration_date").DType)
}

func TestCleanFixesContamination(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("zip_code", dataframe.NewSeries(
		[]interface{}{`"60601"`, "'60614'", "garbage"}, dataframe.DTypeObject))
	f.AddColumn("permit_", dataframe.NewSeries(
		[]interface{}{"B#123!456", "P-789", "N100"}, dataframe.DTypeObject))

	p := NewProcessor(nil)
	cleaned := p.Clean(map[string]*dataframe.Frame{"building_permits": f})

	out := cleaned["building_permits"]
	zip := out.Column("zip_code")
	require.NotNil(t, zip)
	assert.Equal(t, "60601", zip.Values[0])
	assert.Equal(t, "60614", zip.Values[1])
	assert.Nil(t, zip.Values[2])

	id := out.Column("permit_")
	require.NotNil(t, id)
	// 标识字段仅保留字母数字和连字符
	assert.Equal(t, "B123456", id.Values[0])
	assert.Equal(t, "P-789", id.Values[1])
}

func TestCleanStandardizesTypes(t *testing.T) {
	rows := 12
	dates := make([]interface{}, rows)
	areas := make([]interface{}, rows)
	cities := make([]interface{}, rows)
	for i := 0; i < rows; i++ {
		dates[i] = "2024-03-01"
		areas[i] = "5"
		cities[i] = "CHICAGO"
	}
	areas[2] = "bad"

	f := dataframe.New()
	f.AddColumn("date_issued", dataframe.NewSeries(dates, dataframe.DTypeObject))
	f.AddColumn("community_area", dataframe.NewSeries(areas, dataframe.DTypeObject))
	f.AddColumn("city", dataframe.NewSeries(cities, dataframe.DTypeObject))

	p := NewProcessor(nil)
	cleaned := p.Clean(map[string]*dataframe.Frame{"building_permits": f})
	out := cleaned["building_permits"]

	assert.Equal(t, dataframe.DTypeDatetime, out.Column("date_issued").DType)
	area := out.Column("community_area")
	assert.Equal(t, dataframe.DTypeFloat64, area.DType)
	assert.Equal(t, 5.0, area.Values[0])
	assert.Nil(t, area.Values[2])
	// 低基数分类字段转category
	assert.Equal(t, dataframe.DTypeCategory, out.Column("city").DType)
}

func TestCleanOptionalFields(t *testing.T) {
	rows := 100
	nearlyEmpty := make([]interface{}, rows)
	nearlyEmpty[0] = "x"
	sparse := make([]interface{}, rows)
	for i := 0; i < 10; i++ {
		sparse[i] = "filled"
	}
	full := make([]interface{}, rows)
	for i := range full {
		full[i] = "v"
	}

	f := dataframe.New()
	f.AddColumn("nearly_empty", dataframe.NewSeries(nearlyEmpty, dataframe.DTypeObject))
	f.AddColumn("sparse_text", dataframe.NewSeries(sparse, dataframe.DTypeObject))
	f.AddColumn("full_col", dataframe.NewSeries(full, dataframe.DTypeObject))

	p := NewProcessor(nil)
	cleaned := p.Clean(map[string]*dataframe.Frame{"cta_boardings": f})
	out := cleaned["cta_boardings"]

	// 完成率1%的列被删除
	assert.False(t, out.HasColumn("nearly_empty"))
	// 完成率10%的文本列null补UNKNOWN
	sparseCol := out.Column("sparse_text")
	require.NotNil(t, sparseCol)
	assert.Equal(t, "UNKNOWN", sparseCol.Values[50])
	assert.Equal(t, "filled", sparseCol.Values[0])
	assert.True(t, out.HasColumn("full_col"))
}

func TestCleanDropsAllNullRows(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("a", dataframe.NewSeries([]interface{}{"1", nil, "3"}, dataframe.DTypeObject))
	f.AddColumn("b", dataframe.NewSeries([]interface{}{"x", nil, nil}, dataframe.DTypeObject))

	p := NewProcessor(nil)
	cleaned := p.Clean(map[string]*dataframe.Frame{"building_permits": f})

	assert.Equal(t, 2, cleaned["building_permits"].NumRows())
}

func TestPerformanceSummaryAndLog(t *testing.T) {
	f := dataframe.New()
	f.AddColumn("date_issued", dataframe.NewSeries(
		[]interface{}{"2024-01-01", "2024-01-02"}, dataframe.DTypeObject))

	p := NewProcessor(nil)
	p.Clean(map[string]*dataframe.Frame{"building_permits": f})

	report := p.PerformanceSummary()
	assert.Equal(t, 2, report.TotalRows)
	assert.GreaterOrEqual(t, report.DurationSeconds, 0.0)
	// object列转为datetime计满分
	assert.Equal(t, 100.0, report.SuccessRate)

	log := p.CleaningLog()
	assert.NotEmpty(t, log)
	assert.Contains(t, log[0], "应急手工清洗启动")
}
