/*
 * @module service/monitoring/metrics_store_test
 * @description 指标存储测试，覆盖文件、内存与数据库三种实现的读写与时间窗过滤
 * @architecture 测试层
 * @documentReference dev_docs/monitoring.md
 * @stateFlow 指标写入 -> 时间窗加载 -> 排序与过滤验证
 * @rules 坏文件跳过不报错；加载结果按时间升序
 * @dependencies testing, github.com/stretchr/testify, gorm, sqlite
 * @refs metrics_store.go
 */

package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service/models"
	"civicdata-service/testutil"
)

const testWindow = 24 * time.Hour

func sampleMetrics(id, dataset string, ts time.Time) *models.PipelineMetrics {
	return &models.PipelineMetrics{
		ExecutionID: id,
		DatasetName: dataset,
		Timestamp:   ts.Format(time.RFC3339Nano),
		StartTime:   ts,
		Status:      models.StatusSuccess,
	}
}

func TestFileMetricsStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileMetricsStore(dir)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_b", "business_licenses", now)))
	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_a", "building_permits", now.Add(-time.Hour))))
	// 时间窗外的不应返回
	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_old", "cta_boardings", now.Add(-48*time.Hour))))

	loaded, err := store.LoadRecentMetrics(testWindow)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	// 按时间升序
	assert.Equal(t, "exec_a", loaded[0].ExecutionID)
	assert.Equal(t, "exec_b", loaded[1].ExecutionID)
}

func TestFileMetricsStoreSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileMetricsStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_ok", "business_licenses", time.Now())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metrics_broken.json"), []byte("{not json"), 0o644))

	loaded, err := store.LoadRecentMetrics(testWindow)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "exec_ok", loaded[0].ExecutionID)
}

func TestFileMetricsStoreScores(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileMetricsStore(dir)
	require.NoError(t, err)

	score := &models.DataQualityScore{
		ExecutionID:         "exec_1",
		DatasetName:         "business_licenses",
		Timestamp:           time.Now().Format(time.RFC3339Nano),
		OverallQualityScore: 92.5,
	}
	require.NoError(t, store.SaveScore(score))

	loaded, err := store.LoadRecentScores(testWindow)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 92.5, loaded[0].OverallQualityScore)
}

func TestMemoryMetricsStore(t *testing.T) {
	store := NewMemoryMetricsStore()
	now := time.Now()

	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_1", "business_licenses", now)))
	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_old", "cta_boardings", now.Add(-48*time.Hour))))

	loaded, err := store.LoadRecentMetrics(testWindow)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "exec_1", loaded[0].ExecutionID)
}

func TestGormMetricsStore(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	store, err := NewGormMetricsStore(tdb.DB)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.SaveMetrics(sampleMetrics("exec_db", "business_licenses", now)))
	require.NoError(t, store.SaveScore(&models.DataQualityScore{
		ExecutionID:         "exec_db",
		DatasetName:         "business_licenses",
		Timestamp:           now.Format(time.RFC3339Nano),
		OverallQualityScore: 88.0,
	}))

	metrics, err := store.LoadRecentMetrics(testWindow)
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, "exec_db", metrics[0].ExecutionID)

	scores, err := store.LoadRecentScores(testWindow)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 88.0, scores[0].OverallQualityScore)
}
