/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"civicdata-service/service/dataframe"
	"civicdata-service/service/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.PipelineMetrics{},
		&models.DataQualityScore{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"pipeline_metrics",
		"data_quality_scores",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// PipelineMetricsOption 执行指标选项函数类型
type PipelineMetricsOption func(*models.PipelineMetrics)

// CreatePipelineMetrics 创建测试执行指标
func (f *TestDataFactory) CreatePipelineMetrics(opts ...PipelineMetricsOption) *models.PipelineMetrics {
	now := time.Now().UTC()
	end := now
	metrics := &models.PipelineMetrics{
		ExecutionID:               generateID("exec"),
		DatasetName:               "business_licenses",
		Timestamp:                 now.Format(time.RFC3339Nano),
		StartTime:                 now.Add(-time.Minute),
		EndTime:                   &end,
		DurationSeconds:           60.0,
		InputRows:                 1000,
		OutputRows:                1000,
		InputColumns:              30,
		OutputColumns:             30,
		TransformationsAttempted:  30,
		TransformationsSuccessful: 30,
		TransformationSuccessRate: 100.0,
		ExpectationsEvaluated:     20,
		ExpectationsPassed:        20,
		ValidationSuccessRate:     100.0,
		Status:                    models.StatusSuccess,
	}

	// 应用选项
	for _, opt := range opts {
		opt(metrics)
	}

	err := f.DB.Create(metrics).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test pipeline metrics: %v", err))
	}

	return metrics
}

// QualityScoreOption 质量评分选项函数类型
type QualityScoreOption func(*models.DataQualityScore)

// CreateQualityScore 创建测试质量评分
func (f *TestDataFactory) CreateQualityScore(opts ...QualityScoreOption) *models.DataQualityScore {
	score := &models.DataQualityScore{
		ExecutionID:         generateID("exec"),
		DatasetName:         "business_licenses",
		Timestamp:           time.Now().UTC().Format(time.RFC3339Nano),
		CompletenessScore:   95.0,
		ValidityScore:       98.0,
		ConsistencyScore:    100.0,
		TimelinessScore:     100.0,
		OverallQualityScore: 97.9,
		TotalRecords:        1000,
	}

	// 应用选项
	for _, opt := range opts {
		opt(score)
	}

	err := f.DB.Create(score).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test quality score: %v", err))
	}

	return score
}

// NewTestFrame 按列构造测试数据帧，列类型统一为object
func NewTestFrame(columns map[string][]interface{}) *dataframe.Frame {
	f := dataframe.New()
	for name, values := range columns {
		f.AddColumn(name, dataframe.NewSeries(values, dataframe.DTypeObject))
	}
	return f
}

// 辅助函数
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
