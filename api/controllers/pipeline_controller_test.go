/*
 * @module api/controllers/pipeline_controller_test
 * @description 管道控制器测试，覆盖执行记录列表的分页行为
 * @architecture 测试层
 * @documentReference dev_docs/api.md
 * @stateFlow 内存指标存储预置数据 -> 控制器调用 -> 分页响应验证
 * @rules 越界页码返回空列表而非错误；total始终为时间窗内全量条数
 * @dependencies testing, net/http/httptest, github.com/stretchr/testify
 * @refs pipeline_controller.go
 */

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdata-service/service"
	"civicdata-service/service/models"
	"civicdata-service/service/monitoring"
)

func seedExecutions(t *testing.T, n int) {
	t.Helper()
	store := monitoring.NewMemoryMetricsStore()
	for i := 0; i < n; i++ {
		err := store.SaveMetrics(&models.PipelineMetrics{
			ExecutionID: fmt.Sprintf("exec_%03d", i),
			DatasetName: "business_licenses",
			Timestamp:   time.Now().Add(time.Duration(i) * time.Minute).Format(time.RFC3339Nano),
			Status:      models.StatusSuccess,
		})
		require.NoError(t, err)
	}
	service.GlobalMetricsStore = store
}

func listExecutions(t *testing.T, query string) PaginatedResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/pipeline/executions"+query, nil)
	rec := httptest.NewRecorder()
	NewPipelineController().ListExecutions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListExecutionsPagination(t *testing.T) {
	seedExecutions(t, 5)

	tests := []struct {
		name     string
		query    string
		wantLen  int
		wantPage int
		wantSize int
	}{
		{"默认分页返回全部5条", "", 5, 1, 20},
		{"第二页每页2条", "?page=2&size=2", 2, 2, 2},
		{"末页不足一页", "?page=3&size=2", 1, 3, 2},
		{"越界页码返回空列表", "?page=9&size=2", 0, 9, 2},
		{"非法参数回落默认值", "?page=0&size=-1", 5, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := listExecutions(t, tt.query)
			assert.Equal(t, 0, resp.Status)
			assert.Equal(t, int64(5), resp.Total)
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, tt.wantSize, resp.Size)
			data, ok := resp.Data.([]interface{})
			if tt.wantLen == 0 {
				if ok {
					assert.Len(t, data, 0)
				}
				return
			}
			require.True(t, ok)
			assert.Len(t, data, tt.wantLen)
		})
	}
}
