/*
 * @module service/datasource/socrata_test
 * @description SODA分页拉取器测试，覆盖分页终止、请求参数与错误重试
 * @architecture 测试层
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 模拟门户服务 -> 分页拉取 -> 数据帧验证
 * @rules 短页即最后一页；未配置资源ID硬错误
 * @dependencies testing, net/http/httptest, github.com/stretchr/testify
 * @refs socrata.go
 */

package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(ts *httptest.Server, pageSize int) *SocrataFetcher {
	return &SocrataFetcher{
		BaseURL:  ts.URL,
		AppToken: "test-token",
		PageSize: pageSize,
		Client:   ts.Client(),
	}
}

func TestFetchDatasetPaging(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		assert.Equal(t, "test-token", r.Header.Get("X-App-Token"))

		offset := r.URL.Query().Get("$offset")
		var page []map[string]interface{}
		if offset == "0" {
			// 满页，继续翻页
			page = []map[string]interface{}{
				{"id": "1", "total_rides": "100"},
				{"id": "2", "total_rides": "200"},
			}
		} else {
			// 短页，终止
			page = []map[string]interface{}{
				{"id": "3"},
			}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer ts.Close()

	f, err := newTestFetcher(ts, 2).FetchDataset(context.Background(), "cta_boardings")
	require.NoError(t, err)

	assert.Len(t, requests, 2)
	assert.Equal(t, 3, f.NumRows())
	assert.True(t, f.HasColumn("id"))
	assert.True(t, f.HasColumn("total_rides"))
	// 短页记录里缺的列补nil
	assert.Nil(t, f.Column("total_rides").Values[2])
}

func TestFetchDatasetNormalizesColumns(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"LICENSE DESCRIPTION": "RETAIL", "ZIP Code": "60601", "Total Fee ($)": "100"},
		})
	}))
	defer ts.Close()

	f, err := newTestFetcher(ts, 10).FetchDataset(context.Background(), "business_licenses")
	require.NoError(t, err)

	// 门户原始列名统一归一为小写下划线，才能和schema注册表对上
	assert.True(t, f.HasColumn("license_description"))
	assert.True(t, f.HasColumn("zip_code"))
	assert.True(t, f.HasColumn("total_fee"))
	assert.False(t, f.HasColumn("LICENSE DESCRIPTION"))
	assert.Equal(t, "RETAIL", f.Column("license_description").Values[0])
}

func TestFetchPageDecodesLegacyBytes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Windows-1252的é(0xE9)，非法UTF-8字节
		w.Write([]byte{'[', '{', '"', 'l', 'e', 'g', 'a', 'l', '_', 'n', 'a', 'm', 'e', '"', ':', '"', 'C', 'a', 'f', 0xE9, '"', '}', ']'})
	}))
	defer ts.Close()

	f, err := newTestFetcher(ts, 10).FetchDataset(context.Background(), "business_licenses")
	require.NoError(t, err)
	assert.Equal(t, "Café", f.Column("legal_name").Values[0])
}

func TestFetchDatasetUnknown(t *testing.T) {
	fetcher := &SocrataFetcher{}
	_, err := fetcher.FetchDataset(context.Background(), "unknown_dataset")
	assert.Error(t, err)
}

func TestFetchPageRetriesThenFails(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer ts.Close()

	fetcher := newTestFetcher(ts, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := fetcher.FetchDataset(ctx, "business_licenses")
	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFetchPageRecoversAfterRetry(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "try again", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{{"id": "1"}})
	}))
	defer ts.Close()

	f, err := newTestFetcher(ts, 10).FetchDataset(context.Background(), "building_permits")
	require.NoError(t, err)
	assert.Equal(t, 1, f.NumRows())
	assert.Equal(t, 2, attempts)
}
