/*
 * @module service/datasource/socrata
 * @description 芝加哥开放数据门户(Socrata SODA API)的分页拉取实现，带重试与App Token鉴权
 * @architecture 数据接入层 - HTTP客户端
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 按$limit/$offset分页 -> 响应解码 -> 列名归一化 -> JSON记录累积 -> 构建数据帧
 * @rules 页内失败指数退避重试3次；整页仍失败时返回error不返回半批数据；
 *        App Token缺失时匿名访问(受门户限流)；旧数据集响应按Windows-1252解码；
 *        列名统一归一为小写下划线后再进schema匹配
 * @dependencies 标准库net/http
 * @refs service/utils/crypto_utils.go, service/pipeline
 */

package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"civicdata-service/service/dataframe"
	"civicdata-service/service/utils"
)

// datasetResources 数据集名到门户资源ID的映射
var datasetResources = map[string]string{
	"business_licenses": "r5kz-chrr",
	"building_permits":  "ydr8-5enu",
	"cta_boardings":     "6iiy-9s97",
}

const (
	defaultBaseURL  = "https://data.cityofchicago.org/resource"
	defaultPageSize = 5000
	maxRetries      = 3
)

// converter 接入侧转换器：响应字节解码与列名归一化
var converter = utils.NewDataConverter()

// SocrataFetcher SODA API分页拉取器
type SocrataFetcher struct {
	BaseURL  string
	AppToken string
	PageSize int
	Client   *http.Client
}

// NewSocrataFetcher 从环境构建拉取器。SOCRATA_APP_TOKEN_ENC为AES加密的App Token
func NewSocrataFetcher() *SocrataFetcher {
	token := ""
	if enc := os.Getenv("SOCRATA_APP_TOKEN_ENC"); enc != "" {
		decrypted, err := utils.NewCryptoUtils(os.Getenv("CRYPTO_KEY")).AESDecrypt(enc)
		if err != nil {
			slog.Warn("App Token解密失败，使用匿名访问", "error", err)
		} else {
			token = decrypted
		}
	}
	return &SocrataFetcher{
		BaseURL:  defaultBaseURL,
		AppToken: token,
		PageSize: defaultPageSize,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// FetchDataset 分页拉取整个数据集
func (s *SocrataFetcher) FetchDataset(ctx context.Context, datasetName string) (*dataframe.Frame, error) {
	resource, ok := datasetResources[datasetName]
	if !ok {
		return nil, fmt.Errorf("数据集 %s 未配置门户资源ID", datasetName)
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var records []map[string]interface{}
	var columns []string
	seen := make(map[string]bool)

	for offset := 0; ; offset += pageSize {
		page, err := s.fetchPage(ctx, resource, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("拉取 %s offset=%d 失败: %w", datasetName, offset, err)
		}
		for _, rec := range page {
			normalized := make(map[string]interface{}, len(rec))
			for k, v := range rec {
				name := converter.NormalizeColumnName(k)
				normalized[name] = v
				if !seen[name] {
					seen[name] = true
					columns = append(columns, name)
				}
			}
			records = append(records, normalized)
		}
		if len(page) < pageSize {
			break
		}
	}

	slog.Info("数据集拉取完成", "dataset", datasetName, "rows", len(records), "columns", len(columns))
	return dataframe.FromRecords(records, columns), nil
}

// fetchPage 拉取单页，指数退避重试
func (s *SocrataFetcher) fetchPage(ctx context.Context, resource string, limit, offset int) ([]map[string]interface{}, error) {
	endpoint := fmt.Sprintf("%s/%s.json?%s", s.BaseURL, resource, url.Values{
		"$limit":  {fmt.Sprint(limit)},
		"$offset": {fmt.Sprint(offset)},
		"$order":  {":id"},
	}.Encode())

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		page, err := s.doRequest(ctx, endpoint)
		if err == nil {
			return page, nil
		}
		lastErr = err
		slog.Warn("门户请求失败，准备重试", "endpoint", endpoint, "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

func (s *SocrataFetcher) doRequest(ctx context.Context, endpoint string) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.AppToken != "" {
		req.Header.Set("X-App-Token", s.AppToken)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("门户返回 %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	// 部分旧数据集的导出带Windows-1252字节，直接解JSON会把重音字符换成U+FFFD
	text, err := converter.DecodeLegacyText(body)
	if err != nil {
		return nil, fmt.Errorf("解码响应失败: %w", err)
	}

	var page []map[string]interface{}
	if err := json.Unmarshal([]byte(text), &page); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	return page, nil
}
