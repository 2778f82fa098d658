/*
 * @module service/datasource/interface
 * @description 上游数据源契约：按数据集分页拉取表格批次，列名与schema注册表字段对齐
 * @architecture 数据接入层 - 接口定义
 * @documentReference dev_docs/ingestion.md
 * @rules 多余列透传不报错；缺失必填列由下游期望校验兜底；拉取实现自行负责限流与重试
 * @dependencies 标准库
 * @refs service/datasource/socrata.go, service/pipeline
 */

package datasource

import (
	"context"

	"civicdata-service/service/dataframe"
)

// PaginatedFetcher 分页拉取一个数据集的完整批次
type PaginatedFetcher interface {
	FetchDataset(ctx context.Context, datasetName string) (*dataframe.Frame, error)
}
