/*
 * @module service/fetcher
 * @description 默认上游拉取器装配，独立成文件便于测试环境替换
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/ingestion.md
 * @rules 默认使用芝加哥开放数据门户拉取器
 * @dependencies 标准库
 * @refs service/init.go
 */

package service

import (
	"civicdata-service/service/datasource"
)

func newDefaultFetcher() datasource.PaginatedFetcher {
	return datasource.NewSocrataFetcher()
}
