/*
 * @module service/utils/data_converter
 * @description 数据转换工具：门户导出文件的Windows-1252转UTF-8、列名归一化等接入侧转换
 * @architecture 工具层 - 无状态转换
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 原始字节/字段名 -> 转换逻辑 -> 规范化输出
 * @rules 已是合法UTF-8的输入原样返回；列名归一为小写下划线；转换失败返回error不静默
 * @dependencies golang.org/x/text/encoding/charmap
 * @refs service/datasource
 */

package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DataConverter 接入侧数据转换器
type DataConverter struct{}

// NewDataConverter 创建数据转换器实例
func NewDataConverter() *DataConverter {
	return &DataConverter{}
}

// DecodeLegacyText 将门户旧版导出的Windows-1252字节解码为UTF-8。
// 合法UTF-8输入直接原样返回
func (dc *DataConverter) DecodeLegacyText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("Windows-1252解码失败: %w", err)
	}
	return string(decoded), nil
}

var nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumnName 列名归一化：小写、非字母数字折叠为下划线、去首尾下划线
func (dc *DataConverter) NormalizeColumnName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	normalized := nonWordPattern.ReplaceAllString(lower, "_")
	return strings.Trim(normalized, "_")
}

// NormalizeColumnNames 批量列名归一化，保持输入顺序
func (dc *DataConverter) NormalizeColumnNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = dc.NormalizeColumnName(n)
	}
	return out
}
