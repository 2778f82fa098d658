/*
 * @module service/utils/data_converter_test
 * @description 数据转换工具测试，覆盖旧编码解码与列名归一化
 * @architecture 测试层
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 原始输入 -> 转换 -> 规范化输出验证
 * @rules 合法UTF-8原样返回
 * @dependencies testing, github.com/stretchr/testify
 * @refs data_converter.go
 */

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLegacyText(t *testing.T) {
	dc := NewDataConverter()

	t.Run("合法UTF-8原样返回", func(t *testing.T) {
		out, err := dc.DecodeLegacyText([]byte("Café Chicago"))
		require.NoError(t, err)
		assert.Equal(t, "Café Chicago", out)
	})

	t.Run("Windows-1252字节解码", func(t *testing.T) {
		// 0xE9是Windows-1252的é，非法UTF-8
		out, err := dc.DecodeLegacyText([]byte{'C', 'a', 'f', 0xE9})
		require.NoError(t, err)
		assert.Equal(t, "Café", out)
	})
}

func TestNormalizeColumnName(t *testing.T) {
	dc := NewDataConverter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "空格折叠为下划线", input: "License Start Date", expected: "license_start_date"},
		{name: "特殊字符折叠", input: "Total Fee ($)", expected: "total_fee"},
		{name: "连续分隔符合并", input: "ZIP -- Code", expected: "zip_code"},
		{name: "首尾修剪", input: "  _id_  ", expected: "id"},
		{name: "已规范的保持不变", input: "community_area", expected: "community_area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dc.NormalizeColumnName(tt.input))
		})
	}
}

func TestNormalizeColumnNames(t *testing.T) {
	dc := NewDataConverter()
	out := dc.NormalizeColumnNames([]string{"ID", "Legal Name", "ZIP Code"})
	assert.Equal(t, []string{"id", "legal_name", "zip_code"}, out)
}
