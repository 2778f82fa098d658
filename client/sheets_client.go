/*
 * @module client/sheets_client
 * @description 下游落地契约：接收清洗完成的数据帧并整表覆写，附带本地CSV实现用于无外部表格服务的部署
 * @architecture 对外客户端层
 * @documentReference dev_docs/ingestion.md
 * @stateFlow 管道产出 -> SheetWriter整表覆写 -> 下游分析消费
 * @rules 覆写是整表替换不是追加；写失败返回error由管道记为WARNING
 * @dependencies 标准库encoding/csv
 * @refs service/pipeline
 */

package client

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"civicdata-service/service/dataframe"
)

// SheetWriter 清洗结果的整表写入契约
type SheetWriter interface {
	Overwrite(sheetName string, f *dataframe.Frame) error
}

// CSVSheetWriter 写本地CSV的SheetWriter实现，每个sheet一个文件
type CSVSheetWriter struct {
	Dir string
}

// NewCSVSheetWriter 创建CSV写入器并确保目录存在
func NewCSVSheetWriter(dir string) (*CSVSheetWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	return &CSVSheetWriter{Dir: dir}, nil
}

// Overwrite 整表覆写为<sheetName>.csv
func (w *CSVSheetWriter) Overwrite(sheetName string, f *dataframe.Frame) error {
	path := filepath.Join(w.Dir, sheetName+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	columns := f.Columns()
	if err := writer.Write(columns); err != nil {
		return err
	}

	row := make([]string, len(columns))
	for i := 0; i < f.NumRows(); i++ {
		for j, col := range columns {
			v := f.Column(col).Values[i]
			switch x := v.(type) {
			case nil:
				row[j] = ""
			case time.Time:
				row[j] = x.Format("2006-01-02")
			default:
				row[j] = dataframe.StringValue(v)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
