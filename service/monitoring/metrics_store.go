/*
 * @module service/monitoring/metrics_store
 * @description 指标持久化层：统一MetricsStore接口，提供文件JSON、GORM数据库、内存三种实现
 * @architecture 持久层 - 接口+多实现
 * @documentReference dev_docs/monitoring.md
 * @stateFlow Monitor写入 -> Store持久化 -> Dashboard按时间窗读取
 * @rules 每次执行的指标恰好写一次；读取按timestamp升序返回
 * @dependencies gorm.io/gorm
 * @refs service/monitoring/monitor.go, service/monitoring/dashboard.go
 */

package monitoring

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"civicdata-service/service/models"
)

// MetricsStore 指标与质量评分的持久化接口
type MetricsStore interface {
	SaveMetrics(m *models.PipelineMetrics) error
	SaveScore(s *models.DataQualityScore) error
	LoadRecentMetrics(window time.Duration) ([]models.PipelineMetrics, error)
	LoadRecentScores(window time.Duration) ([]models.DataQualityScore, error)
}

// FileMetricsStore 文件存储，每次执行一个metrics_<execution_id>.json
type FileMetricsStore struct {
	Dir string
}

// NewFileMetricsStore 创建文件存储并确保目录存在
func NewFileMetricsStore(dir string) (*FileMetricsStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建监控目录失败: %w", err)
	}
	return &FileMetricsStore{Dir: dir}, nil
}

// SaveMetrics 指标落盘为JSON
func (s *FileMetricsStore) SaveMetrics(m *models.PipelineMetrics) error {
	return s.writeJSON(fmt.Sprintf("metrics_%s.json", m.ExecutionID), m)
}

// SaveScore 质量评分落盘为JSON
func (s *FileMetricsStore) SaveScore(score *models.DataQualityScore) error {
	return s.writeJSON(fmt.Sprintf("quality_%s.json", score.ExecutionID), score)
}

func (s *FileMetricsStore) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

// LoadRecentMetrics 读取时间窗内的全部指标文件，坏文件跳过并记日志
func (s *FileMetricsStore) LoadRecentMetrics(window time.Duration) ([]models.PipelineMetrics, error) {
	files, err := filepath.Glob(filepath.Join(s.Dir, "metrics_*.json"))
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-window)
	var out []models.PipelineMetrics
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("读取指标文件失败", "file", file, "error", err)
			continue
		}
		var m models.PipelineMetrics
		if err := json.Unmarshal(data, &m); err != nil {
			slog.Warn("解析指标文件失败", "file", file, "error", err)
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, m.Timestamp)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}
	sortMetricsByTimestamp(out)
	return out, nil
}

// LoadRecentScores 读取时间窗内的质量评分文件
func (s *FileMetricsStore) LoadRecentScores(window time.Duration) ([]models.DataQualityScore, error) {
	files, err := filepath.Glob(filepath.Join(s.Dir, "quality_*.json"))
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-window)
	var out []models.DataQualityScore
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		var sc models.DataQualityScore
		if err := json.Unmarshal(data, &sc); err != nil {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, sc.Timestamp)
		if err != nil || ts.Before(cutoff) {
			continue
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// GormMetricsStore 数据库存储实现
type GormMetricsStore struct {
	DB *gorm.DB
}

// NewGormMetricsStore 创建数据库存储并迁移表结构
func NewGormMetricsStore(db *gorm.DB) (*GormMetricsStore, error) {
	if err := db.AutoMigrate(&models.PipelineMetrics{}, &models.DataQualityScore{}); err != nil {
		return nil, fmt.Errorf("迁移监控表失败: %w", err)
	}
	return &GormMetricsStore{DB: db}, nil
}

// SaveMetrics 指标入库
func (s *GormMetricsStore) SaveMetrics(m *models.PipelineMetrics) error {
	return s.DB.Create(m).Error
}

// SaveScore 质量评分入库
func (s *GormMetricsStore) SaveScore(score *models.DataQualityScore) error {
	return s.DB.Create(score).Error
}

// LoadRecentMetrics 按timestamp升序查询时间窗内指标
func (s *GormMetricsStore) LoadRecentMetrics(window time.Duration) ([]models.PipelineMetrics, error) {
	cutoff := time.Now().Add(-window).Format(time.RFC3339Nano)
	var out []models.PipelineMetrics
	err := s.DB.Where("timestamp >= ?", cutoff).Order("timestamp asc").Find(&out).Error
	return out, err
}

// LoadRecentScores 按timestamp升序查询时间窗内评分
func (s *GormMetricsStore) LoadRecentScores(window time.Duration) ([]models.DataQualityScore, error) {
	cutoff := time.Now().Add(-window).Format(time.RFC3339Nano)
	var out []models.DataQualityScore
	err := s.DB.Where("timestamp >= ?", cutoff).Order("timestamp asc").Find(&out).Error
	return out, err
}

// MemoryMetricsStore 内存存储，测试与单机小规模使用
type MemoryMetricsStore struct {
	mu      sync.RWMutex
	metrics []models.PipelineMetrics
	scores  []models.DataQualityScore
}

// NewMemoryMetricsStore 创建内存存储
func NewMemoryMetricsStore() *MemoryMetricsStore {
	return &MemoryMetricsStore{}
}

func (s *MemoryMetricsStore) SaveMetrics(m *models.PipelineMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, *m)
	return nil
}

func (s *MemoryMetricsStore) SaveScore(score *models.DataQualityScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, *score)
	return nil
}

func (s *MemoryMetricsStore) LoadRecentMetrics(window time.Duration) ([]models.PipelineMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().Add(-window)
	var out []models.PipelineMetrics
	for _, m := range s.metrics {
		if ts, err := time.Parse(time.RFC3339Nano, m.Timestamp); err == nil && !ts.Before(cutoff) {
			out = append(out, m)
		}
	}
	sortMetricsByTimestamp(out)
	return out, nil
}

func (s *MemoryMetricsStore) LoadRecentScores(window time.Duration) ([]models.DataQualityScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().Add(-window)
	var out []models.DataQualityScore
	for _, sc := range s.scores {
		if ts, err := time.Parse(time.RFC3339Nano, sc.Timestamp); err == nil && !ts.Before(cutoff) {
			out = append(out, sc)
		}
	}
	return out, nil
}

func sortMetricsByTimestamp(ms []models.PipelineMetrics) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Timestamp < ms[j].Timestamp })
}
