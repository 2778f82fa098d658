/*
 * @module service/pipeline/pipeline_service
 * @description 管道编排服务：拉取 -> 规划 -> 转换 -> 业务规则 -> 期望校验 -> 质量评分 -> 下游落地，
 *              全程在监控作用域内执行，主引擎不可用时整体切换应急降级通道
 * @architecture 业务服务层 - 编排
 * @documentReference dev_docs/transform_engine.md
 * @stateFlow Start监控 -> 引擎选择(primary/emergency) -> 各阶段执行 -> Finish落盘恰好一次
 * @rules panic由运行作用域捕获并记为ERROR(状态FAILED)，指标仍然恰好落盘一次；
 *        未知数据集是配置错误立即失败；下游写失败记WARNING不改写执行结果；
 *        两种引擎的success_rate口径不同，分开记录不混用
 * @dependencies 标准库
 * @refs service/transform, service/rules, service/expectations, service/monitoring, service/emergency
 */

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"civicdata-service/client"
	"civicdata-service/service/dataframe"
	"civicdata-service/service/datasource"
	"civicdata-service/service/emergency"
	"civicdata-service/service/event"
	"civicdata-service/service/expectations"
	"civicdata-service/service/models"
	"civicdata-service/service/monitoring"
	"civicdata-service/service/rules"
	"civicdata-service/service/schema"
	"civicdata-service/service/transform"
)

// EngineMode 清洗引擎选择
type EngineMode string

const (
	EngineAuto      EngineMode = "auto"
	EnginePrimary   EngineMode = "primary"
	EngineEmergency EngineMode = "emergency"
)

// EngineModeFromEnv 读取CIVICDATA_ENGINE，未设置或非法值回落auto
func EngineModeFromEnv() EngineMode {
	switch EngineMode(strings.ToLower(os.Getenv("CIVICDATA_ENGINE"))) {
	case EnginePrimary:
		return EnginePrimary
	case EngineEmergency:
		return EngineEmergency
	default:
		return EngineAuto
	}
}

// Service 管道编排服务
type Service struct {
	fetcher   datasource.PaginatedFetcher
	writer    client.SheetWriter
	monitor   *monitoring.Monitor
	emergency *emergency.Processor
	events    event.Publisher
	mode      EngineMode
}

// NewService 创建编排服务。writer与events可为nil(跳过对应阶段)
func NewService(fetcher datasource.PaginatedFetcher, writer client.SheetWriter,
	monitor *monitoring.Monitor, events event.Publisher, mode EngineMode) *Service {
	s := &Service{
		fetcher: fetcher,
		writer:  writer,
		monitor: monitor,
		events:  events,
		mode:    mode,
	}
	s.emergency = emergency.NewProcessor(s.probePrimary)
	return s
}

// probePrimary 主引擎探测：对微型数据帧跑一次完整主流程
func (s *Service) probePrimary() error {
	f := dataframe.New()
	f.AddColumn("service_date", dataframe.NewSeries([]interface{}{"2024-01-01"}, dataframe.DTypeObject))
	f.AddColumn("total_rides", dataframe.NewSeries([]interface{}{"100"}, dataframe.DTypeObject))
	plan, err := transform.Plan(f, "cta_boardings")
	if err != nil {
		return err
	}
	transform.Execute(f, plan)
	return nil
}

// Emergency 应急处理器
func (s *Service) Emergency() *emergency.Processor {
	return s.emergency
}

// Monitor 监控器
func (s *Service) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RunDataset 拉取并处理一个数据集
func (s *Service) RunDataset(ctx context.Context, datasetName string) (*models.PipelineMetrics, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("未配置上游数据源")
	}
	input, err := s.fetcher.FetchDataset(ctx, datasetName)
	if err != nil {
		return nil, fmt.Errorf("拉取数据集失败: %w", err)
	}
	return s.ProcessFrame(ctx, datasetName, input)
}

// ProcessFrame 在监控作用域内处理已就位的数据帧
func (s *Service) ProcessFrame(ctx context.Context, datasetName string, input *dataframe.Frame) (metrics *models.PipelineMetrics, err error) {
	if _, schemaErr := schema.Get(datasetName); schemaErr != nil {
		return nil, schemaErr
	}

	executionID := s.monitor.Start(datasetName)
	finished := false
	finish := func() {
		if !finished {
			finished = true
			metrics = s.monitor.Finish(executionID)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			s.monitor.LogError(executionID, fmt.Sprintf("panic: %v", r), "ERROR")
			slog.Error("管道执行panic", "execution_id", executionID, "stack", string(debug.Stack()))
			err = fmt.Errorf("管道执行panic: %v", r)
		}
		finish()
		if s.events != nil && metrics != nil {
			s.events.PublishRunCompleted(ctx, metrics)
		}
	}()

	useEmergency := s.mode == EngineEmergency
	if s.mode == EngineAuto {
		hc := s.emergency.CheckHealth()
		useEmergency = !hc.PrimaryAvailable
	}

	var output *dataframe.Frame
	if useEmergency {
		output = s.runEmergency(executionID, datasetName, input)
	} else {
		output = s.runPrimary(executionID, datasetName, input)
	}

	s.monitor.LogDataMetrics(executionID, input, output)
	s.monitor.CalculateQualityScore(executionID, output)

	if s.writer != nil {
		if werr := s.writer.Overwrite(datasetName, output); werr != nil {
			s.monitor.LogError(executionID, fmt.Sprintf("下游写入失败: %v", werr), "WARNING")
		}
	}

	finish()
	return metrics, nil
}

// runPrimary 主引擎：规划+分层转换+业务规则+期望校验
func (s *Service) runPrimary(executionID, datasetName string, input *dataframe.Frame) *dataframe.Frame {
	ds, _ := schema.Get(datasetName)

	plan, err := transform.Plan(input, datasetName)
	if err != nil {
		s.monitor.LogError(executionID, err.Error(), "ERROR")
		return input
	}

	execResult := transform.Execute(input, plan)
	s.monitor.LogTransformationResults(executionID, execResult.Attempted, execResult.Successful)
	for _, fr := range execResult.FieldResults {
		if !fr.Success {
			s.monitor.LogError(executionID,
				fmt.Sprintf("字段 %s 转换失败: %s", fr.FieldName, fr.Error), "WARNING")
		}
	}

	ruleResult := rules.Apply(execResult.Frame, ds)
	s.monitor.LogRuleViolations(executionID, ruleResult.TotalViolations)
	if ruleResult.TotalCorrected > 0 {
		slog.Info("业务规则修正完成",
			"execution_id", executionID,
			"violations", ruleResult.TotalViolations,
			"corrected", ruleResult.TotalCorrected)
	}

	validation, err := expectations.Validate(execResult.Frame, datasetName)
	if err != nil {
		s.monitor.LogError(executionID, err.Error(), "ERROR")
		return execResult.Frame
	}
	s.monitor.LogValidationResults(executionID, validation.Evaluated, validation.Successful, validation.Failed)
	if !validation.Success {
		s.monitor.LogError(executionID,
			fmt.Sprintf("期望校验未全部通过: %d/%d", validation.Successful, validation.Evaluated), "WARNING")
	}

	return execResult.Frame
}

// runEmergency 应急引擎：五段式手工清洗
func (s *Service) runEmergency(executionID, datasetName string, input *dataframe.Frame) *dataframe.Frame {
	s.monitor.LogError(executionID, "主引擎不可用，切换应急降级通道", "WARNING")
	cleaned := s.emergency.Clean(map[string]*dataframe.Frame{datasetName: input})
	report := s.emergency.PerformanceSummary()
	slog.Info("应急清洗指标",
		"execution_id", executionID,
		"rows", report.TotalRows,
		"throughput", report.ThroughputRowsPerSecond,
		"dtype_success_rate", report.SuccessRate)
	return cleaned[datasetName]
}
