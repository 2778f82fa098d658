/*
 * @module service/event/event_service
 * @description 事件发布服务：执行完成与告警事件经Dapr pub/sub对外广播，无sidecar时静默降级为no-op
 * @architecture 事件驱动架构 - 业务服务层
 * @documentReference dev_docs/monitoring.md
 * @stateFlow 管道结束/告警触发 -> 序列化事件 -> Dapr发布 -> 订阅方消费
 * @rules 事件发布失败只记日志不影响管道结果；sidecar存在性以DAPR_HTTP_PORT/DAPR_GRPC_PORT判定
 * @dependencies github.com/dapr/go-sdk/client
 * @refs service/pipeline, service/scheduler
 */

package event

import (
	"context"
	"log/slog"
	"os"

	dapr "github.com/dapr/go-sdk/client"

	"civicdata-service/service/models"
)

const (
	pubsubName        = "civicdata-pubsub"
	topicRunCompleted = "pipeline-run-completed"
	topicAlert        = "pipeline-alert"
)

// Publisher 管道事件发布契约
type Publisher interface {
	PublishRunCompleted(ctx context.Context, m *models.PipelineMetrics)
	PublishAlert(ctx context.Context, report *models.AlertReport)
}

// EventService Dapr pub/sub事件发布实现
type EventService struct {
	client dapr.Client
}

// NewEventService 创建事件服务。无Dapr sidecar时client为nil，发布降级为no-op
func NewEventService() *EventService {
	s := &EventService{}
	if !daprAvailable() {
		slog.Info("未检测到Dapr sidecar，事件发布降级为no-op")
		return s
	}
	c, err := dapr.NewClient()
	if err != nil {
		slog.Warn("创建Dapr客户端失败，事件发布降级为no-op", "error", err)
		return s
	}
	s.client = c
	return s
}

func daprAvailable() bool {
	return os.Getenv("DAPR_HTTP_PORT") != "" || os.Getenv("DAPR_GRPC_PORT") != ""
}

// PublishRunCompleted 发布执行完成事件
func (s *EventService) PublishRunCompleted(ctx context.Context, m *models.PipelineMetrics) {
	s.publish(ctx, topicRunCompleted, m)
}

// PublishAlert 发布告警事件
func (s *EventService) PublishAlert(ctx context.Context, report *models.AlertReport) {
	s.publish(ctx, topicAlert, report)
}

func (s *EventService) publish(ctx context.Context, topic string, data interface{}) {
	if s.client == nil {
		return
	}
	if err := s.client.PublishEvent(ctx, pubsubName, topic, data); err != nil {
		slog.Warn("事件发布失败", "topic", topic, "error", err)
		return
	}
	slog.Debug("事件已发布", "topic", topic)
}

// Close 释放Dapr客户端
func (s *EventService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
