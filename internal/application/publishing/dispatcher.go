// Package publishing 按平台分发发布请求
package publishing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/messaging"
	"social-ai-api/internal/infrastructure/publisher"
	apperrors "social-ai-api/pkg/errors"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
	"social-ai-api/pkg/tracer"
)

// Enqueuer 异步发布队列
type Enqueuer interface {
	EnqueuePublish(ctx context.Context, job *messaging.PublishJobMessage, requestID string) (string, error)
}

// Input 发布请求
type Input struct {
	Platform entity.Platform
	Content  string
	Hashtags []string
}

// Validate 校验发布请求
func (in Input) Validate() error {
	if !in.Platform.Valid() {
		return apperrors.ErrUnsupportedPlatform.WithDetail(string(in.Platform))
	}
	if strings.TrimSpace(in.Content) == "" {
		return apperrors.ErrInvalidParam.WithDetail("content is required")
	}
	return nil
}

// Queued 异步投递结果
type Queued struct {
	JobID     string          `json:"job_id"`
	MessageID string          `json:"message_id"`
	Platform  entity.Platform `json:"platform"`
}

// PlatformStatus 平台发布可用性
type PlatformStatus struct {
	Platform  entity.Platform `json:"platform"`
	Available bool            `json:"available"`
}

// Dispatcher 选择平台发布器，格式化内容并映射错误
type Dispatcher struct {
	adapters map[entity.Platform]publisher.Adapter
	queue    Enqueuer
}

// NewDispatcher 创建分发器，queue 为空时不支持异步发布
func NewDispatcher(queue Enqueuer, adapters ...publisher.Adapter) *Dispatcher {
	m := make(map[entity.Platform]publisher.Adapter, len(adapters))
	for _, a := range adapters {
		m[a.Platform()] = a
	}
	return &Dispatcher{adapters: m, queue: queue}
}

// Publish 同步发布
func (d *Dispatcher) Publish(ctx context.Context, in Input) (res *entity.PublishResult, err error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, logger.PlatformKey, string(in.Platform))
	ctx, span := tracer.Start(ctx, "publish.dispatch")
	defer func() {
		tracer.Finish(span, err, attribute.String("publish.platform", string(in.Platform)))
	}()

	adapter, ok := d.adapters[in.Platform]
	if !ok || !adapter.IsAvailable() {
		metrics.PublishTotal.WithLabelValues(string(in.Platform), "unavailable").Inc()
		return nil, apperrors.ErrPublishUnavailable.WithDetail(string(in.Platform) + " publishing is not configured")
	}

	text := publisher.Format(in.Platform, in.Content, in.Hashtags)
	res, err = adapter.Publish(ctx, text)
	if err != nil {
		mapped := mapError(err)
		metrics.PublishTotal.WithLabelValues(string(in.Platform), string(kindOf(err))).Inc()
		logger.Warn(ctx, "publish failed", "error", err.Error())
		return nil, mapped
	}

	metrics.PublishTotal.WithLabelValues(string(in.Platform), "success").Inc()
	logger.Info(ctx, "content published", "post_id", res.PlatformPostID)
	return res, nil
}

// Enqueue 投递到发布队列，由 publish-worker 执行
func (d *Dispatcher) Enqueue(ctx context.Context, in Input, requestID string) (*Queued, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if d.queue == nil {
		return nil, apperrors.ErrServiceUnavailable.WithDetail("async publishing requires redis")
	}

	job := &messaging.PublishJobMessage{
		JobID:    uuid.NewString(),
		Platform: string(in.Platform),
		Content:  in.Content,
		Hashtags: in.Hashtags,
	}
	id, err := d.queue.EnqueuePublish(ctx, job, requestID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeQueueError, "failed to enqueue publish job")
	}

	metrics.PublishTotal.WithLabelValues(string(in.Platform), "queued").Inc()
	return &Queued{JobID: job.JobID, MessageID: id, Platform: in.Platform}, nil
}

// HandleJob 消费队列中的发布任务，内容被拒时不再重试
func (d *Dispatcher) HandleJob(ctx context.Context, msg *messaging.Message) error {
	var job messaging.PublishJobMessage
	if err := msg.Decode(&job); err != nil {
		return err
	}

	platform, err := entity.ParsePlatform(job.Platform)
	if err != nil {
		logger.Warn(ctx, "dropping publish job for unknown platform", "job_id", job.JobID, "platform", job.Platform)
		return nil
	}

	_, err = d.Publish(ctx, Input{Platform: platform, Content: job.Content, Hashtags: job.Hashtags})
	if err != nil && apperrors.AsAppError(err).Code == apperrors.CodeContentRejected {
		logger.Warn(ctx, "publish job rejected by platform", "job_id", job.JobID)
		return nil
	}
	return err
}

// Platforms 返回各平台发布可用性，顺序固定
func (d *Dispatcher) Platforms() []PlatformStatus {
	out := make([]PlatformStatus, 0, 2)
	for _, p := range []entity.Platform{entity.PlatformTwitter, entity.PlatformLinkedIn} {
		a, ok := d.adapters[p]
		out = append(out, PlatformStatus{Platform: p, Available: ok && a.IsAvailable()})
	}
	return out
}

func kindOf(err error) publisher.ErrorKind {
	var pe *publisher.PublishError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return publisher.KindUnavailable
}

// mapError 平台不可用映射为 503，内容被拒映射为 422
func mapError(err error) error {
	if kindOf(err) == publisher.KindRejected {
		return apperrors.ErrContentRejected.WithError(err).WithDetail(err.Error())
	}
	return apperrors.ErrPublishUnavailable.WithError(err)
}
