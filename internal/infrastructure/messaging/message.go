// Package messaging 提供基于 Redis Stream 的异步任务队列
package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stream 流名称
type Stream string

const (
	StreamPublish Stream = "stream:publish"
)

// DLQStream 死信流名称
func (s Stream) DLQStream() string {
	return "dlq:" + string(s)
}

// ConsumerGroup 消费者组
type ConsumerGroup string

const (
	ConsumerGroupPublisher ConsumerGroup = "cg-publisher"
)

// TypePublishPost 异步发布任务
const TypePublishPost = "publish_post"

// 元数据键，与 trace 上下文共用同一个 map
const (
	MetaRequestID = "request_id"
	MetaPlatform  = "platform"
)

// Message 队列消息信封
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewMessage(id, msgType string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return &Message{
		ID:        id,
		Type:      msgType,
		Payload:   raw,
		Metadata:  map[string]string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// WithMeta 写入元数据，空值忽略
func (m *Message) WithMeta(key, value string) *Message {
	if value == "" {
		return m
	}
	if m.Metadata == nil {
		m.Metadata = map[string]string{}
	}
	m.Metadata[key] = value
	return m
}

// Meta 读取元数据
func (m *Message) Meta(key string) string {
	return m.Metadata[key]
}

// Decode 解析载荷
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// PublishJobMessage 异步发布任务载荷
type PublishJobMessage struct {
	JobID    string   `json:"job_id"`
	Platform string   `json:"platform"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// BackoffConfig 重试退避
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{Initial: time.Second, Max: time.Minute, Multiplier: 2}
}

// Delay 第 attempt 次重试前的等待时间，从 0 开始，不超过 Max
func (c BackoffConfig) Delay(attempt int) time.Duration {
	d := c.Initial
	for i := 0; i < attempt && d < c.Max; i++ {
		d = time.Duration(float64(d) * c.Multiplier)
	}
	return min(d, c.Max)
}
