package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"infofix/backend/config"
)

// Client Redis 客户端封装
// 用于值班登记册变更广播与写接口限流
type Client struct {
	rdb      *goredis.Client
	channel  string
	instance string // 本进程标识，随事件发布，订阅方据此忽略自身事件
	logger   *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = "infofix:duty_registry"
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr), zap.String("channel", channel))

	return &Client{rdb: rdb, channel: channel, instance: uuid.NewString(), logger: logger}, nil
}

// Instance 本进程的实例标识
func (c *Client) Instance() string { return c.instance }

// ── 登记册变更广播 ──

// RegistryEvent 值班登记册变更事件（仅在远端写入确认成功后发布）
type RegistryEvent struct {
	Op         string    `json:"op"`   // create | update | delete | reload
	Type       string    `json:"type"` // attendance | merit
	RecordID   string    `json:"record_id,omitempty"`
	TechID     string    `json:"tech_id,omitempty"`
	OperatorID string    `json:"operator_id,omitempty"`
	Instance   string    `json:"instance,omitempty"`
	At         time.Time `json:"at"`
}

// PublishRegistryChange 发布登记册变更事件，返回收到消息的订阅者数
func (c *Client) PublishRegistryChange(ctx context.Context, evt RegistryEvent) (int64, error) {
	evt.Instance = c.instance
	payload, err := json.Marshal(evt)
	if err != nil {
		return 0, fmt.Errorf("序列化登记册事件失败: %w", err)
	}
	return c.rdb.Publish(ctx, c.channel, payload).Result()
}

// SubscribeRegistryChanges 订阅登记册变更频道；调用方负责 Close
func (c *Client) SubscribeRegistryChanges(ctx context.Context) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, c.channel)
}

// WatchRegistryChanges 阻塞监听登记册变更，直到 ctx 取消
// 本实例发布的事件与无法解析的负载被忽略，其余事件交给 onChange 处理
func (c *Client) WatchRegistryChanges(ctx context.Context, onChange func(RegistryEvent)) error {
	sub := c.SubscribeRegistryChanges(ctx)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("订阅登记册频道失败: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			evt, err := DecodeRegistryEvent(msg.Payload)
			if err != nil {
				c.logger.Warn("忽略无法解析的登记册事件", zap.Error(err))
				continue
			}
			if evt.Instance == c.instance {
				continue
			}
			onChange(evt)
		}
	}
}

// DecodeRegistryEvent 解析频道消息负载
func DecodeRegistryEvent(payload string) (RegistryEvent, error) {
	var evt RegistryEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return RegistryEvent{}, fmt.Errorf("解析登记册事件失败: %w", err)
	}
	return evt, nil
}

// ── 固定窗口限流 ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit 固定窗口计数：窗口内第 limit+1 次起返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := rateLimitPrefix + key

	count, err := c.rdb.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	// 窗口内首次计数时设置过期，窗口到期后计数自然清零
	if count == 1 {
		if err := c.rdb.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
