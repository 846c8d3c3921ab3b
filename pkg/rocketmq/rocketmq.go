package rocketmq

import (
	"Aviary/config"
	"Aviary/pkg/log"
	"context"
	"encoding/json"
	"fmt"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

// Sender is the part of rocketmq.Producer that Producer needs.
type Sender interface {
	SendSync(ctx context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error)
	Shutdown() error
}

// Producer publishes JSON messages to one topic. A nil Producer, or one built
// from a disabled config, drops every message.
type Producer struct {
	topic string
	p     Sender
}

func NewProducer(cfg *config.RocketMQConfig) (*Producer, func(), error) {
	if cfg == nil || !cfg.Enabled {
		log.L.Info("rocketmq producer disabled")
		return &Producer{}, func() {}, nil
	}

	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("new rocketmq producer: %w", err)
	}
	if err := p.Start(); err != nil {
		return nil, nil, fmt.Errorf("start rocketmq producer: %w", err)
	}
	log.L.Info("init producer success", zap.Strings("nameserver", cfg.NameServer), zap.String("topic", cfg.Topic))

	cleanup := func() {
		if err := p.Shutdown(); err != nil {
			log.L.Error("shutdown rocketmq producer", zap.Error(err))
		}
	}
	return &Producer{topic: cfg.Topic, p: p}, cleanup, nil
}

// NewProducerWithSender wraps an already started sender.
func NewProducerWithSender(topic string, s Sender) *Producer {
	return &Producer{topic: topic, p: s}
}

func (p *Producer) Enabled() bool {
	return p != nil && p.p != nil
}

// SendJSON 同步发送 v 的 JSON 编码
func (p *Producer) SendJSON(ctx context.Context, tag, key string, v any) error {
	if !p.Enabled() {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := primitive.NewMessage(p.topic, body).WithTag(tag)
	if key != "" {
		msg = msg.WithKeys([]string{key})
	}

	res, err := p.p.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("msgId", res.MsgID), zap.String("tag", tag))
	return nil
}
