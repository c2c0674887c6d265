package jobs

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, msg domain.OptimizationMessage) error
}

// DeclareQueue 声明一个持久化的队列，生产者与消费者都需要调用
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // 队列名称
		true,  // 是否持久化
		false, // 是否自动删除
		false, // 是否独占
		false, // 是否不等待
		nil,   // 额外参数
	)
}

func Encode(msg domain.OptimizationMessage) ([]byte, error) {
	if msg.RunID == "" {
		return nil, errors.New("任务 ID 不能为空")
	}
	return json.Marshal(msg)
}

func Decode(body []byte) (domain.OptimizationMessage, error) {
	msg := domain.OptimizationMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, err
	}
	if msg.RunID == "" {
		return msg, errors.New("任务 ID 不能为空")
	}
	return msg, nil
}

type AMQPPublisher struct {
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:    ch,
		queue: queue,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg domain.OptimizationMessage) error {
	body, err := Encode(msg)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
