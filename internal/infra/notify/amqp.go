package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublisherClosed = errs.New("notification publisher is closed")

// AMQPPublisher publishes notices to a durable queue on the default exchange.
// Messages expire after the configured timeout.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewAMQPPublisher(url, queue string, timeout time.Duration, logger *slog.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error("amqp connect failed", "error", err.Error())
		return nil, errs.Wrap(err, "failed to connect to broker")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "failed to open broker channel")
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "failed to declare queue %s", queue)
	}

	return &AMQPPublisher{
		conn:    conn,
		channel: channel,
		queue:   queue,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (p *AMQPPublisher) Enqueue(ctx context.Context, notice waitlist.Notice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return errs.Wrap(err, "failed to encode waitlist notice")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         waitlist.NoticeKind,
		MessageId:    notice.SubscriptionID.String() + ":" + notice.SlotID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if p.timeout > 0 {
		msg.Expiration = formatMillis(p.timeout)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return ErrPublisherClosed
	}
	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return errs.Wrap(err, "failed to publish waitlist notice")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.logger.Warn("amqp channel close failed", "error", err.Error())
	}
	p.channel = nil
	return p.conn.Close()
}

func formatMillis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
