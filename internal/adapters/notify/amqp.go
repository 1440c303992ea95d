package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// NoticeMessage is the JSON body published for every notice.
type NoticeMessage struct {
	domain.Notice
	Timestamp time.Time `json:"timestamp"`
}

// publisher is the part of *amqp091.Channel the notifier uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPNotifier publishes notices to a durable direct exchange.
type AMQPNotifier struct {
	mu         sync.Mutex
	conn       *amqp091.Connection
	channel    publisher
	exchange   string
	routingKey string
	now        func() time.Time
}

var _ portssvc.ChangeNotifier = (*AMQPNotifier)(nil)

// NewAMQPNotifier dials url and declares the exchange plus a durable queue
// named after routingKey and bound to it.
func NewAMQPNotifier(url, exchange, routingKey string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, exchange, routingKey); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	n := newAMQPNotifier(channel, exchange, routingKey)
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(channel publisher, exchange, routingKey string) *AMQPNotifier {
	return &AMQPNotifier{
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

func setup(channel *amqp091.Channel, exchange, queue string) error {
	err := channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	now := n.now()
	body, err := json.Marshal(NoticeMessage{Notice: notice, Timestamp: now})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,   // exchange
		n.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    now,
			Type:         string(notice.Severity),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	if n.channel != nil {
		err = n.channel.Close()
	}
	if n.conn != nil {
		if cerr := n.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
