package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/streadway/amqp"
)

const RefreshQueue = "insight_refresh"

// * RefreshRequest is the message body published on RefreshQueue
type RefreshRequest struct {
	RepoName    string    `json:"repo_name"`
	RequestedAt time.Time `json:"requested_at"`
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.New(
			"QUEUE_CONNECTION_ERROR",
			"Failed to connect to RabbitMQ",
			"Could not dial the message broker",
			err,
			errors.LevelError,
		)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.New(
			"QUEUE_CONNECTION_ERROR",
			"Failed to open RabbitMQ channel",
			"Could not open a channel on the broker connection",
			err,
			errors.LevelError,
		)
	}

	logger.Info("connected to RabbitMQ")
	return &RabbitMQ{
		conn:    conn,
		channel: channel,
	}, nil
}

func (r *RabbitMQ) declare() (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		RefreshQueue,
		true,
		false,
		false,
		false,
		nil,
	)
}

func (r *RabbitMQ) PublishRefreshRequest(ctx context.Context, repoName string) error {
	queue, err := r.declare()
	if err != nil {
		return err
	}

	body, err := EncodeRefreshRequest(RefreshRequest{RepoName: repoName, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	logger.Debug("publishing refresh request for %s", repoName)
	return r.channel.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// * ConsumeRefreshRequests delivers queued requests to handler until ctx is done
func (r *RabbitMQ) ConsumeRefreshRequests(ctx context.Context, handler func(ctx context.Context, repoName string) error) error {
	queue, err := r.declare()
	if err != nil {
		return err
	}

	msgs, err := r.channel.Consume(
		queue.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("stopping refresh consumer")
				return
			case d, ok := <-msgs:
				if !ok {
					logger.Warn("refresh queue delivery channel closed")
					return
				}
				HandleDelivery(ctx, d.Body, handler)
			}
		}
	}()

	return nil
}

// * HandleDelivery decodes one message and runs handler, logging failures
func HandleDelivery(ctx context.Context, body []byte, handler func(ctx context.Context, repoName string) error) {
	req, err := DecodeRefreshRequest(body)
	if err != nil {
		errors.Log(err)
		return
	}

	if err := handler(ctx, req.RepoName); err != nil {
		logger.Error("Error handling refresh request for %s: %v", req.RepoName, err)
	}
}

func EncodeRefreshRequest(req RefreshRequest) ([]byte, error) {
	return json.Marshal(req)
}

func DecodeRefreshRequest(body []byte) (RefreshRequest, error) {
	var req RefreshRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return RefreshRequest{}, errors.NewKind(
			errors.KindInvalidInput,
			"QUEUE_MESSAGE_ERROR",
			"Invalid refresh request",
			"Message body is not valid JSON",
			err,
			errors.LevelWarning,
		)
	}
	if req.RepoName == "" {
		return RefreshRequest{}, errors.NewKind(
			errors.KindInvalidInput,
			"QUEUE_MESSAGE_ERROR",
			"Invalid refresh request",
			"Message has no repo_name",
			nil,
			errors.LevelWarning,
		)
	}
	return req, nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
