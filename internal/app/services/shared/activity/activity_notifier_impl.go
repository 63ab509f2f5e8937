package activity

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher is the slice of *amqp091.Channel the notifier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// RabbitMQNotifier publishes booking activity events to a durable queue in the
// background. Failures are logged and dropped.
type RabbitMQNotifier struct {
	Publisher      Publisher
	Queue          string
	PublishTimeout time.Duration
	Log            *zap.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewRabbitMQNotifier(publisher Publisher, queue string, publishTimeout time.Duration, logger *zap.Logger) *RabbitMQNotifier {
	return &RabbitMQNotifier{
		Publisher:      publisher,
		Queue:          queue,
		PublishTimeout: publishTimeout,
		Log:            logger,
	}
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, activity *models.Activity) {
	if activity == nil {
		return
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	// The request context is cancelled once the response is written; keep its values only.
	publishCtx := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.publish(publishCtx, activity)
	}()
}

// Wait blocks until every in-flight publish has finished.
func (n *RabbitMQNotifier) Wait() {
	n.wg.Wait()
}

func (n *RabbitMQNotifier) publish(ctx context.Context, activity *models.Activity) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	defer func() {
		if recovered := recover(); recovered != nil {
			n.Log.Error("RabbitMQNotifier.publish recovered from panic",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Any("panic", recovered),
			)
		}
	}()

	body, err := json.Marshal(activity)
	if err != nil {
		n.Log.Error("RabbitMQNotifier.publish error marshalling activity",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(exceptions.ErrCannotMarshalJSON(err)),
		)
		return
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    activity.CreatedAt,
		Type:         activity.Type,
		Headers: amqp091.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
			"request_id":       requestID,
		},
	}

	if n.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.PublishTimeout)
		defer cancel()
	}

	n.mu.Lock()
	err = n.Publisher.PublishWithContext(ctx, "", n.Queue, false, false, message)
	n.mu.Unlock()
	if err != nil {
		n.Log.Error("RabbitMQNotifier.publish error publishing activity",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActivityTypeKey, activity.Type),
			zap.String(constvars.LoggingQueueNameKey, n.Queue),
			zap.Error(exceptions.ErrRabbitMQPublishMessage(err, n.Queue)),
		)
		return
	}

	n.Log.Debug("RabbitMQNotifier.publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActivityTypeKey, activity.Type),
		zap.String(constvars.LoggingQueueNameKey, n.Queue),
	)
}
