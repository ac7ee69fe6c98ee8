package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

// ActivityRecorder persists a lead event somewhere durable.
type ActivityRecorder interface {
	Record(ctx context.Context, evt entity.LeadEvent) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Recorder ActivityRecorder
}

func NewWorker(ch Consumer, recorder ActivityRecorder) *Worker {
	return &Worker{
		Channel:  ch,
		Recorder: recorder,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register RabbitMQ consumer: %w", err)
	}

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var evt entity.LeadEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		log.Printf("❌ [WORKER] invalid JSON: %s", err)
		// malformed; dead-letter it so the queue keeps moving
		d.Nack(false, false)
		return
	}

	if err := w.Recorder.Record(ctx, evt); err != nil {
		log.Printf("❌ [WORKER] failed to record %s for lead %s: %s", evt.Type, evt.LeadID, err)
		// requeue once; a redelivered message that fails again goes to the DLQ
		d.Nack(false, !d.Redelivered)
		return
	}

	log.Printf("✅ [WORKER] recorded %s for lead %s", evt.Type, evt.LeadID)
	d.Ack(false)
}
