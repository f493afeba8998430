package worker

import (
	"context"
	"errors"

	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/producer"
)

type Queue interface {
	Publish(ctx context.Context, key string, payload any) error
	Consume(ctx context.Context, taskPayload chan<- domain.ReportBatch, done <-chan struct{})
}

type RedpandaQueue struct {
	producer *producer.Producer
	consumer *consumer.Consumer
}

func NewRedpandaQueue(producer *producer.Producer, consumer *consumer.Consumer) *RedpandaQueue {
	return &RedpandaQueue{
		producer: producer,
		consumer: consumer,
	}
}

func (r *RedpandaQueue) Publish(ctx context.Context, key string, payload any) error {
	return r.producer.Publish(ctx, key, payload)
}

func (r *RedpandaQueue) Consume(ctx context.Context, taskPayload chan<- domain.ReportBatch, done <-chan struct{}) {
	r.consumer.Consume(ctx, taskPayload, done)
}

// MemoryQueue is an in-process Queue backed by a channel. Publish blocks
// when the buffer is full.
type MemoryQueue struct {
	ch chan domain.ReportBatch
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan domain.ReportBatch, size)}
}

func (m *MemoryQueue) Publish(ctx context.Context, _ string, payload any) error {
	batch, ok := payload.(domain.ReportBatch)
	if !ok {
		return errUnsupportedPayload
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.ch <- batch:
		return nil
	}
}

func (m *MemoryQueue) Consume(ctx context.Context, taskPayload chan<- domain.ReportBatch, done <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case batch := <-m.ch:
			select {
			case taskPayload <- batch:
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}
}

var errUnsupportedPayload = errors.New("memory queue accepts only report batches")
