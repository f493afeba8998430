package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/crashlog/internal/domain"
)

type ExecuteFn func(ctx context.Context, batch domain.ReportBatch) error

type WorkerPool interface {
	Start(executeFn ExecuteFn)
	GracefulStop()
	Process(batch domain.ReportBatch)
}

type Pool struct {
	numWorkers  int
	taskPayload chan domain.ReportBatch
	queue       Queue
	errorQueue  Queue
	start       sync.Once
	stop        sync.Once
	doneChan    chan struct{}
	ctx         context.Context
	cancelFn    context.CancelFunc
	wg          *sync.WaitGroup
	logger      zerolog.Logger
}

// New builds a pool reading from queue. Batches that fail to publish or
// execute go to errorQueue; a nil errorQueue only logs them.
func New(ctx context.Context, cfg Config, queue, errorQueue Queue, logger zerolog.Logger) *Pool {
	c, cancelFn := context.WithCancel(ctx)
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}

	return &Pool{
		numWorkers:  numWorkers,
		taskPayload: make(chan domain.ReportBatch, numWorkers),
		doneChan:    make(chan struct{}),
		queue:       queue,
		errorQueue:  errorQueue,
		ctx:         c,
		cancelFn:    cancelFn,
		wg:          &sync.WaitGroup{},
		logger:      logger,
	}
}

func (w *Pool) Start(executeFn ExecuteFn) {
	w.start.Do(func() {
		for i := 0; i < w.numWorkers; i++ {
			w.wg.Add(1)
			l := w.logger.With().Interface("worker", i).Logger()
			go w.work(w.ctx, l, executeFn)
		}

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.queue.Consume(w.ctx, w.taskPayload, w.doneChan)
		}()
	})
}

func (w *Pool) GracefulStop() {
	w.stop.Do(func() {
		close(w.doneChan)
		w.cancelFn()
		w.wg.Wait()
	})
}

func (w *Pool) Process(batch domain.ReportBatch) {
	if err := w.queue.Publish(w.ctx, batch.ID, batch); err != nil {
		w.onFailure(batch, err)
	}
}

func (w *Pool) onFailure(batch domain.ReportBatch, err error) {
	if w.errorQueue == nil {
		w.logger.Err(err).Str("BATCH_ID", batch.ID).Msg("failed to process reports")
		return
	}

	p := payload{
		Payload: batch,
	}
	p.SetErrorReason(err)
	if errPublish := w.errorQueue.Publish(w.ctx, batch.ID, p); errPublish != nil {
		w.logger.Err(err).AnErr("publish", errPublish).Str("BATCH_ID", batch.ID).Msg("failed to process reports")
	}
}

func (w *Pool) work(ctx context.Context, logger zerolog.Logger, executeFn ExecuteFn) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.doneChan:
			return
		case pld, ok := <-w.taskPayload:
			if !ok {
				return
			}

			logger.Debug().Str("BATCH_ID", pld.ID).Int("REPORTS", len(pld.Reports)).Msg("start processing reports")
			if err := executeFn(ctx, pld); err != nil {
				w.onFailure(pld, err)
			}
			logger.Debug().Str("BATCH_ID", pld.ID).Msg("end processing reports")
		}
	}
}

type payload struct {
	Payload domain.ReportBatch `json:"payload"`
	Error   *errorReason       `json:"error_reason"`
}

func (c *payload) SetErrorReason(err error) {
	if c.Error == nil {
		c.Error = new(errorReason)
	}
	c.Error.Reason = err
}

func (c *payload) GetErrorReason() error {
	if c.Error != nil {
		return c.Error.Reason
	}
	return nil
}

type errorReason struct {
	Reason error
}

func (e errorReason) MarshalJSON() ([]byte, error) {
	if e.Reason != nil {
		return json.Marshal(e.Reason.Error())
	}
	return json.Marshal(nil)
}

func (e *errorReason) UnmarshalJSON(data []byte) error {
	var reason *string
	if err := json.Unmarshal(data, &reason); err != nil {
		return err
	}
	if reason != nil {
		e.Reason = errors.New(*reason)
	}
	return nil
}
