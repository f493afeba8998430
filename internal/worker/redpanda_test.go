//go:build integration

package worker

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/goleak"

	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/producer"
	"github.com/leshachaplin/crashlog/internal/testingh"
)

const (
	topic = "topic"
)

var (
	defaultTopics = []string{topic}
)

type IntegrationTestSuite struct {
	ctx      context.Context
	cancelFn context.CancelFunc

	kafkaCLi  *kadm.Client
	container *testingh.Container
	broker    string

	consumerCfg consumer.Config
	producerCfg producer.Config
	*rand.Rand

	suite.Suite
}

func (i *IntegrationTestSuite) SetupSuite() {
	var err error
	ctx, cnsl := context.WithTimeout(context.Background(), time.Minute*2)
	i.ctx = ctx
	i.cancelFn = cnsl

	i.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	i.container, err = testingh.Redpanda(func(connURL string) error {
		i.broker = connURL
		pandaCLi, err := kgo.NewClient(kgo.SeedBrokers(connURL))
		if err != nil {
			return err
		}

		if pingErr := pandaCLi.Ping(ctx); pingErr != nil {
			pandaCLi.Close()
			return pingErr
		}

		i.kafkaCLi = kadm.NewClient(pandaCLi)
		return nil
	})
	i.Require().NoError(err)

	createTopicResponses, err := i.kafkaCLi.CreateTopics(ctx, 1, 1, map[string]*string{}, defaultTopics...)
	i.Assert().NoError(err)
	i.kafkaCLi.Close()

	for _, response := range createTopicResponses {
		i.Require().NoError(response.Err)
	}

	i.consumerCfg = consumer.Config{
		Brokers:       []string{i.broker},
		ConsumerGroup: "topic-cg",
		Topics:        []string{topic},
		RetryCount:    5,
	}
	i.producerCfg = producer.Config{
		RetryAttempts: 5,
		RetryDelay:    time.Second,
		Brokers:       []string{i.broker},
		Topic:         topic,
	}
}

func (i *IntegrationTestSuite) TearDownSuite() {
	i.cancelFn()
	err := i.container.Purge()
	i.Assert().NoError(err)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (i *IntegrationTestSuite) TestWorker_RedpandaQueue() {
	cases := map[string]struct {
		cfg        Config
		taskAmount int
	}{
		"ok": {
			cfg:        Config{NumWorkers: 100},
			taskAmount: 100,
		},
		"ok - tasks more than workers": {
			cfg:        Config{NumWorkers: 10},
			taskAmount: 1000,
		},
	}

	for name, tc := range cases {
		i.Run(name, func() {
			defer goleak.VerifyNone(i.T(), goleak.IgnoreCurrent())
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute*2)
			defer cancel()

			consumerErrorChan := make(chan error, 1)
			cons, err := consumer.NewConsumer(i.consumerCfg, consumerErrorChan, log.Logger)
			i.Require().NoError(err)

			prod, err := producer.NewProducer(i.ctx, i.producerCfg, log.With().Str("producer", "Publish").Logger())
			i.Require().NoError(err)

			payloadChan := make(chan domain.ReportBatch, tc.cfg.NumWorkers)
			execFn := func(ctx context.Context, batch domain.ReportBatch) error {
				payloadChan <- batch
				return nil
			}

			pool := New(ctx, tc.cfg, NewRedpandaQueue(prod, cons), nil, log.With().Str("WORKER", "PROCESS").Logger())
			pool.Start(execFn)

			wg := &sync.WaitGroup{}
			wg.Add(1)
			go func(t *testing.T) {
				defer wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					case batch, ok := <-payloadChan:
						require.True(t, ok)
						require.Equal(t, "test_id", batch.ID)
					}
				}
			}(i.T())

			for k := 0; k < tc.taskAmount; k++ {
				pool.Process(domain.ReportBatch{
					ID:      "test_id",
					Reports: []domain.Report{{ID: uuid.NewString(), Type: "crash"}},
				})
			}

			pool.GracefulStop()
			i.NoError(cons.Close())
			i.NoError(prod.Close())
			cancel()
			wg.Wait()
		})
	}
}
