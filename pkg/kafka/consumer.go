package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"

	"github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ConsumerOption configures Consumer.
type ConsumerOption func(*ConsumerConfig)

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	StartOffset int64
	WorkerCount int
	BufferSize  int
	RetryMax    int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string
	MinBytes    int
	MaxBytes    int
	Logger      *logger.Logger
}

// WithConsumerBrokers sets Kafka brokers.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Brokers = brokers
	}
}

// WithConsumerGroupID sets consumer group ID.
func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.GroupID = groupID
	}
}

// WithConsumerAutoOffsetReset sets where a new group starts: "earliest" or "latest".
func WithConsumerAutoOffsetReset(reset string) ConsumerOption {
	return func(c *ConsumerConfig) {
		if reset == "latest" {
			c.StartOffset = kafka.LastOffset
		} else {
			c.StartOffset = kafka.FirstOffset
		}
	}
}

// WithConsumerWorkers sets number of worker goroutines.
func WithConsumerWorkers(count int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if count > 0 {
			c.WorkerCount = count
		}
	}
}

// WithConsumerRetry configures retry attempts and backoff range.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerDLQ sets a Kafka topic name for DLQ.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.DLQTopic = topic
	}
}

// WithConsumerFetch sets fetch min/max bytes.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.MinBytes = minBytes
		c.MaxBytes = maxBytes
	}
}

// WithConsumerBufferSize sets the internal channel buffer size.
func WithConsumerBufferSize(n int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if n > 0 {
			c.BufferSize = n
		}
	}
}

// WithConsumerLogger sets the logger used for consumer lifecycle events.
func WithConsumerLogger(l *logger.Logger) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.Logger = l
	}
}

// Consumer wraps Kafka readers with a worker pool. A failed message is retried
// with backoff, then sent to the DLQ when one is configured.
type Consumer struct {
	cfg      *ConsumerConfig
	log      *logger.Logger
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	readWG   sync.WaitGroup
	workWG   sync.WaitGroup
	stopOnce sync.Once
	msgChan  chan *message
	dlq      *kafka.Writer

	lockMu    sync.Mutex
	partLocks map[string]map[int]*sync.Mutex
}

type message struct {
	topic string
	km    kafka.Message
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "fundamentals",
		StartOffset: kafka.FirstOffset,
		WorkerCount: 1,
		BufferSize:  10,
		RetryMax:    3,
		BackoffMin:  50 * time.Millisecond,
		BackoffMax:  2 * time.Second,
		MinBytes:    1,
		MaxBytes:    10e6,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Consumer{
		cfg:       cfg,
		log:       log,
		readers:   make(map[string]*kafka.Reader),
		handlers:  make(map[string]MessageHandler),
		stopChan:  make(chan struct{}),
		msgChan:   make(chan *message, cfg.BufferSize),
		partLocks: make(map[string]map[int]*sync.Mutex),
	}

	initConsumerMetricsOnce()

	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}

	return c, nil
}

// RegisterHandler registers a message handler for a specific topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		c.log.Warn("kafka consumer: handler already registered", logger.String("topic", topic))
		return
	}
	c.handlers[topic] = handler
}

// Start starts the readers and workers. It does not block.
func (c *Consumer) Start() error {
	if len(c.handlers) == 0 {
		return fmt.Errorf("no handlers registered")
	}
	for topic := range c.handlers {
		c.readers[topic] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:     c.cfg.Brokers,
			Topic:       topic,
			GroupID:     c.cfg.GroupID,
			StartOffset: c.cfg.StartOffset,
			MinBytes:    c.cfg.MinBytes,
			MaxBytes:    c.cfg.MaxBytes,
		})
		c.log.Info("kafka consumer: registered topic", logger.String("topic", topic))
	}

	for i := 0; i < c.cfg.WorkerCount; i++ {
		c.workWG.Add(1)
		go c.messageWorker()
	}

	for topic, reader := range c.readers {
		c.readWG.Add(1)
		go c.consumeMessages(topic, reader)
	}

	c.log.Info("kafka consumer: started",
		logger.Int("workers", c.cfg.WorkerCount),
		logger.String("group", c.cfg.GroupID))
	return nil
}

// Stop stops reading, drains queued messages and closes the readers.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		c.log.Info("kafka consumer: stopping")
		close(c.stopChan)

		// readers first, so nobody sends on a closed channel
		stopErr = waitGroup(ctx, &c.readWG)
		if stopErr == nil {
			close(c.msgChan)
			stopErr = waitGroup(ctx, &c.workWG)
		}

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				c.log.Error("kafka consumer: close reader", logger.String("topic", topic), logger.Error(err))
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				c.log.Error("kafka consumer: close dlq writer", logger.Error(err))
			}
		}
	})

	return stopErr
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
	case <-done:
		return nil
	}
}

func (c *Consumer) consumeMessages(topic string, reader *kafka.Reader) {
	defer c.readWG.Done()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		km, err := reader.FetchMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				c.log.Error("kafka consumer: fetch", logger.String("topic", topic), logger.Error(err))
			}
			continue
		}

		select {
		case c.msgChan <- &message{topic: topic, km: km}:
			if consumerQueueDepth != nil {
				consumerQueueDepth.WithLabelValues(topic).Set(float64(len(c.msgChan)))
			}
		case <-c.stopChan:
			return
		}
	}
}

func (c *Consumer) messageWorker() {
	defer c.workWG.Done()

	for msg := range c.msgChan {
		handler, ok := c.handlers[msg.topic]
		if !ok {
			continue
		}
		start := time.Now()
		c.handle(handler, msg)
		if consumerHandleLatency != nil {
			consumerHandleLatency.WithLabelValues(msg.topic).Observe(time.Since(start).Seconds())
		}
	}
}

func (c *Consumer) handle(handler MessageHandler, msg *message) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("kafka consumer: handler panic",
				logger.String("topic", msg.topic), logger.Any("panic", r))
		}
	}()

	// one message in flight per partition
	pl := c.partitionLock(msg.topic, msg.km.Partition)
	pl.Lock()
	defer pl.Unlock()

	var err error
	attempts := 0
	for {
		attempts++
		err = handler.Handle(context.Background(), msg.km.Value)
		if err == nil || attempts > c.cfg.RetryMax {
			break
		}
		select {
		case <-time.After(util.BackoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempts)):
		case <-c.stopChan:
			return
		}
	}

	if err != nil {
		consumerFailures.WithLabelValues(msg.topic).Inc()
		c.log.Error("kafka consumer: handle failed",
			logger.String("topic", msg.topic),
			logger.Int("attempts", attempts),
			logger.Error(err))
		if c.dlq != nil {
			if dlqErr := c.dlq.WriteMessages(context.Background(), kafka.Message{
				Topic: c.cfg.DLQTopic,
				Key:   msg.km.Key,
				Value: msg.km.Value,
				Time:  time.Now(),
				Headers: []kafka.Header{
					{Key: "source_topic", Value: []byte(msg.topic)},
					{Key: "error", Value: []byte(err.Error())},
				},
			}); dlqErr != nil {
				c.log.Error("kafka consumer: dlq write", logger.String("topic", c.cfg.DLQTopic), logger.Error(dlqErr))
			}
		}
	}

	// commit after success or DLQ hand-off to avoid poison loops
	if err == nil || c.dlq != nil {
		if reader := c.readers[msg.topic]; reader != nil {
			_ = c.commitWithRetry(reader, msg.km, 3)
		}
	}
}

// commitWithRetry commits a single message offset with bounded retries.
func (c *Consumer) commitWithRetry(reader *kafka.Reader, km kafka.Message, max int) error {
	if max <= 0 {
		max = 1
	}
	var err error
	for attempt := 1; attempt <= max; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = reader.CommitMessages(ctx, km)
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(util.BackoffWithJitter(50*time.Millisecond, 500*time.Millisecond, attempt))
	}
	c.log.Error("kafka consumer: commit failed", logger.Int("attempts", max), logger.Error(err))
	return err
}

func (c *Consumer) partitionLock(topic string, partition int) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()

	m, ok := c.partLocks[topic]
	if !ok {
		m = make(map[int]*sync.Mutex)
		c.partLocks[topic] = m
	}
	l, ok := m[partition]
	if !ok {
		l = &sync.Mutex{}
		m[partition] = l
	}
	return l
}

var (
	consumerQueueDepth    *prometheus.GaugeVec
	consumerHandleLatency *prometheus.HistogramVec
	consumerFailures      *prometheus.CounterVec
	consumerOnce          sync.Once
)

func initConsumerMetricsOnce() {
	consumerOnce.Do(func() {
		consumerQueueDepth = promauto.NewGaugeVec(
			prometheus.GaugeOpts{Name: "fundamentals_kafka_consumer_queue_depth", Help: "Number of messages waiting in consumer queue"},
			[]string{"topic"},
		)
		consumerHandleLatency = promauto.NewHistogramVec(
			prometheus.HistogramOpts{Name: "fundamentals_kafka_consumer_handle_seconds", Help: "Handling time per message"},
			[]string{"topic"},
		)
		consumerFailures = promauto.NewCounterVec(
			prometheus.CounterOpts{Name: "fundamentals_kafka_consumer_failures_total", Help: "Messages that exhausted retries"},
			[]string{"topic"},
		)
	})
}
