package repository

import (
	"context"
	"fmt"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	pkgkafka "github.com/fslick/fundamentals-yf/pkg/kafka"
)

// batchPublisher is the slice of *pkgkafka.Producer the publisher needs.
type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
}

// KafkaReportPublisher publishes reports as JSON keyed by symbol, so every
// report of a symbol lands on the same partition.
type KafkaReportPublisher struct {
	producer batchPublisher
	topic    string
}

var _ domrepo.ReportPublisher = (*KafkaReportPublisher)(nil)

func NewKafkaReportPublisher(producer batchPublisher, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.Report) error {
	return p.PublishBatch(ctx, []*models.Report{r})
}

func (p *KafkaReportPublisher) PublishBatch(ctx context.Context, reports []*models.Report) error {
	msgs := make([]pkgkafka.Message, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:     []byte(r.Symbol),
			Value:   r,
			Headers: map[string]string{"content-type": "application/json", "ttm-source": r.TTMSource},
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish %d reports: %w", len(msgs), err)
	}
	return nil
}

// Close is a no-op; the producer is shared and closed by its owner.
func (p *KafkaReportPublisher) Close() error { return nil }
