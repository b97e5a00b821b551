package report

import (
	"context"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/kafka"
)

// Publisher is the subset of kafka.Producer the sink needs.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// KafkaSink publishes one event per ranked record, keyed by corpus and
// configuration so reruns of the same configuration land on one partition.
type KafkaSink struct {
	pub Publisher
}

func NewKafkaSink(pub Publisher) *KafkaSink {
	return &KafkaSink{pub: pub}
}

func (k *KafkaSink) Name() string { return "kafka" }

func (k *KafkaSink) Emit(ctx context.Context, run Run) error {
	rows := Rows(run)
	events := make([]kafka.Event, len(rows))
	for i, row := range rows {
		events[i] = kafka.Event{
			Key:   fmt.Sprintf("%s/%s.%s/%t", row.Corpus, row.DocumentScheme, row.QueryScheme, row.Stemming),
			Value: row,
		}
	}
	return k.pub.PublishBatch(ctx, events)
}

func (k *KafkaSink) Close() error {
	if c, ok := k.pub.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
