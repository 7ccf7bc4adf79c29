package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		ID:          "snap-1",
		Kind:        "comparison",
		Subject:     "IND/NY.GDP.PCAP.CD",
		GeneratedAt: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
		Data:        map[string]float64{"correlation": 0.78},
	}
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, []byte("snap-1"), msg.Key)
	assert.JSONEq(t, `{
		"id": "snap-1",
		"kind": "comparison",
		"subject": "IND/NY.GDP.PCAP.CD",
		"generated_at": "2024-03-20T12:00:00Z",
		"data": {"correlation": 0.78}
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("comparison"), msg.Headers[0].Value)
	assert.Equal(t, "subject", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-03-20T12:00:00Z"), msg.Headers[2].Value)
}

func TestSerializeToMessage_UnencodableData(t *testing.T) {
	snap := testSnapshot()
	snap.Data = make(chan int)

	_, err := serializeToMessage(snap)
	assert.Error(t, err)
}

func TestWriter_Publish(t *testing.T) {
	fake := &fakeWriter{}
	metrics := observability.NewMetricsForTesting()
	w := newWriter(fake, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)

	require.NoError(t, w.Publish(context.Background(), testSnapshot()))
	require.Len(t, fake.msgs, 1)
	assert.Equal(t, []byte("snap-1"), fake.msgs[0].Key)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SnapshotsPublished), 0)

	require.NoError(t, w.Close())
	assert.True(t, fake.closed)
}

func TestWriter_PublishError(t *testing.T) {
	fake := &fakeWriter{err: errors.New("leader not available")}
	metrics := observability.NewMetricsForTesting()
	w := newWriter(fake, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)

	err := w.Publish(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snap-1")
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.SnapshotsPublished), 0)
}
