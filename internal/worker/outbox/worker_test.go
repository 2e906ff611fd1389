package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	pending []outbox.Message
	deleted []int64
	retried map[int64]int
	errs    map[int64]string
}

func (f *fakeRepo) Insert(context.Context, outbox.Message) error { return nil }

func (f *fakeRepo) GetPendingMessages(_ context.Context, limit int) ([]outbox.Message, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, _ time.Time) error {
	if f.retried == nil {
		f.retried = map[int64]int{}
		f.errs = map[int64]string{}
	}
	f.retried[id] = retryCount
	f.errs[id] = lastError
	return nil
}

type fakePublisher struct {
	failKey   string
	published []amqp.Publishing
}

func (p *fakePublisher) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if key == p.failKey {
		return errors.New("channel closed")
	}
	p.published = append(p.published, msg)
	return nil
}

func TestProcessMessagesPublishesAndDeletes(t *testing.T) {
	repo := &fakeRepo{pending: []outbox.Message{
		{ID: 1, MessageID: "a", RoutingKey: "ticket.resolved", ContentType: "application/json", Payload: []byte(`{}`)},
		{ID: 2, MessageID: "b", RoutingKey: "broken", RetryCount: 1},
	}}
	pub := &fakePublisher{failKey: "broken"}

	w := NewWorker(repo, pub)
	w.processMessages(context.Background())

	assert.Equal(t, []int64{1}, repo.deleted)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "a", pub.published[0].MessageId)
	assert.Equal(t, amqp.Persistent, pub.published[0].DeliveryMode)

	assert.Equal(t, 2, repo.retried[2])
	assert.Equal(t, "channel closed", repo.errs[2])
}

func TestBackoffDoubles(t *testing.T) {
	assert.Equal(t, time.Minute, backoff(1))
	assert.Equal(t, 2*time.Minute, backoff(2))
	assert.Equal(t, 4*time.Minute, backoff(3))
}

func TestStartStops(t *testing.T) {
	w := NewWorker(&fakeRepo{}, &fakePublisher{})
	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
