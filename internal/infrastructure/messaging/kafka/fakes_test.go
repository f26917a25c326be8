package kafka

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/molmatch/pkg/types/common"
)

type fakeWriter struct {
	mu       sync.Mutex
	written  []kafka.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr != nil {
		return w.writeErr
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWriter) Stats() kafka.WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return kafka.WriterStats{Messages: int64(len(w.written))}
}

// fakeReader serves queued messages then blocks until ctx ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	commitCh  chan kafka.Message
	fetchErrs []error
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	return &fakeReader{queue: msgs, commitCh: make(chan kafka.Message, 16)}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	r.committed = append(r.committed, msgs...)
	r.mu.Unlock()
	for _, m := range msgs {
		r.commitCh <- m
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) Stats() kafka.ReaderStats {
	return kafka.ReaderStats{}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*common.ProducerMessage
}

func (p *recordingPublisher) Publish(ctx context.Context, msg *common.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) published() []*common.ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*common.ProducerMessage(nil), p.msgs...)
}

type fakeConn struct {
	created   []kafka.TopicConfig
	existing  map[string]bool
	createErr error
}

func (c *fakeConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.created = append(c.created, topics...)
	return nil
}

func (c *fakeConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	var out []kafka.Partition
	for _, t := range topics {
		if c.existing[t] {
			out = append(out, kafka.Partition{Topic: t})
		}
	}
	return out, nil
}

func (c *fakeConn) Close() error { return nil }

//Personal.AI order the ending
