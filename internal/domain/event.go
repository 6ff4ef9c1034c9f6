package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the request topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the report topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
