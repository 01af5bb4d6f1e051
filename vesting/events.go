package vesting

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// event types
const (
	EventVestingCreated = "VestingCreated"
	EventTokensClaimed  = "TokensClaimed"
	EventVestingRevoked = "VestingRevoked"
)

// Event is published after every committed transition, for off-system
// observers and auditors.
type Event struct {
	ID       string         `json:"id" msgpack:"id"`
	Type     string         `json:"type" msgpack:"type"`
	Time     int64          `json:"time" msgpack:"time"`
	Schedule AccountAddress `json:"schedule" msgpack:"schedule"`
	Payload  interface{}    `json:"payload" msgpack:"payload"`
}

type VestingCreatedEvent struct {
	Admin           AccountAddress `json:"admin" msgpack:"admin"`
	Beneficiary     AccountAddress `json:"beneficiary" msgpack:"beneficiary"`
	Asset           AccountAddress `json:"asset" msgpack:"asset"`
	TotalAmount     uint64         `json:"total_amount,string" msgpack:"total_amount"`
	StartTime       int64          `json:"start_time" msgpack:"start_time"`
	CliffDuration   int64          `json:"cliff_duration" msgpack:"cliff_duration"`
	VestingDuration int64          `json:"vesting_duration" msgpack:"vesting_duration"`
}

type TokensClaimedEvent struct {
	Beneficiary  AccountAddress `json:"beneficiary" msgpack:"beneficiary"`
	Asset        AccountAddress `json:"asset" msgpack:"asset"`
	Amount       uint64         `json:"amount,string" msgpack:"amount"`
	TotalClaimed uint64         `json:"total_claimed,string" msgpack:"total_claimed"`
	Remaining    uint64         `json:"remaining,string" msgpack:"remaining"`
}

type VestingRevokedEvent struct {
	Admin       AccountAddress `json:"admin" msgpack:"admin"`
	Beneficiary AccountAddress `json:"beneficiary" msgpack:"beneficiary"`
	Asset       AccountAddress `json:"asset" msgpack:"asset"`
	// UnvestedAmount was returned to the admin; VestedAmount is vested to
	// date and includes what the beneficiary already claimed.
	UnvestedAmount uint64 `json:"unvested_amount,string" msgpack:"unvested_amount"`
	VestedAmount   uint64 `json:"vested_amount,string" msgpack:"vested_amount"`
}

func newEvent(kind string, schedule AccountAddress, at int64, payload interface{}) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     kind,
		Time:     at,
		Schedule: schedule,
		Payload:  payload,
	}
}

// EventSink receives committed transition events. Publishing is best-effort:
// a sink failure never rolls back the transition that produced the event.
type EventSink interface {
	Publish(ctx context.Context, ev Event) error
}

// LogSink writes events to the process log.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(&ev)
	if err != nil {
		return err
	}
	log.Printf("event %s %s", ev.Type, data)
	return nil
}

const DefaultEventStream = "vesting:events"

// RedisSink appends events to a capped Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisSink(client *redis.Client, stream string, maxLen int64) *RedisSink {
	if stream == "" {
		stream = DefaultEventStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Publish(ctx context.Context, ev Event) error {
	data, err := msgpack.Marshal(&ev)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":       ev.ID,
			"type":     ev.Type,
			"schedule": string(ev.Schedule),
			"data":     data,
		},
	}
	return s.client.XAdd(ctx, args).Err()
}
