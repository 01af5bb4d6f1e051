package vesting

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Clock supplies the trusted current time, in unix seconds, that every
// transition reads.
type Clock interface {
	Now() int64
}

type WallClock struct{}

func (WallClock) Now() int64 { return time.Now().Unix() }

// Tx is the mutation scope handed to MutateSchedule callbacks. Everything
// staged through it commits together iff the callback returns nil.
type Tx interface {
	// Schedule is the locked record. Mutations become visible only after Put.
	Schedule() *VestingSchedule

	// Put stages the updated record.
	Put(s *VestingSchedule)

	// Transfer stages an asset movement. A holding registered under a
	// derived authority releases funds only if the presented authority
	// re-derives to the registered address.
	Transfer(from HoldingID, to HoldingID, amount uint64, auth *Authority) error
}

// Backend is the persistent record store and escrow ledger. Implementations
// must serialize mutations per schedule record and apply each call
// atomically: a returned error leaves the record and all holdings untouched.
type Backend interface {
	// CreateSchedule inserts the record (create-once, occupied slot fails
	// with ErrScheduleExists), opens the vault holding under the schedule's
	// derived authority and moves s.TotalAmount from fundingSource into it.
	CreateSchedule(ctx context.Context, s *VestingSchedule, fundingSource HoldingID) error

	GetSchedule(ctx context.Context, address AccountAddress) (*VestingSchedule, error)

	ListSchedules(ctx context.Context, filter ScheduleFilter, lim LimitRequest) ([]VestingSchedule, error)

	// MutateSchedule runs fn against the locked record identified by address.
	MutateSchedule(ctx context.Context, address AccountAddress, fn func(tx Tx) error) error

	Balance(ctx context.Context, h HoldingID) (uint64, error)
}

// MemoryBackend keeps schedules and holdings in maps. It is the test double
// for the Postgres backend and serves single-process runs without a
// database. A single mutex gives the per-record serialization the Postgres
// backend gets from row locks.
type MemoryBackend struct {
	mu          sync.Mutex
	schedules   map[AccountAddress]*VestingSchedule
	byKey       map[ScheduleKey]AccountAddress
	balances    map[HoldingID]uint64
	authorities map[HoldingID]AccountAddress
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		schedules:   make(map[AccountAddress]*VestingSchedule),
		byKey:       make(map[ScheduleKey]AccountAddress),
		balances:    make(map[HoldingID]uint64),
		authorities: make(map[HoldingID]AccountAddress),
	}
}

// Credit adds funds to a holding. This is the deposit path for tests and
// local runs; real deposits arrive through the external token layer.
func (b *MemoryBackend) Credit(h HoldingID, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[h] += amount
}

func (b *MemoryBackend) CreateSchedule(ctx context.Context, s *VestingSchedule, fundingSource HoldingID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.schedules[s.Address]; ok {
		return ErrScheduleExists
	}
	if _, ok := b.byKey[s.Key()]; ok {
		return ErrScheduleExists
	}
	funds, ok := b.balances[fundingSource]
	if !ok {
		return ErrHoldingNotFound
	}
	if funds < s.TotalAmount {
		return ErrInsufficientFunds
	}

	vault := s.VaultHolding()
	b.balances[fundingSource] = funds - s.TotalAmount
	b.balances[vault] += s.TotalAmount
	b.authorities[vault] = s.Address

	stored := *s
	b.schedules[s.Address] = &stored
	b.byKey[s.Key()] = s.Address
	return nil
}

func (b *MemoryBackend) GetSchedule(ctx context.Context, address AccountAddress) (*VestingSchedule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.schedules[address]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	copied := *s
	return &copied, nil
}

func (b *MemoryBackend) ListSchedules(ctx context.Context, filter ScheduleFilter, lim LimitRequest) ([]VestingSchedule, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := []VestingSchedule{}
	for _, s := range b.schedules {
		if !filter.matches(s) {
			continue
		}
		result = append(result, *s)
	}
	descending := lim.Sort != nil && *lim.Sort == DESC
	sort.Slice(result, func(i, j int) bool {
		if descending {
			return result[i].Address > result[j].Address
		}
		return result[i].Address < result[j].Address
	})

	offset := 0
	if lim.Offset != nil {
		offset = int(*lim.Offset)
	}
	if offset >= len(result) {
		return []VestingSchedule{}, nil
	}
	result = result[offset:]
	if lim.Limit != nil && int(*lim.Limit) < len(result) {
		result = result[:*lim.Limit]
	}
	return result, nil
}

func (b *MemoryBackend) MutateSchedule(ctx context.Context, address AccountAddress, fn func(tx Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored, ok := b.schedules[address]
	if !ok {
		return ErrScheduleNotFound
	}

	working := *stored
	tx := &memoryTx{backend: b, schedule: &working, staged: make(map[HoldingID]uint64)}
	if err := fn(tx); err != nil {
		return err
	}

	// commit
	for h, bal := range tx.staged {
		b.balances[h] = bal
	}
	if tx.updated != nil {
		committed := *tx.updated
		b.schedules[address] = &committed
	}
	return nil
}

func (b *MemoryBackend) Balance(ctx context.Context, h HoldingID) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[h], nil
}

type memoryTx struct {
	backend  *MemoryBackend
	schedule *VestingSchedule
	staged   map[HoldingID]uint64
	updated  *VestingSchedule
}

func (t *memoryTx) Schedule() *VestingSchedule { return t.schedule }

func (t *memoryTx) Put(s *VestingSchedule) {
	copied := *s
	t.updated = &copied
}

func (t *memoryTx) balance(h HoldingID) uint64 {
	if bal, ok := t.staged[h]; ok {
		return bal
	}
	return t.backend.balances[h]
}

func (t *memoryTx) Transfer(from HoldingID, to HoldingID, amount uint64, auth *Authority) error {
	if owner, ok := t.backend.authorities[from]; ok {
		if !auth.Verify() || auth.Address != owner {
			return ErrInvalidAuthority
		}
	}
	funds := t.balance(from)
	if funds < amount {
		return ErrInsufficientFunds
	}
	t.staged[from] = funds - amount
	t.staged[to] = t.balance(to) + amount
	return nil
}

func (f *ScheduleFilter) matches(s *VestingSchedule) bool {
	if len(f.Admin) > 0 && !containsAddress(f.Admin, s.Admin) {
		return false
	}
	if len(f.Beneficiary) > 0 && !containsAddress(f.Beneficiary, s.Beneficiary) {
		return false
	}
	if len(f.Asset) > 0 && !containsAddress(f.Asset, s.Asset) {
		return false
	}
	return true
}

func containsAddress(list []AccountAddress, a AccountAddress) bool {
	for _, v := range list {
		if v == a {
			return true
		}
	}
	return false
}
