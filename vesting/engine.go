package vesting

import (
	"context"
	"log"
	"math/bits"
)

// Engine runs the three vesting transitions against a Backend. All business
// rules live here; the backend only provides atomic, serialized storage and
// authority-checked transfers.
type Engine struct {
	backend Backend
	clock   Clock
	cache   *Cache[VestingSchedule]
	sinks   []EventSink
}

func NewEngine(backend Backend, clock Clock) *Engine {
	return &Engine{backend: backend, clock: clock}
}

// SetCache enables the schedule read cache for single-schedule queries.
func (e *Engine) SetCache(cache *Cache[VestingSchedule]) {
	e.cache = cache
}

// AddSink registers an event sink. Sinks run post-commit, best-effort.
func (e *Engine) AddSink(sink EventSink) {
	e.sinks = append(e.sinks, sink)
}

// CreateSchedule validates parameters in order (first failure wins), derives
// the schedule and vault authorities, and asks the backend to atomically
// create the record and escrow TotalAmount from the admin's holding.
func (e *Engine) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*VestingSchedule, *Event, error) {
	if req.Admin == "" || req.Beneficiary == "" || req.Asset == "" {
		return nil, nil, VestingError{Message: "admin, beneficiary and asset are required", Code: "MissingIdentity", Status: 422}
	}
	if req.TotalAmount == 0 {
		return nil, nil, ErrInvalidAmount
	}
	if req.VestingDuration < MinVestingDuration {
		return nil, nil, ErrDurationTooShort
	}
	if req.VestingDuration > MaxVestingDuration {
		return nil, nil, ErrDurationTooLong
	}
	if req.CliffDuration > req.VestingDuration {
		return nil, nil, ErrCliffTooLong
	}

	// The percentage check truncates before comparing: a cliff of 50.9% of
	// the duration still passes. Kept as-is; tightening it would change
	// which schedules are accepted at the boundary.
	hi, pct := bits.Mul64(uint64(req.CliffDuration), 100)
	if hi != 0 {
		return nil, nil, ErrCalculationOverflow
	}
	if pct/uint64(req.VestingDuration) > MaxCliffPercentage {
		return nil, nil, ErrCliffPercentageTooHigh
	}

	now := e.clock.Now()
	if req.StartTime <= now {
		return nil, nil, ErrStartTimeInPast
	}

	key := ScheduleKey{Admin: req.Admin, Beneficiary: req.Beneficiary, Asset: req.Asset}
	scheduleAuth, err := ScheduleAuthority(key)
	if err != nil {
		return nil, nil, err
	}
	vaultAuth, err := VaultAuthority(scheduleAuth.Address)
	if err != nil {
		return nil, nil, err
	}

	s := &VestingSchedule{
		Address:         scheduleAuth.Address,
		Admin:           req.Admin,
		Beneficiary:     req.Beneficiary,
		Asset:           req.Asset,
		TotalAmount:     req.TotalAmount,
		ClaimedAmount:   0,
		StartTime:       req.StartTime,
		CliffDuration:   req.CliffDuration,
		VestingDuration: req.VestingDuration,
		IsRevoked:       false,
		RevokedAmount:   0,
		Bump:            scheduleAuth.Bump,
		VaultBump:       vaultAuth.Bump,
		VaultAddress:    vaultAuth.Address,
	}

	if err := e.backend.CreateSchedule(ctx, s, HoldingFor(req.Admin, req.Asset)); err != nil {
		return nil, nil, err
	}

	ev := newEvent(EventVestingCreated, s.Address, now, VestingCreatedEvent{
		Admin:           s.Admin,
		Beneficiary:     s.Beneficiary,
		Asset:           s.Asset,
		TotalAmount:     s.TotalAmount,
		StartTime:       s.StartTime,
		CliffDuration:   s.CliffDuration,
		VestingDuration: s.VestingDuration,
	})
	e.publish(ctx, ev)
	e.cacheSet(ctx, s)

	log.Printf("Vesting created: %d tokens for %s over %d seconds",
		s.TotalAmount, s.Beneficiary, s.VestingDuration)
	return s, &ev, nil
}

// Claim releases the claimable amount from the vault to the beneficiary and
// advances the claimed counter. The transfer and the counter update commit
// together or not at all.
func (e *Engine) Claim(ctx context.Context, req ClaimRequest) (*Event, error) {
	if req.Schedule == "" || req.Beneficiary == "" {
		return nil, VestingError{Message: "schedule and beneficiary are required", Code: "MissingIdentity", Status: 422}
	}

	var ev Event
	var claimable, totalClaimed, totalAmount uint64
	err := e.backend.MutateSchedule(ctx, req.Schedule, func(tx Tx) error {
		s := tx.Schedule()
		if s.Beneficiary != req.Beneficiary {
			return ErrNotBeneficiary
		}

		now := e.clock.Now()
		if s.IsRevoked {
			return ErrVestingRevoked
		}
		if !s.IsCliffReached(now) {
			return ErrCliffNotReached
		}

		var err error
		claimable, err = s.ClaimableAmount(now)
		if err != nil {
			return err
		}
		if claimable == 0 {
			return ErrNothingToClaim
		}

		auth := ScheduleAuthorityAt(s.Key(), s.Bump)
		if err := tx.Transfer(s.VaultHolding(), HoldingFor(s.Beneficiary, s.Asset), claimable, auth); err != nil {
			return err
		}

		claimed, ok := checkedAddU64(s.ClaimedAmount, claimable)
		if !ok {
			return ErrCalculationOverflow
		}
		s.ClaimedAmount = claimed
		tx.Put(s)

		totalClaimed = claimed
		totalAmount = s.TotalAmount
		ev = newEvent(EventTokensClaimed, s.Address, now, TokensClaimedEvent{
			Beneficiary:  s.Beneficiary,
			Asset:        s.Asset,
			Amount:       claimable,
			TotalClaimed: claimed,
			Remaining:    s.TotalAmount - claimed,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.cacheInvalidate(ctx, req.Schedule)
	e.publish(ctx, ev)
	log.Printf("Claimed %d tokens. Total: %d/%d", claimable, totalClaimed, totalAmount)
	return &ev, nil
}

// Revoke returns the unvested remainder to the admin and freezes the
// schedule. Terminal: the flag is set even when nothing remains unvested.
func (e *Engine) Revoke(ctx context.Context, req RevokeRequest) (*Event, error) {
	if req.Schedule == "" || req.Admin == "" {
		return nil, VestingError{Message: "schedule and admin are required", Code: "MissingIdentity", Status: 422}
	}

	var ev Event
	var unvested uint64
	err := e.backend.MutateSchedule(ctx, req.Schedule, func(tx Tx) error {
		s := tx.Schedule()
		if s.Admin != req.Admin {
			return ErrNotAdmin
		}

		now := e.clock.Now()
		if s.IsRevoked {
			return ErrVestingRevoked
		}
		if s.IsFullyVested(now) {
			return ErrVestingCompleted
		}

		var err error
		unvested, err = s.UnvestedAmount(now)
		if err != nil {
			return err
		}

		if unvested > 0 {
			auth := ScheduleAuthorityAt(s.Key(), s.Bump)
			if err := tx.Transfer(s.VaultHolding(), HoldingFor(s.Admin, s.Asset), unvested, auth); err != nil {
				return err
			}
		}

		s.IsRevoked = true
		s.RevokedAmount = unvested
		tx.Put(s)

		ev = newEvent(EventVestingRevoked, s.Address, now, VestingRevokedEvent{
			Admin:          s.Admin,
			Beneficiary:    s.Beneficiary,
			Asset:          s.Asset,
			UnvestedAmount: unvested,
			VestedAmount:   s.TotalAmount - unvested,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.cacheInvalidate(ctx, req.Schedule)
	e.publish(ctx, ev)
	log.Printf("Revoked. %d tokens returned to admin", unvested)
	return &ev, nil
}

// GetScheduleState resolves a schedule by address or by its (admin,
// beneficiary, asset) triple and reports the amounts computed at the current
// time alongside the escrow balance.
func (e *Engine) GetScheduleState(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error) {
	var address AccountAddress
	switch {
	case req.Address != nil:
		address = *req.Address
	case req.Admin != nil && req.Beneficiary != nil && req.Asset != nil:
		auth, err := ScheduleAuthority(ScheduleKey{Admin: *req.Admin, Beneficiary: *req.Beneficiary, Asset: *req.Asset})
		if err != nil {
			return nil, err
		}
		address = auth.Address
	default:
		return nil, VestingError{Message: "either address or the admin, beneficiary and asset triple is required", Code: "MissingIdentity", Status: 422}
	}

	s, err := e.cachedSchedule(ctx, address)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	vested, err := s.VestedAmount(now)
	if err != nil {
		return nil, err
	}
	claimable, err := s.ClaimableAmount(now)
	if err != nil {
		return nil, err
	}
	unvested, err := s.UnvestedAmount(now)
	if err != nil {
		return nil, err
	}
	balance, err := e.backend.Balance(ctx, s.VaultHolding())
	if err != nil {
		return nil, err
	}

	return &ScheduleResponse{
		Schedule:        s,
		CurrentTime:     now,
		VestedAmount:    vested,
		ClaimableAmount: claimable,
		UnvestedAmount:  unvested,
		EscrowBalance:   balance,
	}, nil
}

func (e *Engine) ListSchedules(ctx context.Context, filter ScheduleFilter, lim LimitRequest) ([]VestingSchedule, error) {
	return e.backend.ListSchedules(ctx, filter, lim)
}

func (e *Engine) publish(ctx context.Context, ev Event) {
	for _, sink := range e.sinks {
		if err := sink.Publish(ctx, ev); err != nil {
			log.Printf("event sink failed for %s %s: %v", ev.Type, ev.ID, err)
		}
	}
}

func (e *Engine) cachedSchedule(ctx context.Context, address AccountAddress) (*VestingSchedule, error) {
	if e.cache != nil {
		if s, err := e.cache.Get(ctx, string(address)); err == nil {
			return &s, nil
		}
	}
	s, err := e.backend.GetSchedule(ctx, address)
	if err != nil {
		return nil, err
	}
	e.cacheSet(ctx, s)
	return s, nil
}

func (e *Engine) cacheSet(ctx context.Context, s *VestingSchedule) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, string(s.Address), *s); err != nil {
		log.Printf("schedule cache set failed for %s: %v", s.Address, err)
	}
}

func (e *Engine) cacheInvalidate(ctx context.Context, address AccountAddress) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Delete(ctx, string(address)); err != nil {
		log.Printf("schedule cache invalidate failed for %s: %v", address, err)
	}
}
