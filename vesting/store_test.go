package vesting

import (
	"context"
	"errors"
	"testing"
)

func seedSchedules(t *testing.T, b *MemoryBackend) []VestingSchedule {
	t.Helper()
	ctx := context.Background()

	specs := []ScheduleKey{
		{Admin: "admin-1", Beneficiary: "beneficiary-1", Asset: "asset-1"},
		{Admin: "admin-1", Beneficiary: "beneficiary-2", Asset: "asset-1"},
		{Admin: "admin-2", Beneficiary: "beneficiary-1", Asset: "asset-2"},
	}
	result := []VestingSchedule{}
	for _, key := range specs {
		scheduleAuth, err := ScheduleAuthority(key)
		if err != nil {
			t.Fatalf("ScheduleAuthority failed: %v", err)
		}
		vaultAuth, err := VaultAuthority(scheduleAuth.Address)
		if err != nil {
			t.Fatalf("VaultAuthority failed: %v", err)
		}
		s := VestingSchedule{
			Address:         scheduleAuth.Address,
			Admin:           key.Admin,
			Beneficiary:     key.Beneficiary,
			Asset:           key.Asset,
			TotalAmount:     1_000,
			StartTime:       10_000,
			CliffDuration:   0,
			VestingDuration: MinVestingDuration,
			Bump:            scheduleAuth.Bump,
			VaultBump:       vaultAuth.Bump,
			VaultAddress:    vaultAuth.Address,
		}
		b.Credit(HoldingFor(key.Admin, key.Asset), s.TotalAmount)
		if err := b.CreateSchedule(ctx, &s, HoldingFor(key.Admin, key.Asset)); err != nil {
			t.Fatalf("CreateSchedule failed: %v", err)
		}
		result = append(result, s)
	}
	return result
}

func TestMemoryListSchedulesFilter(t *testing.T) {
	b := NewMemoryBackend()
	seedSchedules(t, b)
	ctx := context.Background()

	byAdmin, err := b.ListSchedules(ctx, ScheduleFilter{Admin: []AccountAddress{"admin-1"}}, LimitRequest{})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(byAdmin) != 2 {
		t.Errorf("admin filter returned %d schedules, expected 2", len(byAdmin))
	}

	byPair, err := b.ListSchedules(ctx, ScheduleFilter{
		Admin:       []AccountAddress{"admin-1"},
		Beneficiary: []AccountAddress{"beneficiary-2"},
	}, LimitRequest{})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(byPair) != 1 || byPair[0].Beneficiary != "beneficiary-2" {
		t.Errorf("pair filter returned %v", byPair)
	}

	byAsset, err := b.ListSchedules(ctx, ScheduleFilter{Asset: []AccountAddress{"asset-2"}}, LimitRequest{})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(byAsset) != 1 || byAsset[0].Admin != "admin-2" {
		t.Errorf("asset filter returned %v", byAsset)
	}

	none, err := b.ListSchedules(ctx, ScheduleFilter{Admin: []AccountAddress{"nobody"}}, LimitRequest{})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unmatched filter returned %d schedules", len(none))
	}
}

func TestMemoryListSchedulesSortAndPaging(t *testing.T) {
	b := NewMemoryBackend()
	seedSchedules(t, b)
	ctx := context.Background()

	asc, err := b.ListSchedules(ctx, ScheduleFilter{}, LimitRequest{})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i-1].Address > asc[i].Address {
			t.Fatal("default order is not ascending by address")
		}
	}

	sortDesc := DESC
	desc, err := b.ListSchedules(ctx, ScheduleFilter{}, LimitRequest{Sort: &sortDesc})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if desc[0].Address != asc[len(asc)-1].Address {
		t.Error("descending order does not mirror ascending")
	}

	limit := int32(1)
	offset := int32(1)
	page, err := b.ListSchedules(ctx, ScheduleFilter{}, LimitRequest{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(page) != 1 || page[0].Address != asc[1].Address {
		t.Errorf("paging returned %v, expected the second schedule", page)
	}

	offset = 10
	empty, err := b.ListSchedules(ctx, ScheduleFilter{}, LimitRequest{Offset: &offset})
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("out-of-range offset returned %d schedules", len(empty))
	}
}

func TestMemoryTransferAuthorityChecks(t *testing.T) {
	b := NewMemoryBackend()
	schedules := seedSchedules(t, b)
	ctx := context.Background()
	s := schedules[0]

	// a foreign authority cannot release escrowed funds
	err := b.MutateSchedule(ctx, s.Address, func(tx Tx) error {
		foreign := ScheduleAuthorityAt(schedules[1].Key(), schedules[1].Bump)
		return tx.Transfer(s.VaultHolding(), HoldingFor(s.Beneficiary, s.Asset), 100, foreign)
	})
	if !errors.Is(err, ErrInvalidAuthority) {
		t.Errorf("expected InvalidAuthority, got %v", err)
	}

	// a forged address with the right seeds fails verification
	err = b.MutateSchedule(ctx, s.Address, func(tx Tx) error {
		forged := ScheduleAuthorityAt(s.Key(), s.Bump)
		forged.Address = "0000000000000000000000000000000000000000000000000000000000000000"
		return tx.Transfer(s.VaultHolding(), HoldingFor(s.Beneficiary, s.Asset), 100, forged)
	})
	if !errors.Is(err, ErrInvalidAuthority) {
		t.Errorf("expected InvalidAuthority for forged address, got %v", err)
	}

	// the genuine schedule authority releases funds
	err = b.MutateSchedule(ctx, s.Address, func(tx Tx) error {
		auth := ScheduleAuthorityAt(s.Key(), s.Bump)
		return tx.Transfer(s.VaultHolding(), HoldingFor(s.Beneficiary, s.Asset), 100, auth)
	})
	if err != nil {
		t.Fatalf("authorized transfer failed: %v", err)
	}
	bal, _ := b.Balance(ctx, HoldingFor(s.Beneficiary, s.Asset))
	if bal != 100 {
		t.Errorf("beneficiary balance %d, expected 100", bal)
	}
}

func TestMemoryMutateRollsBackOnError(t *testing.T) {
	b := NewMemoryBackend()
	schedules := seedSchedules(t, b)
	ctx := context.Background()
	s := schedules[0]

	failure := errors.New("callback failed")
	err := b.MutateSchedule(ctx, s.Address, func(tx Tx) error {
		auth := ScheduleAuthorityAt(s.Key(), s.Bump)
		if err := tx.Transfer(s.VaultHolding(), HoldingFor(s.Beneficiary, s.Asset), 100, auth); err != nil {
			return err
		}
		working := tx.Schedule()
		working.ClaimedAmount = 100
		tx.Put(working)
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected callback error, got %v", err)
	}

	vaultBal, _ := b.Balance(ctx, s.VaultHolding())
	if vaultBal != s.TotalAmount {
		t.Errorf("vault balance %d changed by rolled-back transfer", vaultBal)
	}
	stored, _ := b.GetSchedule(ctx, s.Address)
	if stored.ClaimedAmount != 0 {
		t.Errorf("claimed counter %d changed by rolled-back mutation", stored.ClaimedAmount)
	}
}

func TestMemoryGetScheduleReturnsCopy(t *testing.T) {
	b := NewMemoryBackend()
	schedules := seedSchedules(t, b)
	ctx := context.Background()

	first, err := b.GetSchedule(ctx, schedules[0].Address)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	first.ClaimedAmount = 999

	second, err := b.GetSchedule(ctx, schedules[0].Address)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if second.ClaimedAmount != 0 {
		t.Error("mutation of a returned schedule leaked into the store")
	}
}
