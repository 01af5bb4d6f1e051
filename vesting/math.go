package vesting

import "math/bits"

const (
	MinVestingDuration int64 = 86_400      // 1 day
	MaxVestingDuration int64 = 315_360_000 // 10 years

	MaxCliffPercentage uint64 = 50
)

// VestedAmount returns the amount unlocked at currentTime.
//
// Revoked schedules are frozen at total - revoked. Before the cliff nothing
// is vested, at or after the vesting end everything is. In between the
// amount grows linearly: total * elapsed / duration, multiplied in 128 bits
// before dividing so the intermediate product cannot overflow.
func (s *VestingSchedule) VestedAmount(currentTime int64) (uint64, error) {
	if s.IsRevoked {
		return saturatingSub(s.TotalAmount, s.RevokedAmount), nil
	}

	cliffEnd, ok := checkedAddI64(s.StartTime, s.CliffDuration)
	if !ok {
		return 0, ErrCalculationOverflow
	}
	if currentTime < cliffEnd {
		return 0, nil
	}

	vestingEnd, ok := checkedAddI64(s.StartTime, s.VestingDuration)
	if !ok {
		return 0, ErrCalculationOverflow
	}
	if currentTime >= vestingEnd {
		return s.TotalAmount, nil
	}

	// Here 0 <= elapsed < duration, so the quotient fits in 64 bits.
	elapsed := uint64(currentTime - s.StartTime)
	duration := uint64(s.VestingDuration)

	hi, lo := bits.Mul64(s.TotalAmount, elapsed)
	if duration == 0 || hi >= duration {
		return 0, ErrCalculationOverflow
	}
	vested, _ := bits.Div64(hi, lo, duration)
	return vested, nil
}

// ClaimableAmount is vested minus already claimed, floored at zero.
func (s *VestingSchedule) ClaimableAmount(currentTime int64) (uint64, error) {
	vested, err := s.VestedAmount(currentTime)
	if err != nil {
		return 0, err
	}
	return saturatingSub(vested, s.ClaimedAmount), nil
}

// UnvestedAmount is total minus vested, floored at zero.
func (s *VestingSchedule) UnvestedAmount(currentTime int64) (uint64, error) {
	vested, err := s.VestedAmount(currentTime)
	if err != nil {
		return 0, err
	}
	return saturatingSub(s.TotalAmount, vested), nil
}

func (s *VestingSchedule) IsCliffReached(currentTime int64) bool {
	cliffEnd, ok := checkedAddI64(s.StartTime, s.CliffDuration)
	return ok && currentTime >= cliffEnd
}

func (s *VestingSchedule) IsFullyVested(currentTime int64) bool {
	vestingEnd, ok := checkedAddI64(s.StartTime, s.VestingDuration)
	return ok && currentTime >= vestingEnd
}

func checkedAddI64(a int64, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func checkedAddU64(a uint64, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

func saturatingSub(a uint64, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
