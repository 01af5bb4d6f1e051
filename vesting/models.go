package vesting

type AccountAddress string

// HoldingID identifies one balance of one asset under one owner.
type HoldingID string

// ScheduleKey is the unique (admin, beneficiary, asset) triple. At most one
// vesting schedule exists per key.
type ScheduleKey struct {
	Admin       AccountAddress `json:"admin"`
	Beneficiary AccountAddress `json:"beneficiary"`
	Asset       AccountAddress `json:"asset"`
}

type VestingSchedule struct {
	Address         AccountAddress `json:"address"`
	Admin           AccountAddress `json:"admin"`
	Beneficiary     AccountAddress `json:"beneficiary"`
	Asset           AccountAddress `json:"asset"`
	TotalAmount     uint64         `json:"total_amount,string"`
	ClaimedAmount   uint64         `json:"claimed_amount,string"`
	StartTime       int64          `json:"start_time"`
	CliffDuration   int64          `json:"cliff_duration"`
	VestingDuration int64          `json:"vesting_duration"`
	IsRevoked       bool           `json:"is_revoked"`
	RevokedAmount   uint64         `json:"revoked_amount,string"`
	Bump            uint8          `json:"bump"`
	VaultBump       uint8          `json:"vault_bump"`
	VaultAddress    AccountAddress `json:"vault_address"`
}

func (s *VestingSchedule) Key() ScheduleKey {
	return ScheduleKey{Admin: s.Admin, Beneficiary: s.Beneficiary, Asset: s.Asset}
}

// VaultHolding is the escrow holding paired with this schedule. Its balance
// is released only through transfers signed by the schedule's derived
// authority.
func (s *VestingSchedule) VaultHolding() HoldingID {
	return HoldingFor(s.VaultAddress, s.Asset)
}

// HoldingFor names the holding of one asset under one owner.
func HoldingFor(owner AccountAddress, asset AccountAddress) HoldingID {
	return HoldingID(string(owner) + "/" + string(asset))
}
