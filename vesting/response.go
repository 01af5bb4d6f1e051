package vesting

// responses
type ScheduleResponse struct {
	Schedule        *VestingSchedule `json:"schedule"`
	CurrentTime     int64            `json:"current_time"`
	VestedAmount    uint64           `json:"vested_amount,string"`
	ClaimableAmount uint64           `json:"claimable_amount,string"`
	UnvestedAmount  uint64           `json:"unvested_amount,string"`
	EscrowBalance   uint64           `json:"escrow_balance,string"`
}

type SchedulesResponse struct {
	Schedules []VestingSchedule `json:"schedules"`
}

type CreateScheduleResponse struct {
	Schedule *VestingSchedule `json:"schedule"`
	Event    *Event           `json:"event"`
}

type TransitionResponse struct {
	Event *Event `json:"event"`
}
