package vesting

import (
	"time"
)

// settings
type RequestSettings struct {
	Timeout      time.Duration
	DefaultLimit int32
	MaxLimit     int32
}

// requests
type CreateScheduleRequest struct {
	Admin           AccountAddress `json:"admin"`
	Beneficiary     AccountAddress `json:"beneficiary"`
	Asset           AccountAddress `json:"asset"`
	TotalAmount     uint64         `json:"total_amount,string"`
	StartTime       int64          `json:"start_time"`
	CliffDuration   int64          `json:"cliff_duration"`
	VestingDuration int64          `json:"vesting_duration"`
}

type ClaimRequest struct {
	Schedule    AccountAddress `json:"schedule"`
	Beneficiary AccountAddress `json:"beneficiary"`
}

type RevokeRequest struct {
	Schedule AccountAddress `json:"schedule"`
	Admin    AccountAddress `json:"admin"`
}

type ScheduleRequest struct {
	Address     *AccountAddress `query:"address"`
	Admin       *AccountAddress `query:"admin"`
	Beneficiary *AccountAddress `query:"beneficiary"`
	Asset       *AccountAddress `query:"asset"`
}

type ScheduleFilter struct {
	Admin       []AccountAddress `query:"admin"`
	Beneficiary []AccountAddress `query:"beneficiary"`
	Asset       []AccountAddress `query:"asset"`
}

type SortType string

const (
	DESC SortType = "desc"
	ASC  SortType = "asc"
)

type LimitRequest struct {
	Limit  *int32    `query:"limit"`
	Offset *int32    `query:"offset"`
	Sort   *SortType `query:"sort"`
}
