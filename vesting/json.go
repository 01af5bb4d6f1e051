package vesting

import "strings"

// Methods
func (a *AccountAddress) MarshalJSON() ([]byte, error) {
	return []byte("\"" + strings.Trim(string(*a), " ") + "\""), nil
}

func (h *HoldingID) MarshalJSON() ([]byte, error) {
	return []byte("\"" + string(*h) + "\""), nil
}
