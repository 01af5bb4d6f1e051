package vesting

import (
	"crypto/sha256"
	"encoding/hex"

	"filippo.io/edwards25519"
)

const (
	VestingSeed = "vesting"
	VaultSeed   = "vault"

	// derivationNamespace stands in for the program id of this ledger
	// deployment: two deployments with different namespaces derive disjoint
	// authority spaces from identical seeds.
	derivationNamespace = "vesting-ledger-v1"
	derivationMarker    = "DerivedAuthority"
)

// Authority is a keyless signing identity, deterministically computed from
// seed components plus a bump discriminant. The bump is searched at creation
// time so that the resulting address decodes to no edwards25519 point, which
// guarantees no private key can ever exist for it. Anyone holding the seeds
// and the bump can recompute and check the address without any stored secret.
type Authority struct {
	Address AccountAddress
	Seeds   [][]byte
	Bump    uint8
}

// DeriveAddress computes the candidate address for a seed set and bump.
func DeriveAddress(seeds [][]byte, bump uint8) AccountAddress {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write([]byte(derivationNamespace))
	h.Write([]byte(derivationMarker))
	return AccountAddress(hex.EncodeToString(h.Sum(nil)))
}

// offCurve reports whether addr is NOT a valid edwards25519 point, i.e.
// provably has no corresponding private key.
func offCurve(addr AccountAddress) bool {
	raw, err := hex.DecodeString(string(addr))
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err != nil
}

// FindAuthority searches bumps from 255 downward and returns the authority
// for the first off-curve address. Roughly half of all candidates decode to
// a curve point, so the search terminates almost immediately in practice.
func FindAuthority(seeds ...[]byte) (*Authority, error) {
	for bump := 255; bump >= 0; bump-- {
		addr := DeriveAddress(seeds, uint8(bump))
		if offCurve(addr) {
			return &Authority{Address: addr, Seeds: seeds, Bump: uint8(bump)}, nil
		}
	}
	return nil, Errf(500, "no off-curve bump found for authority seeds")
}

// AuthorityAt re-derives an authority from stored seed components and the
// bump recorded at creation time.
func AuthorityAt(bump uint8, seeds ...[]byte) *Authority {
	return &Authority{Address: DeriveAddress(seeds, bump), Seeds: seeds, Bump: bump}
}

// Verify recomputes the address from the seeds and bump and checks both the
// match and the off-curve guarantee. Collaborators verifying a presented
// authority must use this rather than trusting the address field.
func (a *Authority) Verify() bool {
	if a == nil {
		return false
	}
	addr := DeriveAddress(a.Seeds, a.Bump)
	return addr == a.Address && offCurve(addr)
}

func scheduleSeeds(key ScheduleKey) [][]byte {
	return [][]byte{
		[]byte(VestingSeed),
		[]byte(key.Admin),
		[]byte(key.Beneficiary),
		[]byte(key.Asset),
	}
}

// ScheduleAuthority derives the schedule record's own address. The schedule
// address doubles as the authority controlling the schedule's vault.
func ScheduleAuthority(key ScheduleKey) (*Authority, error) {
	return FindAuthority(scheduleSeeds(key)...)
}

// ScheduleAuthorityAt re-derives the schedule authority with the stored bump.
func ScheduleAuthorityAt(key ScheduleKey, bump uint8) *Authority {
	return AuthorityAt(bump, scheduleSeeds(key)...)
}

// VaultAuthority derives the address of the escrow holding owner for a
// schedule.
func VaultAuthority(schedule AccountAddress) (*Authority, error) {
	return FindAuthority([]byte(VaultSeed), []byte(schedule))
}

// VaultAuthorityAt re-derives the vault address with the stored bump.
func VaultAuthorityAt(schedule AccountAddress, bump uint8) *Authority {
	return AuthorityAt(bump, []byte(VaultSeed), []byte(schedule))
}
