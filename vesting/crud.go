package vesting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const scheduleColumns = `address, admin, beneficiary, asset, total_amount, claimed_amount,
	start_time, cliff_duration, vesting_duration, is_revoked, revoked_amount,
	bump, vault_bump, vault_address`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanSchedule(row pgx.Row) (*VestingSchedule, error) {
	s := VestingSchedule{}
	var bump, vaultBump int16
	err := row.Scan(
		&s.Address,
		&s.Admin,
		&s.Beneficiary,
		&s.Asset,
		&s.TotalAmount,
		&s.ClaimedAmount,
		&s.StartTime,
		&s.CliffDuration,
		&s.VestingDuration,
		&s.IsRevoked,
		&s.RevokedAmount,
		&bump,
		&vaultBump,
		&s.VaultAddress,
	)
	if err != nil {
		return nil, err
	}
	s.Bump = uint8(bump)
	s.VaultBump = uint8(vaultBump)
	return &s, nil
}

func (db *DbClient) CreateSchedule(ctx context.Context, s *VestingSchedule, fundingSource HoldingID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return Errf(500, "begin: %s", err.Error())
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `insert into vesting_schedules (`+scheduleColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.Address, s.Admin, s.Beneficiary, s.Asset, s.TotalAmount, s.ClaimedAmount,
		s.StartTime, s.CliffDuration, s.VestingDuration, s.IsRevoked, s.RevokedAmount,
		int16(s.Bump), int16(s.VaultBump), s.VaultAddress)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrScheduleExists
		}
		return Errf(500, "insert schedule: %s", err.Error())
	}

	ct, err := tx.Exec(ctx, `update holdings set balance = balance - $1 where id = $2 and balance >= $1`,
		s.TotalAmount, fundingSource)
	if err != nil {
		return Errf(500, "debit funding source: %s", err.Error())
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `select exists(select 1 from holdings where id = $1)`, fundingSource).Scan(&exists); err != nil {
			return Errf(500, "check funding source: %s", err.Error())
		}
		if !exists {
			return ErrHoldingNotFound
		}
		return ErrInsufficientFunds
	}

	vault := s.VaultHolding()
	_, err = tx.Exec(ctx, `insert into holdings (id, owner_address, asset, balance, authority)
		values ($1, $2, $3, $4, $5)
		on conflict (id) do update set balance = holdings.balance + excluded.balance`,
		vault, s.VaultAddress, s.Asset, s.TotalAmount, s.Address)
	if err != nil {
		return Errf(500, "credit vault: %s", err.Error())
	}

	if err := tx.Commit(ctx); err != nil {
		return Errf(500, "commit: %s", err.Error())
	}
	return nil
}

func (db *DbClient) GetSchedule(ctx context.Context, address AccountAddress) (*VestingSchedule, error) {
	row := db.Pool.QueryRow(ctx, `select `+scheduleColumns+` from vesting_schedules where address = $1`, address)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, Errf(500, "select schedule: %s", err.Error())
	}
	return s, nil
}

func buildSchedulesQuery(filter ScheduleFilter, lim LimitRequest, settings RequestSettings) (string, []interface{}) {
	query := `select ` + scheduleColumns + ` from vesting_schedules`
	filter_list := []string{}
	args := []interface{}{}

	if len(filter.Admin) > 0 {
		args = append(args, addressStrings(filter.Admin))
		filter_list = append(filter_list, fmt.Sprintf("admin = any($%d)", len(args)))
	}
	if len(filter.Beneficiary) > 0 {
		args = append(args, addressStrings(filter.Beneficiary))
		filter_list = append(filter_list, fmt.Sprintf("beneficiary = any($%d)", len(args)))
	}
	if len(filter.Asset) > 0 {
		args = append(args, addressStrings(filter.Asset))
		filter_list = append(filter_list, fmt.Sprintf("asset = any($%d)", len(args)))
	}
	if len(filter_list) > 0 {
		query += ` where ` + strings.Join(filter_list, " and ")
	}

	order := "asc"
	if lim.Sort != nil && *lim.Sort == DESC {
		order = "desc"
	}
	query += ` order by address ` + order

	limit := settings.DefaultLimit
	if lim.Limit != nil {
		limit = *lim.Limit
	}
	if settings.MaxLimit > 0 && limit > settings.MaxLimit {
		limit = settings.MaxLimit
	}
	if limit > 0 {
		query += fmt.Sprintf(" limit %d", limit)
	}
	if lim.Offset != nil {
		query += fmt.Sprintf(" offset %d", *lim.Offset)
	}
	return query, args
}

func (db *DbClient) ListSchedules(ctx context.Context, filter ScheduleFilter, lim LimitRequest) ([]VestingSchedule, error) {
	query, args := buildSchedulesQuery(filter, lim, db.Settings)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, Errf(500, "select schedules: %s", err.Error())
	}
	defer rows.Close()

	schedules := []VestingSchedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, Errf(500, "scan schedule: %s", err.Error())
		}
		schedules = append(schedules, *s)
	}
	if rows.Err() != nil {
		return nil, Errf(500, "read schedules: %s", rows.Err().Error())
	}
	return schedules, nil
}

func (db *DbClient) MutateSchedule(ctx context.Context, address AccountAddress, fn func(tx Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return Errf(500, "begin: %s", err.Error())
	}
	defer tx.Rollback(ctx)

	// Row lock serializes transitions per record.
	row := tx.QueryRow(ctx, `select `+scheduleColumns+` from vesting_schedules where address = $1 for update`, address)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrScheduleNotFound
		}
		return Errf(500, "lock schedule: %s", err.Error())
	}

	ptx := &pgTx{ctx: ctx, tx: tx, schedule: s}
	if err := fn(ptx); err != nil {
		return err
	}

	if ptx.updated != nil {
		u := ptx.updated
		_, err = tx.Exec(ctx, `update vesting_schedules
			set claimed_amount = $1, is_revoked = $2, revoked_amount = $3
			where address = $4`,
			u.ClaimedAmount, u.IsRevoked, u.RevokedAmount, address)
		if err != nil {
			return Errf(500, "update schedule: %s", err.Error())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Errf(500, "commit: %s", err.Error())
	}
	return nil
}

func (db *DbClient) Balance(ctx context.Context, h HoldingID) (uint64, error) {
	var balance uint64
	err := db.Pool.QueryRow(ctx, `select balance from holdings where id = $1`, h).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, Errf(500, "select balance: %s", err.Error())
	}
	return balance, nil
}

// Credit adds funds to a holding, opening it if needed. Deposit path for
// operational tooling; the vesting core itself only moves escrowed funds.
func (db *DbClient) Credit(ctx context.Context, h HoldingID, amount uint64) error {
	owner, asset := splitHolding(h)
	_, err := db.Pool.Exec(ctx, `insert into holdings (id, owner_address, asset, balance)
		values ($1, $2, $3, $4)
		on conflict (id) do update set balance = holdings.balance + excluded.balance`,
		h, owner, asset, amount)
	if err != nil {
		return Errf(500, "credit holding: %s", err.Error())
	}
	return nil
}

type pgTx struct {
	ctx      context.Context
	tx       pgx.Tx
	schedule *VestingSchedule
	updated  *VestingSchedule
}

func (t *pgTx) Schedule() *VestingSchedule { return t.schedule }

func (t *pgTx) Put(s *VestingSchedule) {
	copied := *s
	t.updated = &copied
}

func (t *pgTx) Transfer(from HoldingID, to HoldingID, amount uint64, auth *Authority) error {
	var registered *string
	err := t.tx.QueryRow(t.ctx, `select authority from holdings where id = $1 for update`, from).Scan(&registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrHoldingNotFound
		}
		return Errf(500, "lock holding: %s", err.Error())
	}
	if registered != nil {
		if !auth.Verify() || string(auth.Address) != *registered {
			return ErrInvalidAuthority
		}
	}

	ct, err := t.tx.Exec(t.ctx, `update holdings set balance = balance - $1 where id = $2 and balance >= $1`,
		amount, from)
	if err != nil {
		return Errf(500, "debit holding: %s", err.Error())
	}
	if ct.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}

	owner, asset := splitHolding(to)
	_, err = t.tx.Exec(t.ctx, `insert into holdings (id, owner_address, asset, balance)
		values ($1, $2, $3, $4)
		on conflict (id) do update set balance = holdings.balance + excluded.balance`,
		to, owner, asset, amount)
	if err != nil {
		return Errf(500, "credit holding: %s", err.Error())
	}
	return nil
}

func addressStrings(list []AccountAddress) []string {
	result := make([]string, len(list))
	for i, a := range list {
		result[i] = string(a)
	}
	return result
}

func splitHolding(h HoldingID) (AccountAddress, AccountAddress) {
	parts := strings.SplitN(string(h), "/", 2)
	if len(parts) != 2 {
		return AccountAddress(parts[0]), ""
	}
	return AccountAddress(parts[0]), AccountAddress(parts[1])
}
