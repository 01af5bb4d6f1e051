package vesting

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DbClient struct {
	Pool *pgxpool.Pool

	// Settings bounds list queries; zero values mean no default or cap.
	Settings RequestSettings
}

func NewDbClient(dsn string, maxconns int, minconns int) (*DbClient, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if maxconns > 0 {
		config.MaxConns = int32(maxconns)
	}
	if minconns > 0 {
		config.MinConns = int32(minconns)
	}
	config.HealthCheckPeriod = 60 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(context.Background()); err != nil {
		return nil, err
	}
	return &DbClient{Pool: pool}, nil
}

// Amounts are stored as bigint: the ledger caps committed quantities at
// 2^63-1 units, the same bound the rest of the stack (json ",string"
// encoding aside) practically operates under.
const schemaDDL = `
create table if not exists vesting_schedules (
	address text primary key,
	admin text not null,
	beneficiary text not null,
	asset text not null,
	total_amount bigint not null check (total_amount > 0),
	claimed_amount bigint not null default 0 check (claimed_amount >= 0 and claimed_amount <= total_amount),
	start_time bigint not null,
	cliff_duration bigint not null,
	vesting_duration bigint not null,
	is_revoked boolean not null default false,
	revoked_amount bigint not null default 0,
	bump smallint not null,
	vault_bump smallint not null,
	vault_address text not null,
	unique (admin, beneficiary, asset)
);
create index if not exists vesting_schedules_admin_idx on vesting_schedules (admin);
create index if not exists vesting_schedules_beneficiary_idx on vesting_schedules (beneficiary);

create table if not exists holdings (
	id text primary key,
	owner_address text not null,
	asset text not null,
	balance bigint not null default 0 check (balance >= 0),
	authority text
);
`

// InitSchema creates the ledger tables if they are missing. Run once at
// startup; safe to re-run.
func (db *DbClient) InitSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, schemaDDL)
	return err
}
