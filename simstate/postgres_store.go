package simstate

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
)

// PostgresStore persists device states in a single JSONB-backed table, for
// test sessions that span multiple emulator processes or hosts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

const createStatesTable = `
CREATE TABLE IF NOT EXISTS device_states (
	device_id          TEXT PRIMARY KEY,
	profile_id         TEXT NOT NULL,
	frame_counter      BIGINT NOT NULL,
	emission_sequence  BIGINT NOT NULL,
	increment_counters JSONB NOT NULL,
	last_values        JSONB NOT NULL,
	last_emitted_at    TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
)`

// NewPostgresStore connects to the given DSN and ensures the backing table
// exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pinging postgres")
	}
	if _, err := pool.Exec(ctx, createStatesTable); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "creating device_states table")
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

const selectStateColumns = `
SELECT device_id, profile_id, frame_counter, emission_sequence,
       increment_counters, last_values, last_emitted_at, created_at, updated_at
FROM device_states`

func scanState(row pgx.Row) (*DeviceState, error) {
	s := &DeviceState{}
	var frame, seq int64
	var counters, lastValues []byte
	err := row.Scan(
		&s.DeviceID,
		&s.ProfileID,
		&frame,
		&seq,
		&counters,
		&lastValues,
		&s.LastEmittedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.FrameCounter = uint64(frame)
	s.EmissionSequence = uint64(seq)

	s.IncrementCounters = make(map[string]int64)
	if counters != nil {
		if err := json.Unmarshal(counters, &s.IncrementCounters); err != nil {
			return nil, errors.Wrap(err, "unmarshalling increment_counters")
		}
	}
	s.LastValues = make(map[string]interface{})
	if lastValues != nil {
		if err := json.Unmarshal(lastValues, &s.LastValues); err != nil {
			return nil, errors.Wrap(err, "unmarshalling last_values")
		}
	}
	return s, nil
}

func (p *PostgresStore) Get(deviceID string) (*DeviceState, error) {
	row := p.pool.QueryRow(context.Background(), selectStateColumns+` WHERE device_id = $1`, deviceID)
	s, err := scanState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "device %s", deviceID)
		}
		return nil, errors.Wrap(err, "querying device state")
	}
	return s, nil
}

func (p *PostgresStore) Put(state *DeviceState) error {
	if state == nil || state.DeviceID == "" {
		return errors.New("state must carry a device id")
	}
	counters, err := json.Marshal(state.IncrementCounters)
	if err != nil {
		return errors.Wrap(err, "marshalling increment_counters")
	}
	lastValues, err := json.Marshal(state.LastValues)
	if err != nil {
		return errors.Wrap(err, "marshalling last_values")
	}

	const query = `
INSERT INTO device_states
	(device_id, profile_id, frame_counter, emission_sequence,
	 increment_counters, last_values, last_emitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (device_id) DO UPDATE SET
	profile_id = EXCLUDED.profile_id,
	frame_counter = EXCLUDED.frame_counter,
	emission_sequence = EXCLUDED.emission_sequence,
	increment_counters = EXCLUDED.increment_counters,
	last_values = EXCLUDED.last_values,
	last_emitted_at = EXCLUDED.last_emitted_at,
	updated_at = EXCLUDED.updated_at`

	_, err = p.pool.Exec(context.Background(), query,
		state.DeviceID,
		state.ProfileID,
		int64(state.FrameCounter),
		int64(state.EmissionSequence),
		counters,
		lastValues,
		state.LastEmittedAt,
		state.CreatedAt,
		state.UpdatedAt,
	)
	return errors.Wrap(err, "upserting device state")
}

// Update is a read-modify-write: the per-device fire chain is the only
// writer for a given device id, so no row lock is needed.
func (p *PostgresStore) Update(deviceID string, patch StatePatch) error {
	s, err := p.Get(deviceID)
	if err != nil {
		return err
	}
	applyPatch(s, patch)
	return p.Put(s)
}

func (p *PostgresStore) Reset(deviceID string) error {
	s, err := p.Get(deviceID)
	if err != nil {
		return err
	}
	s.ResetCounters()
	return p.Put(s)
}

func (p *PostgresStore) Delete(deviceID string) error {
	tag, err := p.pool.Exec(context.Background(), `DELETE FROM device_states WHERE device_id = $1`, deviceID)
	if err != nil {
		return errors.Wrap(err, "deleting device state")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "device %s", deviceID)
	}
	return nil
}

func (p *PostgresStore) All() ([]*DeviceState, error) {
	rows, err := p.pool.Query(context.Background(), selectStateColumns+` ORDER BY device_id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying device states")
	}
	defer rows.Close()

	states := []*DeviceState{}
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning device state row")
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating device state rows")
	}
	return states, nil
}
