// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists the pool's operation events to sqlite and serves
// filtered queries over them. It is an audit trail, not a recovery
// mechanism.
package eventdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/pool"
	"github.com/gafaradetunji/staking-test/staking"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	kind TEXT NOT NULL,
	account BLOB NOT NULL,
	amount TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_i0 ON event(account);
CREATE INDEX IF NOT EXISTS event_i1 ON event(kind);
CREATE INDEX IF NOT EXISTS event_i2 ON event(ts);`

// EventDB is a sqlite-backed event log.
type EventDB struct {
	path string
	db   *sql.DB
}

// New creates or opens an event db at the given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// the in-memory database vanishes when its only connection closes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &EventDB{path: path, db: db}, nil
}

// NewMem creates an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close closes the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

// Path returns the db file path.
func (db *EventDB) Path() string {
	return db.path
}

// RecordEvent appends a pool event. It implements pool.EventSink.
func (db *EventDB) RecordEvent(ev *pool.Event) error {
	_, err := db.db.Exec(
		"INSERT INTO event(ts, kind, account, amount) VALUES(?,?,?,?)",
		int64(ev.Time), ev.Kind, ev.Account.Bytes(), ev.Amount.Dec(),
	)
	return errors.WithMessage(err, "record event")
}

// Event is a stored pool event.
type Event struct {
	Seq     int64
	Time    uint64
	Kind    string
	Account staking.Address
	Amount  *uint256.Int
}

// Filter narrows an event query. Zero values leave the corresponding
// dimension open.
type Filter struct {
	Account *staking.Address
	Kind    string
	From    uint64 // inclusive unix time
	To      uint64 // inclusive unix time
	Limit   int
}

// Query returns stored events matching the filter, oldest first.
func (db *EventDB) Query(ctx context.Context, filter *Filter) ([]*Event, error) {
	stmt := "SELECT seq, ts, kind, account, amount FROM event WHERE 1"
	var args []any
	if filter != nil {
		if filter.Account != nil {
			stmt += " AND account = ?"
			args = append(args, filter.Account.Bytes())
		}
		if filter.Kind != "" {
			stmt += " AND kind = ?"
			args = append(args, filter.Kind)
		}
		if filter.From > 0 {
			stmt += " AND ts >= ?"
			args = append(args, int64(filter.From))
		}
		if filter.To > 0 {
			stmt += " AND ts <= ?"
			args = append(args, int64(filter.To))
		}
	}
	stmt += " ORDER BY seq"
	if filter != nil && filter.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev      Event
			ts      int64
			account []byte
			amount  string
		)
		if err := rows.Scan(&ev.Seq, &ts, &ev.Kind, &account, &amount); err != nil {
			return nil, err
		}
		ev.Time = uint64(ts)
		ev.Account = staking.BytesToAddress(account)
		ev.Amount, err = uint256.FromDecimal(amount)
		if err != nil {
			return nil, errors.WithMessage(err, "stored amount")
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
