// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gafaradetunji/staking-test/pool"
	"github.com/gafaradetunji/staking-test/staking"
)

func addr(b byte) staking.Address {
	var a staking.Address
	a[staking.AddressLength-1] = b
	return a
}

func newDB(t *testing.T) *EventDB {
	t.Helper()
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(t *testing.T, db *EventDB, ts uint64, kind string, account staking.Address, amount uint64) {
	t.Helper()
	require.NoError(t, db.RecordEvent(&pool.Event{
		Kind:    kind,
		Account: account,
		Amount:  uint256.NewInt(amount),
		Time:    ts,
	}))
}

func TestRecordAndQueryAll(t *testing.T) {
	db := newDB(t)
	record(t, db, 100, pool.EventStake, addr(1), 10)
	record(t, db, 200, pool.EventWithdraw, addr(1), 4)
	record(t, db, 300, pool.EventStake, addr(2), 7)

	events, err := db.Query(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// oldest first, amounts survive the decimal round trip
	assert.Equal(t, uint64(100), events[0].Time)
	assert.Equal(t, pool.EventStake, events[0].Kind)
	assert.Equal(t, addr(1), events[0].Account)
	assert.Equal(t, uint256.NewInt(10), events[0].Amount)
	assert.Equal(t, uint256.NewInt(7), events[2].Amount)
	assert.Less(t, events[0].Seq, events[1].Seq)
}

func TestQueryFilters(t *testing.T) {
	db := newDB(t)
	record(t, db, 100, pool.EventStake, addr(1), 10)
	record(t, db, 200, pool.EventWithdraw, addr(1), 4)
	record(t, db, 300, pool.EventStake, addr(2), 7)
	record(t, db, 400, pool.EventRewardPaid, addr(2), 2)

	account := addr(1)
	events, err := db.Query(context.Background(), &Filter{Account: &account})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, pool.EventWithdraw, events[1].Kind)

	events, err = db.Query(context.Background(), &Filter{Kind: pool.EventStake})
	require.NoError(t, err)
	require.Len(t, events, 2)

	events, err = db.Query(context.Background(), &Filter{From: 200, To: 300})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(200), events[0].Time)

	events, err = db.Query(context.Background(), &Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(100), events[0].Time)
}

func TestQueryLargeAmount(t *testing.T) {
	db := newDB(t)
	huge := new(uint256.Int).SetAllOne()
	require.NoError(t, db.RecordEvent(&pool.Event{
		Kind:    pool.EventRewardAdded,
		Account: addr(1),
		Amount:  huge,
		Time:    1,
	}))

	events, err := db.Query(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, huge, events[0].Amount)
}
