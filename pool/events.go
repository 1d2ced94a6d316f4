// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/gafaradetunji/staking-test/staking"
)

// Event kinds emitted by the pool.
const (
	EventStake       = "stake"
	EventWithdraw    = "withdraw"
	EventRewardPaid  = "reward_paid"
	EventRewardAdded = "reward_added"
	EventDurationSet = "duration_set"
)

// Event describes a committed state-mutating operation.
type Event struct {
	Kind    string
	Account staking.Address
	Amount  *uint256.Int
	Time    uint64
}

// EventSink receives events for committed operations. A sink failure is
// logged and never fails the operation that produced the event.
type EventSink interface {
	RecordEvent(ev *Event) error
}

func (p *Pool) emit(kind string, account staking.Address, amount *uint256.Int, now uint64) {
	if p.events == nil {
		return
	}
	ev := &Event{Kind: kind, Account: account, Amount: amount.Clone(), Time: now}
	if err := p.events.RecordEvent(ev); err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("event sink rejected event")
	}
}
