// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/staking"
)

// ErrInsufficientBalance is returned when a withdrawal exceeds the
// participant's staked balance.
var ErrInsufficientBalance = errors.New("insufficient staked balance")

// Ledger tracks each participant's staked balance and the pool-wide total.
// The total always equals the sum of all account balances.
type Ledger struct {
	balances map[staking.Address]*uint256.Int
	total    *uint256.Int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[staking.Address]*uint256.Int),
		total:    uint256.NewInt(0),
	}
}

// Total returns the pool-wide staked total.
func (l *Ledger) Total() *uint256.Int {
	return l.total.Clone()
}

// Balance returns the staked balance of an account. Accounts that never
// staked report zero.
func (l *Ledger) Balance(account staking.Address) *uint256.Int {
	if bal, ok := l.balances[account]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

// Change is a prepared balance mutation. It carries the post-mutation values
// and mutates nothing until committed.
type Change struct {
	account staking.Address
	balance *uint256.Int
	total   *uint256.Int
}

// PrepareAdd computes the balances after staking amount to the account.
func (l *Ledger) PrepareAdd(account staking.Address, amount *uint256.Int) (*Change, error) {
	balance, overflow := new(uint256.Int).AddOverflow(l.Balance(account), amount)
	if overflow {
		return nil, errors.WithMessage(staking.ErrOverflow, "stake balance")
	}
	total, overflow := new(uint256.Int).AddOverflow(l.total, amount)
	if overflow {
		return nil, errors.WithMessage(staking.ErrOverflow, "staked total")
	}
	return &Change{account: account, balance: balance, total: total}, nil
}

// PrepareSub computes the balances after withdrawing amount from the account.
func (l *Ledger) PrepareSub(account staking.Address, amount *uint256.Int) (*Change, error) {
	current := l.Balance(account)
	if current.Lt(amount) {
		return nil, ErrInsufficientBalance
	}
	balance := new(uint256.Int).Sub(current, amount)
	// the total covers every balance, so it cannot underflow here
	total := new(uint256.Int).Sub(l.total, amount)
	return &Change{account: account, balance: balance, total: total}, nil
}

// Commit applies a prepared change.
func (l *Ledger) Commit(c *Change) {
	l.balances[c.account] = c.balance
	l.total = c.total
}
