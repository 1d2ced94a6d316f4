// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tracker keeps the per-participant reward checkpoints: the
// accumulator value each participant last settled against and the reward
// owed to them but not yet claimed.
package tracker

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/pool/accrual"
	"github.com/gafaradetunji/staking-test/staking"
)

type checkpoint struct {
	paid *uint256.Int // accumulator value at the last settlement
	owed *uint256.Int // settled but unclaimed reward
}

// Service tracks reward checkpoints. Entries are created on first
// interaction and never removed. Not safe for concurrent use; the pool
// facade serializes access.
type Service struct {
	checkpoints map[staking.Address]*checkpoint
}

// New creates an empty tracker.
func New() *Service {
	return &Service{checkpoints: make(map[staking.Address]*checkpoint)}
}

// Owed returns the settled, unclaimed reward of an account.
func (s *Service) Owed(account staking.Address) *uint256.Int {
	if cp, ok := s.checkpoints[account]; ok {
		return cp.owed.Clone()
	}
	return uint256.NewInt(0)
}

// Paid returns the accumulator value the account last settled against.
func (s *Service) Paid(account staking.Address) *uint256.Int {
	if cp, ok := s.checkpoints[account]; ok {
		return cp.paid.Clone()
	}
	return uint256.NewInt(0)
}

// Entry is a prepared settlement for one account. Nothing changes until it
// is committed.
type Entry struct {
	account staking.Address
	paid    *uint256.Int
	owed    *uint256.Int
}

// Owed returns the settled reward carried by the entry.
func (e *Entry) Owed() *uint256.Int {
	return e.owed.Clone()
}

// Claim empties the entry's owed balance and returns the claimed amount.
// Committing the entry afterwards records the claim.
func (e *Entry) Claim() *uint256.Int {
	claimed := e.owed
	e.owed = uint256.NewInt(0)
	return claimed
}

// Settle computes the account's owed reward against the given accumulator
// value: owed += balance * (rewardPerShare - paid) / PrecisionFactor, then
// the checkpoint moves up to rewardPerShare. The accumulator is monotonic,
// so the subtraction can never underflow for a consistent checkpoint.
func (s *Service) Settle(account staking.Address, balance, rewardPerShare *uint256.Int) (*Entry, error) {
	diff, underflow := new(uint256.Int).SubOverflow(rewardPerShare, s.Paid(account))
	if underflow {
		return nil, errors.WithMessage(staking.ErrOverflow, "accumulator moved backwards")
	}
	gain, overflow := new(uint256.Int).MulDivOverflow(balance, diff, accrual.PrecisionFactor)
	if overflow {
		return nil, errors.WithMessage(staking.ErrOverflow, "settled reward")
	}
	owed, overflow := gain.AddOverflow(gain, s.Owed(account))
	if overflow {
		return nil, errors.WithMessage(staking.ErrOverflow, "owed reward")
	}
	return &Entry{account: account, paid: rewardPerShare.Clone(), owed: owed}, nil
}

// Commit applies a prepared settlement.
func (s *Service) Commit(e *Entry) {
	s.checkpoints[e.account] = &checkpoint{paid: e.paid, owed: e.owed}
}
