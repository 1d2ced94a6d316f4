// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// ErrPeriodNotFinished is returned when the duration is changed while a
	// reward period is still running.
	ErrPeriodNotFinished = errors.New("reward period not finished")

	// ErrInvalidDuration is returned for a zero period duration, which would
	// make the reward rate computation divide by zero.
	ErrInvalidDuration = errors.New("reward duration must be positive")

	// ErrZeroRewardRate is returned when the injected amount is too small
	// relative to the duration and the rate rounds down to zero.
	ErrZeroRewardRate = errors.New("reward rate rounds to zero")

	// ErrInsufficientRewardBalance is returned when the new rate would
	// promise more reward over the period than the pool currently holds.
	ErrInsufficientRewardBalance = errors.New("reward balance cannot cover the period")
)

// SetDuration replaces the period duration. It is only allowed once the
// active period has finished, so a running payout schedule is never
// stretched or compressed.
func (s *Service) SetDuration(now, duration uint64) error {
	if duration == 0 {
		return ErrInvalidDuration
	}
	if now < s.periodFinish {
		return ErrPeriodNotFinished
	}
	s.duration = duration
	return nil
}

// RateChange is a prepared reward-rate update. Nothing changes until it is
// committed.
type RateChange struct {
	rewardRate   *uint256.Int
	periodFinish uint64
	updatedAt    uint64
}

// RewardRate returns the rate carried by the prepared change.
func (c *RateChange) RewardRate() *uint256.Int {
	return c.rewardRate.Clone()
}

// PrepareNotify computes the reward rate for a new period funded with
// amount, rolling any unspent budget from the tail of a still-running period
// into the new rate. held is the reward balance the pool currently holds; the
// rate is rejected when rate*duration exceeds it, so the pool can never
// promise reward it cannot pay. The caller must checkpoint first, so accrual
// up to now is flushed at the old rate.
func (s *Service) PrepareNotify(now uint64, amount, held *uint256.Int) (*RateChange, error) {
	if s.duration == 0 {
		return nil, errors.WithMessage(ErrInvalidDuration, "rewards duration not set")
	}

	budget := amount.Clone()
	if now < s.periodFinish {
		remaining := uint256.NewInt(s.periodFinish - now)
		leftover, overflow := new(uint256.Int).MulOverflow(remaining, s.rewardRate)
		if overflow {
			return nil, ErrInsufficientRewardBalance
		}
		budget, overflow = budget.AddOverflow(budget, leftover)
		if overflow {
			return nil, ErrInsufficientRewardBalance
		}
	}

	rate := new(uint256.Int).Div(budget, uint256.NewInt(s.duration))
	if rate.IsZero() {
		return nil, ErrZeroRewardRate
	}

	// worst case every unit of the rolled-over budget is claimed as well
	committed, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(s.duration))
	if overflow || held == nil || committed.Gt(held) {
		return nil, ErrInsufficientRewardBalance
	}

	return &RateChange{
		rewardRate:   rate,
		periodFinish: now + s.duration,
		updatedAt:    now,
	}, nil
}

// CommitRateChange applies a prepared rate update, starting a fresh period.
func (s *Service) CommitRateChange(c *RateChange) {
	s.rewardRate = c.rewardRate.Clone()
	s.periodFinish = c.periodFinish
	s.lastUpdate = c.updatedAt
}
