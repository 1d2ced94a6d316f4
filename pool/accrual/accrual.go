// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual maintains the global reward-per-share accumulator and the
// active reward period. The accumulator is a fixed-point counter of
// cumulative reward per unit of stake since inception; participants settle
// against it by checkpoint subtraction.
package accrual

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/staking"
)

// PrecisionFactor scales the reward-per-share accumulator. All accumulator
// values are fixed point with 18 decimals; the multiply-then-divide ordering
// (dt * rate * PrecisionFactor / totalStaked) is part of the contract since
// it determines rounding.
var PrecisionFactor = uint256.NewInt(1_000_000_000_000_000_000)

// Service tracks the reward rate, the stored accumulator value and the
// active period boundaries. It is not safe for concurrent use; the pool
// facade serializes access.
type Service struct {
	duration     uint64
	periodFinish uint64
	lastUpdate   uint64

	rewardRate     *uint256.Int // reward units per second
	rewardPerShare *uint256.Int // stored accumulator, scaled by PrecisionFactor
}

// New creates a service with the given period duration and no active period.
func New(duration uint64) *Service {
	return &Service{
		duration:       duration,
		rewardRate:     uint256.NewInt(0),
		rewardPerShare: uint256.NewInt(0),
	}
}

// Duration returns the configured reward period length in seconds.
func (s *Service) Duration() uint64 {
	return s.duration
}

// FinishAt returns the end of the active reward period.
func (s *Service) FinishAt() uint64 {
	return s.periodFinish
}

// UpdatedAt returns the time the accumulator was last advanced to.
func (s *Service) UpdatedAt() uint64 {
	return s.lastUpdate
}

// RewardRate returns the current reward rate in reward units per second.
func (s *Service) RewardRate() *uint256.Int {
	return s.rewardRate.Clone()
}

// LastTimeApplicable clamps now to the end of the active period, so accrual
// stops exactly at the period boundary.
func (s *Service) LastTimeApplicable(now uint64) uint64 {
	if now < s.periodFinish {
		return now
	}
	return s.periodFinish
}

// RewardPerShare returns the accumulator advanced to now without mutating
// state. While nothing is staked the stored value is returned unchanged.
func (s *Service) RewardPerShare(now uint64, totalStaked *uint256.Int) (*uint256.Int, error) {
	snap, err := s.Checkpoint(now, totalStaked)
	if err != nil {
		return nil, err
	}
	return snap.rewardPerShare, nil
}

// Snapshot is a prepared accumulator advance. Nothing changes until it is
// committed.
type Snapshot struct {
	rewardPerShare *uint256.Int
	updatedAt      uint64
}

// RewardPerShare returns the advanced accumulator value carried by the
// snapshot.
func (snap *Snapshot) RewardPerShare() *uint256.Int {
	return snap.rewardPerShare.Clone()
}

// Checkpoint advances the accumulator to min(now, periodFinish) against the
// given total stake. While totalStaked is zero the accumulator stands still
// and the elapsed reward-rate-seconds are not accrued to anyone; they are
// lost, not banked.
func (s *Service) Checkpoint(now uint64, totalStaked *uint256.Int) (*Snapshot, error) {
	applicable := s.LastTimeApplicable(now)
	rewardPerShare := s.rewardPerShare.Clone()

	if applicable > s.lastUpdate && !totalStaked.IsZero() {
		elapsed := uint256.NewInt(applicable - s.lastUpdate)
		emitted, overflow := new(uint256.Int).MulOverflow(elapsed, s.rewardRate)
		if overflow {
			return nil, errors.WithMessage(staking.ErrOverflow, "emitted reward")
		}
		gain, overflow := new(uint256.Int).MulDivOverflow(emitted, PrecisionFactor, totalStaked)
		if overflow {
			return nil, errors.WithMessage(staking.ErrOverflow, "reward per share gain")
		}
		rewardPerShare, overflow = rewardPerShare.AddOverflow(rewardPerShare, gain)
		if overflow {
			return nil, errors.WithMessage(staking.ErrOverflow, "reward per share")
		}
	}

	return &Snapshot{rewardPerShare: rewardPerShare, updatedAt: applicable}, nil
}

// Commit applies a prepared accumulator advance.
func (s *Service) Commit(snap *Snapshot) {
	s.rewardPerShare = snap.rewardPerShare.Clone()
	s.lastUpdate = snap.updatedAt
}
