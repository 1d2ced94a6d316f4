// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/gafaradetunji/staking-test/staking"
)

//
// Read-only queries. Each one observes the same values a checkpoint taken at
// this instant would produce, without mutating anything.
//

// TotalSupply returns the pool-wide staked total.
func (p *Pool) TotalSupply() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stakes.Total()
}

// BalanceOf returns the account's staked balance.
func (p *Pool) BalanceOf(account staking.Address) *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stakes.Balance(account)
}

// Earned returns the reward the account would be owed after a checkpoint at
// this instant, including its settled but unclaimed balance.
func (p *Pool) Earned(account staking.Address) (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, entry, err := p.settle(p.clock.Now(), &account)
	if err != nil {
		return nil, err
	}
	return entry.Owed(), nil
}

// RewardPerShare returns the accumulator advanced to this instant. While
// nothing is staked the stored value is returned unchanged.
func (p *Pool) RewardPerShare() (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.RewardPerShare(p.clock.Now(), p.stakes.Total())
}

// LastTimeRewardApplicable returns the current time clamped to the end of
// the active reward period.
func (p *Pool) LastTimeRewardApplicable() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.LastTimeApplicable(p.clock.Now())
}

// Duration returns the reward period length in seconds.
func (p *Pool) Duration() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.Duration()
}

// RewardRate returns the reward rate in reward units per second.
func (p *Pool) RewardRate() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.RewardRate()
}

// FinishAt returns the end of the active reward period.
func (p *Pool) FinishAt() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.FinishAt()
}

// UpdatedAt returns the time the accumulator was last advanced to.
func (p *Pool) UpdatedAt() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accrual.UpdatedAt()
}
