// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gafaradetunji/staking-test/authority"
	"github.com/gafaradetunji/staking-test/ledger"
	"github.com/gafaradetunji/staking-test/pool"
	"github.com/gafaradetunji/staking-test/pool/accrual"
	"github.com/gafaradetunji/staking-test/staking"
)

const week = uint64(604800)

var (
	admin    = addr(0x0a)
	poolAddr = addr(0xff)
	alice    = addr(1)
	bob      = addr(2)
	carol    = addr(3)
)

func addr(b byte) staking.Address {
	var a staking.Address
	a[staking.AddressLength-1] = b
	return a
}

// units scales whole token units up by 1e18.
func units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), accrual.PrecisionFactor)
}

type manualClock struct {
	now uint64
}

func (c *manualClock) Now() uint64 { return c.now }

func (c *manualClock) advance(seconds uint64) { c.now += seconds }

type env struct {
	clock        *manualClock
	stakingToken *ledger.Token
	rewardsToken *ledger.Token
	stakingVault *flakyVault
	rewardsVault *flakyVault
	pool         *pool.Pool
}

// flakyVault wraps a vault and can be switched to reject transfers.
type flakyVault struct {
	*ledger.Vault
	failIn  bool
	failOut bool
}

func (v *flakyVault) TransferIn(from staking.Address, amount *uint256.Int) error {
	if v.failIn {
		return errors.New("ledger offline")
	}
	return v.Vault.TransferIn(from, amount)
}

func (v *flakyVault) TransferOut(to staking.Address, amount *uint256.Int) error {
	if v.failOut {
		return errors.New("ledger offline")
	}
	return v.Vault.TransferOut(to, amount)
}

// newEnv builds a pool over fresh in-memory ledgers. Every participant gets
// 1000 staking units and an unlimited allowance to the pool; rewardBudget is
// minted to the pool's reward balance.
func newEnv(t *testing.T, duration uint64, rewardBudget *uint256.Int) *env {
	t.Helper()

	stakingToken := ledger.NewToken("STK")
	rewardsToken := ledger.NewToken("RWD")
	unlimited := new(uint256.Int).SetAllOne()
	for _, participant := range []staking.Address{alice, bob, carol} {
		require.NoError(t, stakingToken.Mint(participant, units(1000)))
		stakingToken.Approve(participant, poolAddr, unlimited)
	}
	require.NoError(t, rewardsToken.Mint(poolAddr, rewardBudget))

	e := &env{
		clock:        &manualClock{now: 1_000_000},
		stakingToken: stakingToken,
		rewardsToken: rewardsToken,
		stakingVault: &flakyVault{Vault: ledger.NewVault(stakingToken, poolAddr)},
		rewardsVault: &flakyVault{Vault: ledger.NewVault(rewardsToken, poolAddr)},
	}
	p, err := pool.New(pool.Options{
		Address:      poolAddr,
		Duration:     duration,
		StakingToken: e.stakingVault,
		RewardsToken: e.rewardsVault,
		Auth:         authority.New(admin),
		Clock:        e.clock,
	})
	require.NoError(t, err)
	e.pool = p
	return e
}

func (e *env) earned(t *testing.T, account staking.Address) *uint256.Int {
	t.Helper()
	earned, err := e.pool.Earned(account)
	require.NoError(t, err)
	return earned
}

func (e *env) rewardPerShare(t *testing.T) *uint256.Int {
	t.Helper()
	rps, err := e.pool.RewardPerShare()
	require.NoError(t, err)
	return rps
}

func TestStakeAndWithdrawValidation(t *testing.T) {
	e := newEnv(t, week, units(100))

	assert.ErrorIs(t, e.pool.Stake(alice, uint256.NewInt(0)), pool.ErrInvalidAmount)
	assert.ErrorIs(t, e.pool.Stake(alice, nil), pool.ErrInvalidAmount)
	assert.ErrorIs(t, e.pool.Withdraw(alice, uint256.NewInt(0)), pool.ErrInvalidAmount)
	assert.ErrorIs(t, e.pool.Withdraw(alice, units(1)), pool.ErrInsufficientBalance)

	require.NoError(t, e.pool.Stake(alice, units(10)))
	assert.ErrorIs(t, e.pool.Withdraw(alice, units(11)), pool.ErrInsufficientBalance)
	assert.NoError(t, e.pool.Withdraw(alice, units(10)))
}

func TestStakeWithoutAllowance(t *testing.T) {
	e := newEnv(t, week, units(100))
	outsider := addr(0x77)
	require.NoError(t, e.stakingToken.Mint(outsider, units(5)))

	err := e.pool.Stake(outsider, units(5))
	assert.ErrorIs(t, err, pool.ErrTransferFailed)
	assert.True(t, e.pool.TotalSupply().IsZero())
	assert.True(t, e.pool.BalanceOf(outsider).IsZero())
	assert.Equal(t, units(5), e.stakingToken.BalanceOf(outsider))
}

func TestConservation(t *testing.T) {
	e := newEnv(t, week, units(100))

	type move struct {
		account  staking.Address
		amount   uint64
		withdraw bool
	}
	moves := []move{
		{alice, 10, false},
		{bob, 25, false},
		{alice, 5, true},
		{carol, 100, false},
		{bob, 25, true},
		{alice, 5, true},
		{carol, 60, false},
	}
	for _, m := range moves {
		if m.withdraw {
			require.NoError(t, e.pool.Withdraw(m.account, units(m.amount)))
		} else {
			require.NoError(t, e.pool.Stake(m.account, units(m.amount)))
		}
		e.clock.advance(17)

		sum := uint256.NewInt(0)
		for _, account := range []staking.Address{alice, bob, carol} {
			sum.Add(sum, e.pool.BalanceOf(account))
		}
		assert.Equal(t, sum, e.pool.TotalSupply())
		assert.Equal(t, e.pool.TotalSupply(), e.stakingToken.BalanceOf(poolAddr))
	}
}

func TestNotifyRewardAmount(t *testing.T) {
	e := newEnv(t, week, units(100))
	t0 := e.clock.now

	assert.ErrorIs(t, e.pool.NotifyRewardAmount(alice, units(100)), pool.ErrNotAuthorized)

	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	expectedRate := new(uint256.Int).Div(units(100), uint256.NewInt(week))
	assert.Equal(t, expectedRate, e.pool.RewardRate())
	assert.Equal(t, t0+week, e.pool.FinishAt())
	assert.Equal(t, t0, e.pool.UpdatedAt())
}

func TestNotifyRewardAmountRollover(t *testing.T) {
	e := newEnv(t, week, units(300))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	oldRate := e.pool.RewardRate()
	oldFinish := e.pool.FinishAt()

	e.clock.advance(week / 2)
	now := e.clock.now
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))

	remaining := new(uint256.Int).Mul(uint256.NewInt(oldFinish-now), oldRate)
	expectedRate := new(uint256.Int).Add(units(100), remaining)
	expectedRate.Div(expectedRate, uint256.NewInt(week))
	assert.Equal(t, expectedRate, e.pool.RewardRate())
	assert.Equal(t, now+week, e.pool.FinishAt())
	assert.Equal(t, now, e.pool.UpdatedAt())
}

func TestNotifyRewardAmountZeroRate(t *testing.T) {
	e := newEnv(t, week, units(100))
	// 1 / 604800 rounds to zero under integer division
	assert.ErrorIs(t, e.pool.NotifyRewardAmount(admin, uint256.NewInt(1)), pool.ErrZeroRewardRate)
}

func TestNotifyRewardAmountInsolvent(t *testing.T) {
	e := newEnv(t, week, units(100))
	err := e.pool.NotifyRewardAmount(admin, units(200))
	assert.ErrorIs(t, err, pool.ErrInsufficientRewardBalance)
	assert.True(t, e.pool.RewardRate().IsZero())
	assert.Equal(t, uint64(0), e.pool.FinishAt())
}

func TestNotifyRewardAmountUnsetDuration(t *testing.T) {
	e := newEnv(t, 0, units(100))
	assert.ErrorIs(t, e.pool.NotifyRewardAmount(admin, units(100)), pool.ErrInvalidDuration)
}

func TestSetRewardsDuration(t *testing.T) {
	e := newEnv(t, week, units(100))

	assert.ErrorIs(t, e.pool.SetRewardsDuration(alice, 1000), pool.ErrNotAuthorized)
	assert.ErrorIs(t, e.pool.SetRewardsDuration(admin, 0), pool.ErrInvalidDuration)

	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	assert.ErrorIs(t, e.pool.SetRewardsDuration(admin, 1000), pool.ErrPeriodNotFinished)
	assert.Equal(t, week, e.pool.Duration())

	e.clock.advance(week)
	require.NoError(t, e.pool.SetRewardsDuration(admin, 1000))
	assert.Equal(t, uint64(1000), e.pool.Duration())
}

func TestSingleStakerAccrual(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	require.NoError(t, e.pool.Stake(alice, units(2)))
	rate := e.pool.RewardRate()

	e.clock.advance(500)
	earned := e.earned(t, alice)
	assert.True(t, earned.Sign() > 0)

	// a lone staker collects the full elapsed share of the budget
	bound := new(uint256.Int).Mul(rate, uint256.NewInt(500))
	assert.Equal(t, bound, earned)
}

func TestAccrualPausesWhileNothingStaked(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	rate := e.pool.RewardRate()

	// nobody staked: the accumulator stands still and these
	// reward-rate-seconds are lost for good
	e.clock.advance(500)
	assert.True(t, e.rewardPerShare(t).IsZero())
	assert.True(t, e.earned(t, alice).IsZero())

	require.NoError(t, e.pool.Stake(alice, units(2)))
	e.clock.advance(500) // period ends here

	expected := new(uint256.Int).Mul(rate, uint256.NewInt(500))
	assert.Equal(t, expected, e.earned(t, alice))

	// past the period end nothing further accrues
	e.clock.advance(5000)
	assert.Equal(t, expected, e.earned(t, alice))
	assert.Equal(t, e.pool.FinishAt(), e.pool.LastTimeRewardApplicable())
}

func TestFairnessUnderChangingDenominator(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))

	require.NoError(t, e.pool.Stake(alice, units(10)))
	require.NoError(t, e.pool.Stake(bob, units(10)))

	// carol churns mid-interval; this changes everyone's rate but must not
	// skew the split between alice and bob
	e.clock.advance(100)
	require.NoError(t, e.pool.Stake(carol, units(20)))
	e.clock.advance(200)
	require.NoError(t, e.pool.Withdraw(carol, units(20)))
	e.clock.advance(200)

	earnedAlice := e.earned(t, alice)
	earnedBob := e.earned(t, bob)
	assert.Equal(t, earnedAlice, earnedBob)
	assert.True(t, earnedAlice.Sign() > 0)

	// alice and bob earned strictly more than carol: same window, but carol
	// held stake for only part of it
	assert.True(t, earnedAlice.Gt(e.earned(t, carol)))
}

func TestEarnedMatchesClaim(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	require.NoError(t, e.pool.Stake(alice, units(4)))

	e.clock.advance(250)
	earned := e.earned(t, alice)
	require.True(t, earned.Sign() > 0)

	paid, err := e.pool.GetReward(alice)
	require.NoError(t, err)
	assert.Equal(t, earned, paid)
	assert.Equal(t, paid, e.rewardsToken.BalanceOf(alice))

	// the claim settled everything up to now
	assert.True(t, e.earned(t, alice).IsZero())
}

func TestGetRewardWithNothingOwed(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))

	paid, err := e.pool.GetReward(alice)
	require.NoError(t, err)
	assert.True(t, paid.IsZero())
	assert.True(t, e.rewardsToken.BalanceOf(alice).IsZero())
}

func TestMonotonicAccumulator(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))

	last := e.rewardPerShare(t)
	step := func() {
		rps := e.rewardPerShare(t)
		assert.False(t, rps.Lt(last))
		last = rps
	}

	require.NoError(t, e.pool.Stake(alice, units(3)))
	step()
	e.clock.advance(100)
	step()
	require.NoError(t, e.pool.Stake(bob, units(7)))
	step()
	e.clock.advance(100)
	require.NoError(t, e.pool.Withdraw(alice, units(3)))
	step()
	e.clock.advance(100)
	_, err := e.pool.GetReward(bob)
	require.NoError(t, err)
	step()
	e.clock.advance(2000) // beyond the period end
	step()
}

func TestClaimTransferFailureRollsBack(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	require.NoError(t, e.pool.Stake(alice, units(2)))
	e.clock.advance(300)

	expected := e.earned(t, alice)
	require.True(t, expected.Sign() > 0)

	e.rewardsVault.failOut = true
	_, err := e.pool.GetReward(alice)
	assert.ErrorIs(t, err, pool.ErrTransferFailed)
	assert.True(t, e.rewardsToken.BalanceOf(alice).IsZero())

	// nothing was lost; the claim succeeds once the ledger recovers
	assert.Equal(t, expected, e.earned(t, alice))
	e.rewardsVault.failOut = false
	paid, err := e.pool.GetReward(alice)
	require.NoError(t, err)
	assert.Equal(t, expected, paid)
}

func TestWithdrawTransferFailureRollsBack(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	require.NoError(t, e.pool.Stake(alice, units(5)))
	updatedAt := e.pool.UpdatedAt()

	e.clock.advance(100)
	e.stakingVault.failOut = true
	err := e.pool.Withdraw(alice, units(5))
	assert.ErrorIs(t, err, pool.ErrTransferFailed)

	// the whole operation rolled back, including the checkpoint
	assert.Equal(t, units(5), e.pool.BalanceOf(alice))
	assert.Equal(t, units(5), e.pool.TotalSupply())
	assert.Equal(t, updatedAt, e.pool.UpdatedAt())
}

func TestLateStakerEarnsNothing(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	require.NoError(t, e.pool.Stake(alice, units(2)))

	e.clock.advance(2000) // period is over
	require.NoError(t, e.pool.Stake(bob, units(2)))
	e.clock.advance(1000)

	assert.True(t, e.earned(t, bob).IsZero())
	assert.True(t, e.earned(t, alice).Sign() > 0)
}

func TestRewardPerShareWithNoStake(t *testing.T) {
	e := newEnv(t, 1000, units(100))
	assert.True(t, e.rewardPerShare(t).IsZero())
	assert.True(t, e.earned(t, alice).IsZero())

	require.NoError(t, e.pool.NotifyRewardAmount(admin, units(100)))
	e.clock.advance(100)
	assert.True(t, e.rewardPerShare(t).IsZero())
}
