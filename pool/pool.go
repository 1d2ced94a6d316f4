// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements a time-weighted reward-distribution pool.
// Participants stake a fungible balance and accrue a proportional share of a
// reward budget released linearly over a fixed duration. Every mutating
// operation checkpoints the global accumulator before touching balances,
// which keeps the accrual fair under a constantly changing total stake.
package pool

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gafaradetunji/staking-test/pool/accrual"
	"github.com/gafaradetunji/staking-test/pool/stakes"
	"github.com/gafaradetunji/staking-test/pool/tracker"
	"github.com/gafaradetunji/staking-test/staking"
)

var logger = log.With().Str("pkg", "pool").Logger()

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// TokenLedger moves a fungible balance in and out of the pool's custody.
// The pool never assumes a transfer succeeds; every call site checks the
// result and rolls back on failure.
type TokenLedger interface {
	// TransferIn pulls amount from the holder into the pool's custody.
	TransferIn(from staking.Address, amount *uint256.Int) error
	// TransferOut pays amount from the pool's custody to the holder.
	TransferOut(to staking.Address, amount *uint256.Int) error
	// BalanceOf reports the balance held by an account.
	BalanceOf(holder staking.Address) *uint256.Int
}

// Authority gates the administrative operations.
type Authority interface {
	IsAdministrator(caller staking.Address) bool
}

// Options configures a pool.
type Options struct {
	// Address is the pool's own holder identity on both token ledgers.
	Address staking.Address
	// Duration is the initial reward period length in seconds. It may be
	// zero and set later through SetRewardsDuration.
	Duration uint64

	StakingToken TokenLedger
	RewardsToken TokenLedger
	Auth         Authority

	// Clock defaults to the wall clock.
	Clock staking.Clock
	// Events is optional; committed operations are reported to it.
	Events EventSink
}

// Pool is the engine facade. All public operations are atomic: a single
// mutex serializes access and no operation commits partial state.
type Pool struct {
	mu sync.Mutex

	addr         staking.Address
	stakingToken TokenLedger
	rewardsToken TokenLedger
	auth         Authority
	clock        staking.Clock
	events       EventSink

	stakes  *stakes.Ledger
	accrual *accrual.Service
	tracker *tracker.Service
}

// New creates a pool.
func New(opts Options) (*Pool, error) {
	if opts.StakingToken == nil || opts.RewardsToken == nil {
		return nil, errors.New("token ledgers are required")
	}
	if opts.Auth == nil {
		return nil, errors.New("authority is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = staking.SysClock
	}
	return &Pool{
		addr:         opts.Address,
		stakingToken: opts.StakingToken,
		rewardsToken: opts.RewardsToken,
		auth:         opts.Auth,
		clock:        clock,
		events:       opts.Events,
		stakes:       stakes.New(),
		accrual:      accrual.New(opts.Duration),
		tracker:      tracker.New(),
	}, nil
}

// Address returns the pool's holder identity on the token ledgers.
func (p *Pool) Address() staking.Address {
	return p.addr
}

// settle advances the accumulator to now using the pre-mutation total stake
// and, when an account is given, settles that account's owed reward against
// the advanced value. Nothing is committed; the caller applies the returned
// parts only once every external effect of the operation has succeeded, so a
// rejected operation leaves zero residue.
func (p *Pool) settle(now uint64, account *staking.Address) (*accrual.Snapshot, *tracker.Entry, error) {
	snap, err := p.accrual.Checkpoint(now, p.stakes.Total())
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return snap, nil, nil
	}
	entry, err := p.tracker.Settle(*account, p.stakes.Balance(*account), snap.RewardPerShare())
	if err != nil {
		return nil, nil, err
	}
	return snap, entry, nil
}

// Stake pulls amount from the account into the pool and starts accruing
// reward on it.
func (p *Pool) Stake(account staking.Address, amount *uint256.Int) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { countOp("stake", err) }()

	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	now := p.clock.Now()
	logger.Debug().Str("account", account.String()).Str("amount", amount.Dec()).Msg("staking")

	snap, entry, err := p.settle(now, &account)
	if err != nil {
		return err
	}
	change, err := p.stakes.PrepareAdd(account, amount)
	if err != nil {
		return err
	}
	if err := p.stakingToken.TransferIn(account, amount); err != nil {
		logger.Info().Err(err).Str("account", account.String()).Msg("stake deposit rejected")
		return transferFailed(err, "stake deposit")
	}

	p.accrual.Commit(snap)
	p.tracker.Commit(entry)
	p.stakes.Commit(change)

	metricTotalStakedGauge().Set(wholeUnits(p.stakes.Total()))
	p.emit(EventStake, account, amount, now)
	logger.Info().Str("account", account.String()).Str("amount", amount.Dec()).Msg("staked")
	return nil
}

// Withdraw returns amount of the account's staked balance to it.
func (p *Pool) Withdraw(account staking.Address, amount *uint256.Int) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { countOp("withdraw", err) }()

	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	now := p.clock.Now()
	logger.Debug().Str("account", account.String()).Str("amount", amount.Dec()).Msg("withdrawing")

	snap, entry, err := p.settle(now, &account)
	if err != nil {
		return err
	}
	change, err := p.stakes.PrepareSub(account, amount)
	if err != nil {
		return err
	}
	if err := p.stakingToken.TransferOut(account, amount); err != nil {
		logger.Info().Err(err).Str("account", account.String()).Msg("withdrawal payout rejected")
		return transferFailed(err, "withdrawal payout")
	}

	p.accrual.Commit(snap)
	p.tracker.Commit(entry)
	p.stakes.Commit(change)

	metricTotalStakedGauge().Set(wholeUnits(p.stakes.Total()))
	p.emit(EventWithdraw, account, amount, now)
	logger.Info().Str("account", account.String()).Str("amount", amount.Dec()).Msg("withdrawn")
	return nil
}

// GetReward pays out the account's settled reward and returns the amount
// paid. A zero owed balance commits the checkpoint and pays nothing. When
// the payout transfer fails the whole operation is rolled back, so the claim
// can be retried later.
func (p *Pool) GetReward(account staking.Address) (claimed *uint256.Int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { countOp("get_reward", err) }()

	now := p.clock.Now()
	snap, entry, err := p.settle(now, &account)
	if err != nil {
		return nil, err
	}

	amount := entry.Claim()
	if amount.IsZero() {
		p.accrual.Commit(snap)
		p.tracker.Commit(entry)
		return uint256.NewInt(0), nil
	}

	if err := p.rewardsToken.TransferOut(account, amount); err != nil {
		logger.Info().Err(err).Str("account", account.String()).Msg("reward payout rejected")
		return nil, transferFailed(err, "reward payout")
	}

	p.accrual.Commit(snap)
	p.tracker.Commit(entry)

	p.emit(EventRewardPaid, account, amount, now)
	logger.Info().Str("account", account.String()).Str("amount", amount.Dec()).Msg("reward paid")
	return amount, nil
}

// SetRewardsDuration replaces the reward period duration. Administrator
// only, and only once the active period has finished.
func (p *Pool) SetRewardsDuration(caller staking.Address, duration uint64) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { countOp("set_duration", err) }()

	if !p.auth.IsAdministrator(caller) {
		return ErrNotAuthorized
	}
	now := p.clock.Now()
	if err := p.accrual.SetDuration(now, duration); err != nil {
		return err
	}

	p.emit(EventDurationSet, caller, uint256.NewInt(duration), now)
	logger.Info().Uint64("duration", duration).Msg("rewards duration set")
	return nil
}

// NotifyRewardAmount injects a reward budget and recomputes the rate over a
// fresh period. Administrator only. The budget must already sit in the
// pool's reward balance; the rate is rejected if the balance cannot cover
// rate*duration, counting any budget rolled over from a running period.
func (p *Pool) NotifyRewardAmount(caller staking.Address, amount *uint256.Int) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { countOp("notify_reward", err) }()

	if !p.auth.IsAdministrator(caller) {
		return ErrNotAuthorized
	}
	if amount == nil {
		return ErrInvalidAmount
	}
	now := p.clock.Now()
	logger.Debug().Str("amount", amount.Dec()).Msg("injecting reward budget")

	// flush accrual up to now at the old rate
	snap, _, err := p.settle(now, nil)
	if err != nil {
		return err
	}
	held := p.rewardsToken.BalanceOf(p.addr)
	change, err := p.accrual.PrepareNotify(now, amount, held)
	if err != nil {
		logger.Info().Err(err).Str("amount", amount.Dec()).Msg("reward injection rejected")
		return err
	}

	p.accrual.Commit(snap)
	p.accrual.CommitRateChange(change)

	metricRewardRateGauge().Set(wholeUnits(change.RewardRate()))
	p.emit(EventRewardAdded, caller, amount, now)
	logger.Info().Str("amount", amount.Dec()).Str("rate", change.RewardRate().Dec()).Msg("reward budget injected")
	return nil
}
