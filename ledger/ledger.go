// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger provides an in-memory transferable-balance ledger with an
// allowance step, the collaborator the pool pulls stakes from and pays
// rewards out of.
package ledger

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/staking"
)

var (
	// ErrInsufficientFunds is returned when a transfer exceeds the sender's
	// balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the approved allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

type allowanceKey struct {
	owner   staking.Address
	spender staking.Address
}

// Token is a fungible balance ledger with balances and allowances. Safe for
// concurrent use.
type Token struct {
	mu         sync.Mutex
	symbol     string
	balances   map[staking.Address]*uint256.Int
	allowances map[allowanceKey]*uint256.Int
}

// NewToken creates an empty ledger for the given symbol.
func NewToken(symbol string) *Token {
	return &Token{
		symbol:     symbol,
		balances:   make(map[staking.Address]*uint256.Int),
		allowances: make(map[allowanceKey]*uint256.Int),
	}
}

// Symbol returns the ledger's token symbol.
func (t *Token) Symbol() string {
	return t.symbol
}

// Mint credits amount to the holder out of thin air.
func (t *Token) Mint(holder staking.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	balance, overflow := new(uint256.Int).AddOverflow(t.balance(holder), amount)
	if overflow {
		return errors.WithMessage(staking.ErrOverflow, "mint")
	}
	t.balances[holder] = balance
	return nil
}

// BalanceOf reports the balance held by an account.
func (t *Token) BalanceOf(holder staking.Address) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balance(holder).Clone()
}

// Approve lets the spender move up to amount of the owner's balance.
// Repeated approvals replace the allowance rather than accumulate.
func (t *Token) Approve(owner, spender staking.Address, amount *uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.allowances[allowanceKey{owner, spender}] = amount.Clone()
}

// Allowance reports the remaining allowance from owner to spender.
func (t *Token) Allowance(owner, spender staking.Address) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.allowances[allowanceKey{owner, spender}]; ok {
		return a.Clone()
	}
	return uint256.NewInt(0)
}

// Transfer moves amount from one holder to another.
func (t *Token) Transfer(from, to staking.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.move(from, to, amount)
}

// TransferFrom moves amount from owner to recipient on behalf of the
// spender, consuming the spender's allowance.
func (t *Token) TransferFrom(spender, owner, to staking.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := allowanceKey{owner, spender}
	allowance, ok := t.allowances[key]
	if !ok || allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.move(owner, to, amount); err != nil {
		return err
	}
	t.allowances[key] = new(uint256.Int).Sub(allowance, amount)
	return nil
}

func (t *Token) balance(holder staking.Address) *uint256.Int {
	if b, ok := t.balances[holder]; ok {
		return b
	}
	return uint256.NewInt(0)
}

func (t *Token) move(from, to staking.Address, amount *uint256.Int) error {
	fromBalance := t.balance(from)
	if fromBalance.Lt(amount) {
		return ErrInsufficientFunds
	}
	toBalance, overflow := new(uint256.Int).AddOverflow(t.balance(to), amount)
	if overflow {
		return errors.WithMessage(staking.ErrOverflow, "transfer")
	}
	t.balances[from] = new(uint256.Int).Sub(fromBalance, amount)
	t.balances[to] = toBalance
	return nil
}
