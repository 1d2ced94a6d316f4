// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/gafaradetunji/staking-test/staking"
)

// Vault binds a Token to the pool's holder identity, giving the pool the
// transfer surface it consumes: inbound transfers pull via the holder's
// allowance to the pool, outbound transfers pay from the pool's balance.
type Vault struct {
	token *Token
	owner staking.Address
}

// NewVault creates a vault over token owned by the given pool address.
func NewVault(token *Token, owner staking.Address) *Vault {
	return &Vault{token: token, owner: owner}
}

// Token returns the underlying token ledger.
func (v *Vault) Token() *Token {
	return v.token
}

// TransferIn pulls amount from the holder into the vault, consuming the
// holder's allowance to the vault owner.
func (v *Vault) TransferIn(from staking.Address, amount *uint256.Int) error {
	return v.token.TransferFrom(v.owner, from, v.owner, amount)
}

// TransferOut pays amount from the vault to the holder.
func (v *Vault) TransferOut(to staking.Address, amount *uint256.Int) error {
	return v.token.Transfer(v.owner, to, amount)
}

// BalanceOf reports the balance held by an account.
func (v *Vault) BalanceOf(holder staking.Address) *uint256.Int {
	return v.token.BalanceOf(holder)
}
