// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package poolapi

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/staking"
)

// Amounts travel as decimal strings, since 1e18-scaled balances overflow
// JSON numbers.

// PoolStatus is the response of GET /pool.
type PoolStatus struct {
	TotalStaked              string `json:"totalStaked"`
	RewardRate               string `json:"rewardRate"`
	RewardPerShare           string `json:"rewardPerShare"`
	Duration                 uint64 `json:"duration"`
	FinishAt                 uint64 `json:"finishAt"`
	UpdatedAt                uint64 `json:"updatedAt"`
	LastTimeRewardApplicable uint64 `json:"lastTimeRewardApplicable"`
}

// AccountStatus is the response of GET /pool/accounts/{address}.
type AccountStatus struct {
	Address staking.Address `json:"address"`
	Staked  string          `json:"staked"`
	Earned  string          `json:"earned"`
}

// MoveRequest is the body of POST /pool/stake and /pool/withdraw.
type MoveRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// ClaimRequest is the body of POST /pool/claim.
type ClaimRequest struct {
	Account string `json:"account"`
}

// ClaimResponse reports the amount paid by a claim.
type ClaimResponse struct {
	Paid string `json:"paid"`
}

// DurationRequest is the body of POST /pool/duration.
type DurationRequest struct {
	Caller   string `json:"caller"`
	Duration uint64 `json:"duration"`
}

// RewardsRequest is the body of POST /pool/rewards.
type RewardsRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

// StoredEvent is an element of the GET /events response.
type StoredEvent struct {
	Seq     int64           `json:"seq"`
	Time    uint64          `json:"time"`
	Kind    string          `json:"kind"`
	Account staking.Address `json:"account"`
	Amount  string          `json:"amount"`
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, errors.New("amount: missing")
	}
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.WithMessage(err, "amount")
	}
	return amount, nil
}
