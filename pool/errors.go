// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/pool/accrual"
	"github.com/gafaradetunji/staking-test/pool/stakes"
)

// Every rejected operation leaves the pool state exactly as it was before
// the call, so callers may retry with corrected input. The sentinels of the
// sub-services are re-exported here so callers only ever match against the
// pool package.
var (
	// ErrInvalidAmount rejects zero-amount stakes and withdrawals.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotAuthorized rejects admin-only operations from other callers.
	ErrNotAuthorized = errors.New("caller is not an administrator")

	// ErrTransferFailed wraps a rejection from the token ledger. The failed
	// operation is fully rolled back and never retried internally.
	ErrTransferFailed = errors.New("token transfer failed")

	ErrInsufficientBalance       = stakes.ErrInsufficientBalance
	ErrPeriodNotFinished         = accrual.ErrPeriodNotFinished
	ErrInvalidDuration           = accrual.ErrInvalidDuration
	ErrZeroRewardRate            = accrual.ErrZeroRewardRate
	ErrInsufficientRewardBalance = accrual.ErrInsufficientRewardBalance
)

func transferFailed(cause error, action string) error {
	return errors.WithMessage(ErrTransferFailed, action+": "+cause.Error())
}
