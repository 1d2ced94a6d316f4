// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gafaradetunji/staking-test/staking"
)

func addr(b byte) staking.Address {
	var a staking.Address
	a[staking.AddressLength-1] = b
	return a
}

func TestPrepareAddCommit(t *testing.T) {
	l := New()
	assert.True(t, l.Total().IsZero())
	assert.True(t, l.Balance(addr(1)).IsZero())

	change, err := l.PrepareAdd(addr(1), uint256.NewInt(10))
	require.NoError(t, err)

	// nothing moves before commit
	assert.True(t, l.Total().IsZero())

	l.Commit(change)
	assert.Equal(t, uint256.NewInt(10), l.Balance(addr(1)))
	assert.Equal(t, uint256.NewInt(10), l.Total())

	change, err = l.PrepareAdd(addr(2), uint256.NewInt(5))
	require.NoError(t, err)
	l.Commit(change)
	assert.Equal(t, uint256.NewInt(15), l.Total())
}

func TestPrepareSub(t *testing.T) {
	l := New()
	change, err := l.PrepareAdd(addr(1), uint256.NewInt(10))
	require.NoError(t, err)
	l.Commit(change)

	_, err = l.PrepareSub(addr(1), uint256.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = l.PrepareSub(addr(2), uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	change, err = l.PrepareSub(addr(1), uint256.NewInt(10))
	require.NoError(t, err)
	l.Commit(change)
	assert.True(t, l.Balance(addr(1)).IsZero())
	assert.True(t, l.Total().IsZero())
}

func TestPrepareAddOverflow(t *testing.T) {
	l := New()
	change, err := l.PrepareAdd(addr(1), new(uint256.Int).SetAllOne())
	require.NoError(t, err)
	l.Commit(change)

	_, err = l.PrepareAdd(addr(1), uint256.NewInt(1))
	assert.ErrorIs(t, err, staking.ErrOverflow)
}

func TestBalanceReturnsCopy(t *testing.T) {
	l := New()
	change, err := l.PrepareAdd(addr(1), uint256.NewInt(10))
	require.NoError(t, err)
	l.Commit(change)

	l.Balance(addr(1)).SetUint64(99)
	l.Total().SetUint64(99)
	assert.Equal(t, uint256.NewInt(10), l.Balance(addr(1)))
	assert.Equal(t, uint256.NewInt(10), l.Total())
}
