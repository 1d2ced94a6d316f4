// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/gafaradetunji/staking-test/metrics"
	"github.com/gafaradetunji/staking-test/pool/accrual"
)

var (
	metricOpCounter        = metrics.LazyLoadCounterVec("pool_operation_count", []string{"op", "outcome"})
	metricTotalStakedGauge = metrics.LazyLoadGauge("pool_total_staked_gauge")
	metricRewardRateGauge  = metrics.LazyLoadGauge("pool_reward_rate_gauge")
)

func countOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	metricOpCounter().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome})
}

// wholeUnits scales a 1e18-based amount down to whole units for gauges.
func wholeUnits(x *uint256.Int) int64 {
	whole := new(uint256.Int).Div(x, accrual.PrecisionFactor)
	if !whole.IsUint64() {
		return int64(^uint64(0) >> 1)
	}
	u := whole.Uint64()
	if u > uint64(^uint64(0)>>1) {
		return int64(^uint64(0) >> 1)
	}
	return int64(u)
}
