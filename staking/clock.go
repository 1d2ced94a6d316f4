// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "time"

// Clock supplies the ambient time observed by the pool. The engine never
// schedules anything; it only reads the clock at call time.
type Clock interface {
	// Now returns the current unix time in seconds.
	Now() uint64
}

type sysClock struct{}

func (sysClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// SysClock reads the wall clock.
var SysClock Clock = sysClock{}
