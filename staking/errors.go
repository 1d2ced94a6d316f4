// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// ErrOverflow is returned when a balance or accumulator update would exceed
// 256 bits. Arithmetic never wraps silently.
var ErrOverflow = errors.New("arithmetic overflow")
