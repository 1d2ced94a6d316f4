// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority implements the access-control collaborator consulted by
// the pool's administrative operations.
package authority

import "github.com/gafaradetunji/staking-test/staking"

// Registry is a fixed set of administrators.
type Registry struct {
	admins map[staking.Address]bool
}

// New creates a registry with the given administrators.
func New(admins ...staking.Address) *Registry {
	set := make(map[staking.Address]bool, len(admins))
	for _, a := range admins {
		set[a] = true
	}
	return &Registry{admins: set}
}

// IsAdministrator reports whether the caller is an administrator.
func (r *Registry) IsAdministrator(caller staking.Address) bool {
	return r.admins[caller]
}
