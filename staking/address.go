// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// AddressLength is the byte length of an account address.
const AddressLength = 20

// Address identifies a pool participant or token holder.
type Address [AddressLength]byte

// ParseAddress converts a hex string presentation into an Address.
// The "0x" prefix is optional and parsing is case-insensitive.
func ParseAddress(s string) (Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != AddressLength*2 {
		return Address{}, errors.New("invalid address length")
	}
	var addr Address
	if _, err := hex.Decode(addr[:], []byte(raw)); err != nil {
		return Address{}, errors.WithMessage(err, "invalid address")
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error.
// It simplifies static address declarations in tests and config defaults.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress copies b into an Address, left-padding with zeros when b is
// shorter than AddressLength and keeping the trailing bytes when longer.
func BytesToAddress(b []byte) Address {
	var addr Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(addr[AddressLength-len(b):], b)
	return addr
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero returns true if the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText implements encoding.TextMarshaler, so addresses render as hex
// strings in JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
