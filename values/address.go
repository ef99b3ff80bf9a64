// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package values

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AddressLen is the width of an account address in bytes.
const AddressLen = 32

var errBadAddress = errors.New("malformed address")

// Address is an account identifier.
type Address [AddressLen]byte

// Signer is an address carrying the authority of its account.
type Signer struct {
	Address Address
}

// Short addresses used throughout the framework.
var (
	AddressZero = Address{}
	AddressOne  = Address{AddressLen - 1: 1}
	AddressTwo  = Address{AddressLen - 1: 2}
)

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (s Signer) String() string { return "signer(" + s.Address.String() + ")" }

// BytesToAddress converts a byte slice to an address. Inputs shorter than
// [AddressLen] are left-padded with zeros; longer inputs keep their trailing
// [AddressLen] bytes.
func BytesToAddress(input []byte) Address {
	var addr Address
	if len(input) > AddressLen {
		input = input[len(input)-AddressLen:]
	}
	copy(addr[AddressLen-len(input):], input)
	return addr
}

// ParseAddress parses a hex address with an optional 0x prefix. Short forms
// such as "0x1" are left-padded.
func ParseAddress(s string) (Address, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(digits) == 0 || len(digits) > 2*AddressLen {
		return Address{}, fmt.Errorf("%w: %q", errBadAddress, s)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %s", errBadAddress, s, err)
	}
	return BytesToAddress(raw), nil
}
