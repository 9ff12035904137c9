// Package nric validates Singapore NRIC/FIN identity numbers. It is a pure
// predicate with no I/O; whether it is enforced at all is a runtime setting.
package nric

import (
	"math/rand"
	"strings"
)

var weights = [7]int{2, 7, 6, 5, 4, 3, 2}

const (
	checksumST = "JZIHGFEDCBA"
	checksumFG = "XWUTRQPNMLK"
)

// IsValid reports whether id is a structurally valid NRIC/FIN number:
// a prefix letter (S/T for citizens, F/G for foreigners), seven digits,
// and a checksum letter derived from the digits.
func IsValid(id string) bool {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) != 9 {
		return false
	}

	prefix := id[0]
	if prefix != 'S' && prefix != 'T' && prefix != 'F' && prefix != 'G' {
		return false
	}

	sum := 0
	for i := 0; i < 7; i++ {
		c := id[i+1]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * weights[i]
	}

	// T and G series are offset by 4.
	if prefix == 'T' || prefix == 'G' {
		sum += 4
	}

	table := checksumST
	if prefix == 'F' || prefix == 'G' {
		table = checksumFG
	}
	return id[8] == table[sum%11]
}

// GenerateRandom returns a random valid S-series NRIC. Used by tests and
// seed tooling; not suitable for anything security sensitive.
func GenerateRandom() string {
	var b strings.Builder
	b.WriteByte('S')

	sum := 0
	for i := 0; i < 7; i++ {
		d := rand.Intn(10)
		sum += d * weights[i]
		b.WriteByte(byte('0' + d))
	}
	b.WriteByte(checksumST[sum%11])
	return b.String()
}

// Validator adapts the package predicate to the identity-validator
// capability consumed by the transaction service.
type Validator struct{}

func (Validator) IsValid(id string) bool {
	return IsValid(id)
}
