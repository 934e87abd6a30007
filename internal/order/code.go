package order

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// codeAlphabet leaves out I, O, Q, S and Z, which read ambiguously on a
// printed receipt.
const codeAlphabet = "ABCDEFGHJKLMNPRTUVWXY"

// Rand is the source of randomness for code generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the shared math/rand/v2 generator, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// GenerateCode builds a short human-readable order code of the form
// MMDD-XX/NN for the given pickup date. XX are two random letters from
// codeAlphabet, NN two random digits, which gives 44,100 distinct codes per
// day. The function never checks for collisions; the unique constraint on
// orders.order_code is the only uniqueness guarantee, and the caller is
// expected to retry on a collision.
func GenerateCode(pickupDate time.Time, rng Rand) string {
	return fmt.Sprintf("%02d%02d-%c%c/%d%d",
		pickupDate.Month(),
		pickupDate.Day(),
		codeAlphabet[rng.IntN(len(codeAlphabet))],
		codeAlphabet[rng.IntN(len(codeAlphabet))],
		rng.IntN(10),
		rng.IntN(10),
	)
}
