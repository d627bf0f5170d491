package engine

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testOracle() *Oracle {
	return NewOracle(16, rand.New(rand.NewSource(99)))
}

func trialDivision(n int64) bool {
	if n < 2 {
		return false
	}
	for d := int64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestIsPrime_SmallRange(t *testing.T) {
	o := testOracle()
	for n := int64(0); n <= 10000; n++ {
		got := o.IsPrime(big.NewInt(n))
		if got != trialDivision(n) {
			t.Fatalf("IsPrime(%d) = %v, want %v", n, got, !got)
		}
	}
}

func TestIsPrime_LargeKnownPrimes(t *testing.T) {
	// Mersenne primes 2^89-1, 2^107-1, 2^127-1.
	primes := []string{
		"618970019642690137449562111",
		"162259276829213363391578010288127",
		"170141183460469231731687303715884105727",
	}
	o := testOracle()
	for _, s := range primes {
		n, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)
		require.True(t, o.IsPrime(n), "expected %s prime", s)
	}
}

func TestIsPrime_LargeComposites(t *testing.T) {
	o := testOracle()
	m89, _ := new(big.Int).SetString("618970019642690137449562111", 10)
	m107, _ := new(big.Int).SetString("162259276829213363391578010288127", 10)

	product := new(big.Int).Mul(m89, m107)
	require.False(t, o.IsPrime(product), "product of two primes must be composite")

	square := new(big.Int).Mul(m107, m107)
	require.False(t, o.IsPrime(square))
}

func TestIsPrime_MagicNumbers(t *testing.T) {
	o := testOracle()
	require.False(t, o.IsPrime(big.NewInt(57)), "57 is 3*19")
	require.False(t, o.IsPrime(big.NewInt(1729)), "1729 is 7*13*19")
}
