package engine

import (
	"math/big"
	"math/rand"
)

// smallPrimes gives quick accept/reject before Miller-Rabin runs.
var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// deterministicWitnesses is exact for every n below 2^64.
var deterministicWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// Oracle answers primality queries for arbitrary-precision integers.
// Below 2^64 the answer is exact; at or above it the answer is
// probabilistic with error probability at most 4^-rounds.
type Oracle struct {
	rounds int
	rng    *rand.Rand
}

func NewOracle(rounds int, rng *rand.Rand) *Oracle {
	if rounds <= 0 {
		rounds = 16
	}
	return &Oracle{rounds: rounds, rng: rng}
}

func (o *Oracle) IsPrime(n *big.Int) bool {
	if n.Cmp(bigTwo) < 0 {
		return false
	}
	rem := new(big.Int)
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if n.Cmp(bp) == 0 {
			return true
		}
		if rem.Mod(n, bp).Sign() == 0 {
			return false
		}
	}

	// n-1 = d * 2^s with d odd
	nMinus1 := new(big.Int).Sub(n, bigOne)
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	if n.BitLen() <= 64 {
		for _, w := range deterministicWitnesses {
			if !millerRabinRound(n, nMinus1, d, s, big.NewInt(w)) {
				return false
			}
		}
		return true
	}

	// Random witnesses drawn uniformly from [2, n-2].
	max := new(big.Int).Sub(n, big.NewInt(3))
	for i := 0; i < o.rounds; i++ {
		a := new(big.Int).Rand(o.rng, max)
		a.Add(a, bigTwo)
		if !millerRabinRound(n, nMinus1, d, s, a) {
			return false
		}
	}
	return true
}

// millerRabinRound reports whether n passes one round with witness a.
func millerRabinRound(n, nMinus1, d *big.Int, s int, a *big.Int) bool {
	a = new(big.Int).Mod(a, n)
	if a.Cmp(bigTwo) < 0 {
		return true
	}
	x := new(big.Int).Exp(a, d, n)
	if x.Cmp(bigOne) == 0 || x.Cmp(nMinus1) == 0 {
		return true
	}
	for i := 0; i < s-1; i++ {
		x.Mul(x, x).Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return true
		}
	}
	return false
}
