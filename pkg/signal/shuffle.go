package signal

// Rand is the random source Shuffle draws from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Shuffle permutes items in place with the Fisher-Yates algorithm, so every
// permutation is equally likely for a uniform rng.
func Shuffle[T any](items []T, rng Rand) {
	for m := len(items); m > 1; m-- {
		i := rng.Intn(m)
		items[m-1], items[i] = items[i], items[m-1]
	}
}
