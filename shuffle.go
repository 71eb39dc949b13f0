package main

import "math/rand/v2"

// shuffle permutes items in place (Fisher-Yates) and returns the same slice.
// intn must return a value in [0, n); nil uses math/rand/v2.
func shuffle[T any](items []T, intn func(n int) int) []T {
	if intn == nil {
		intn = rand.IntN
	}
	for i := len(items) - 1; i > 0; i-- {
		j := intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
