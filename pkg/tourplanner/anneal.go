package tourplanner

import (
	"math"
	"math/rand"
)

// Anneal finds an approximate ordering via simulated annealing, following
// the cooling schedule used by the original tool: temperature starts at
// 100,000 and decays by a factor of 0.99995 per step until it drops to 1 or
// below. Each step swaps two random non-origin positions; worse moves are
// still accepted with probability exp((current-new)/T). The best tour seen
// is tracked throughout, so the result is never worse than the identity
// permutation fixing index 0.
func Anneal(dist [][]float64, minLeg float64, rng *rand.Rand) []int {
	n := len(dist)
	current := make([]int, n)
	for i := range current {
		current[i] = i
	}
	if n <= 2 {
		return current
	}

	currentCost := tourObjective(current, dist, minLeg)
	best := append([]int(nil), current...)
	bestCost := currentCost

	const coolingRate = 0.99995
	temperature := 100000.0

	for temperature > 1 {
		next := append([]int(nil), current...)
		a := 1 + rng.Intn(n-1)
		b := a
		for b == a {
			b = 1 + rng.Intn(n-1)
		}
		next[a], next[b] = next[b], next[a]

		nextCost := tourObjective(next, dist, minLeg)
		if nextCost < currentCost || math.Exp((currentCost-nextCost)/temperature) > rng.Float64() {
			current = next
			currentCost = nextCost
			if currentCost < bestCost {
				best = append([]int(nil), current...)
				bestCost = currentCost
			}
		}

		temperature *= coolingRate
	}

	return best
}

// tourObjective is the mean leg cost around the cycle, with legs shorter
// than minLeg penalized 10x (spec §4.5's soft penalty against stringing
// together too-short hops).
func tourObjective(order []int, dist [][]float64, minLeg float64) float64 {
	n := len(order)
	var total float64
	for i := 0; i < n; i++ {
		from, to := order[i], order[(i+1)%n]
		d := dist[from][to]
		if math.IsInf(d, 1) {
			return math.Inf(1)
		}
		if d < minLeg {
			d *= 10
		}
		total += d
	}
	return total / float64(n)
}
