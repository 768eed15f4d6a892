package tourplanner

import "math"

// HeldKarp solves the ordering problem exactly via bitmask dynamic
// programming: with the POIs in mask already visited (including pos),
// dp[mask][pos] is the minimum cost to visit every remaining POI starting
// from pos and return to 0, and parent records the best next POI. It returns the
// visiting order as indices into dist, a permutation of 0..n-1 starting at
// 0 (the closing return to 0 is implicit, as with Anneal's output).
func HeldKarp(dist [][]float64) []int {
	n := len(dist)
	if n <= 1 {
		return []int{0}
	}

	size := 1 << n
	dp := make([][]float64, size)
	parent := make([][]int, size)
	for mask := range dp {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for pos := range dp[mask] {
			dp[mask][pos] = -1
			parent[mask][pos] = -1
		}
	}

	var tsp func(mask, pos int) float64
	tsp = func(mask, pos int) float64 {
		if mask == size-1 {
			return dist[pos][0]
		}
		if dp[mask][pos] != -1 {
			return dp[mask][pos]
		}
		best := math.Inf(1)
		bestNext := -1
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				continue
			}
			cost := dist[pos][i] + tsp(mask|(1<<i), i)
			if cost < best {
				best = cost
				bestNext = i
			}
		}
		dp[mask][pos] = best
		parent[mask][pos] = bestNext
		return best
	}
	tsp(1, 0)

	order := []int{0}
	mask, pos := 1, 0
	for {
		next := parent[mask][pos]
		if next == -1 {
			break
		}
		order = append(order, next)
		mask |= 1 << next
		pos = next
	}
	return order
}
