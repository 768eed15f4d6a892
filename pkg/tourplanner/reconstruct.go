package tourplanner

import (
	"github.com/thepurplepot/prettypath/pkg/graph"
	"github.com/thepurplepot/prettypath/pkg/mapload"
)

// Reconstruct walks order (POI indices, including index 0) around the
// cycle, concatenating each leg's stored node path — reversed when the
// matrix stored it the other way round — into one continuous node sequence.
// It returns the (POI, leg node count) pairs terminated by the starting
// POI with a zero count.
func Reconstruct(m *Matrix, pois []*mapload.POI, order []int) ([]Leg, []graph.NodeID) {
	var legs []Leg
	var nodePath []graph.NodeID

	for i := 0; i < len(order); i++ {
		from := order[i]
		to := order[(i+1)%len(order)]

		key := [2]int{from, to}
		reversed := from > to
		if reversed {
			key = [2]int{to, from}
		}

		seg := m.Paths[key]
		legs = append(legs, Leg{POI: pois[from], NodeCount: len(seg)})

		if reversed {
			rev := make([]graph.NodeID, len(seg))
			for k, id := range seg {
				rev[len(seg)-1-k] = id
			}
			seg = rev
		}
		nodePath = append(nodePath, seg...)
	}

	legs = append(legs, Leg{POI: pois[order[0]], NodeCount: 0})
	return legs, nodePath
}
