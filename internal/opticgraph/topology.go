package opticgraph

import (
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

var errCycle = errors.New("graph contains a cycle")

// topologicalOrder sorts the nodes with Kahn's algorithm. Among nodes that
// are ready at the same time the one added first wins, which makes analysis
// runs reproducible.
func (g *Graph) topologicalOrder() ([]uuid.UUID, error) {
	index := make(map[uuid.UUID]int, len(g.order))
	for i, id := range g.order {
		index[id] = i
	}
	inDegree := make(map[uuid.UUID]int, len(g.order))
	for _, e := range g.edges {
		inDegree[e.dst]++
	}

	var ready []int
	for i, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, i)
		}
	}

	sorted := make([]uuid.UUID, 0, len(g.order))
	for len(ready) > 0 {
		id := g.order[ready[0]]
		ready = ready[1:]
		sorted = append(sorted, id)
		for _, e := range g.outgoing(id) {
			inDegree[e.dst]--
			if inDegree[e.dst] == 0 {
				ready = append(ready, index[e.dst])
			}
		}
		sort.Ints(ready)
	}

	if len(sorted) != len(g.order) {
		return nil, errCycle
	}
	return sorted, nil
}

func (g *Graph) hasCycle() bool {
	_, err := g.topologicalOrder()
	return err != nil
}

// componentCount returns the number of weakly connected components.
func (g *Graph) componentCount() int {
	neighbors := make(map[uuid.UUID][]uuid.UUID, len(g.order))
	for _, e := range g.edges {
		neighbors[e.src] = append(neighbors[e.src], e.dst)
		neighbors[e.dst] = append(neighbors[e.dst], e.src)
	}

	visited := mapset.NewThreadUnsafeSet[uuid.UUID]()
	components := 0
	for _, start := range g.order {
		if visited.Contains(start) {
			continue
		}
		components++
		queue := []uuid.UUID{start}
		visited.Add(start)
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range neighbors[current] {
				if visited.Add(next) {
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}

// IsSingleTree reports whether all nodes are (weakly) connected with each
// other.
func (g *Graph) IsSingleTree() bool {
	return g.componentCount() == 1
}
