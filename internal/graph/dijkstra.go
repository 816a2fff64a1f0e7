package graph

import "container/heap"

// Arc is a directed, weighted connection to another stop. HasDuration is
// false until an OpenRouteService refresh has populated the edge's travel time.
type Arc struct {
	To          int64
	DistanceKm  float64
	DurationMin float64
	HasDuration bool
}

// Graph is an immutable adjacency-list snapshot of the edge table. Build one,
// swap it in behind a lock, never mutate it afterwards.
type Graph struct {
	adj map[int64][]Arc
}

func New() *Graph {
	return &Graph{adj: make(map[int64][]Arc)}
}

// AddArc adds a directed arc from the given stop
func (g *Graph) AddArc(from int64, arc Arc) {
	g.adj[from] = append(g.adj[from], arc)
}

// ArcCount returns the total number of arcs in the graph
func (g *Graph) ArcCount() int {
	count := 0
	for _, arcs := range g.adj {
		count += len(arcs)
	}
	return count
}

// Path is a computed shortest path. TotalDurationMin is only meaningful when
// HasDuration is true, which requires every arc on the path to carry one.
type Path struct {
	StopIDs          []int64
	TotalDistanceKm  float64
	TotalDurationMin float64
	HasDuration      bool
}

// queueItem is a node in the priority queue with its tentative distance
type queueItem struct {
	node int64
	dist float64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestPath computes the minimum-distance path between two stops using
// Dijkstra's algorithm. The second return value is false when the destination
// is unreachable from the origin.
func (g *Graph) ShortestPath(origin, destination int64) (Path, bool) {
	if origin == destination {
		return Path{StopIDs: []int64{origin}}, true
	}

	dist := map[int64]float64{origin: 0}
	prev := map[int64]int64{}
	visited := map[int64]bool{}

	pq := &priorityQueue{{node: origin, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true

		if u == destination {
			break
		}

		for _, arc := range g.adj[u] {
			alt := item.dist + arc.DistanceKm
			if d, ok := dist[arc.To]; !ok || alt < d {
				dist[arc.To] = alt
				prev[arc.To] = u
				heap.Push(pq, queueItem{node: arc.To, dist: alt})
			}
		}
	}

	total, ok := dist[destination]
	if !ok || !visited[destination] {
		return Path{}, false
	}

	// Reconstruct the path from destination back to origin
	var stopIDs []int64
	for cur := destination; ; {
		stopIDs = append(stopIDs, cur)
		if cur == origin {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(stopIDs)-1; i < j; i, j = i+1, j-1 {
		stopIDs[i], stopIDs[j] = stopIDs[j], stopIDs[i]
	}

	path := Path{
		StopIDs:         stopIDs,
		TotalDistanceKm: total,
	}

	// Accumulate travel time when every traversed arc has one
	durationMin, hasDuration := g.pathDuration(stopIDs)
	path.TotalDurationMin = durationMin
	path.HasDuration = hasDuration

	return path, true
}

func (g *Graph) pathDuration(stopIDs []int64) (float64, bool) {
	if len(stopIDs) < 2 {
		return 0, false
	}

	var total float64
	for i := 0; i < len(stopIDs)-1; i++ {
		arc, ok := g.findArc(stopIDs[i], stopIDs[i+1])
		if !ok || !arc.HasDuration {
			return 0, false
		}
		total += arc.DurationMin
	}
	return total, true
}

// findArc returns the shortest arc between two adjacent stops. Parallel arcs
// cannot exist in the edge table, but the snapshot does not assume that.
func (g *Graph) findArc(from, to int64) (Arc, bool) {
	var best Arc
	found := false
	for _, arc := range g.adj[from] {
		if arc.To != to {
			continue
		}
		if !found || arc.DistanceKm < best.DistanceKm {
			best = arc
			found = true
		}
	}
	return best, found
}
