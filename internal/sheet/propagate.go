package sheet

import "sort"

// Propagate recomputes every cell transitively affected by a change to
// changed. It runs Kahn's algorithm over the subgraph induced by the
// affected set: in-degrees are counted only along edges whose both
// endpoints lie in that set, zero-in-degree cells are recomputed and
// queued in order, and their children's in-degrees are decremented in
// turn. It reports whether a cycle was detected — true means not every
// affected cell could be processed, which means the dispatcher must
// roll the triggering edit back.
func Propagate(g *Graph, st *Store, ev *Evaluator, changed CellKey) bool {
	affected := g.AffectedSet(changed)
	if len(affected) == 0 {
		return false
	}

	indegree := make(map[CellKey]int, len(affected))
	for k := range affected {
		indegree[k] = 0
	}
	for k := range affected {
		for child := range g.ChildrenOf(k) {
			if _, ok := affected[child]; ok {
				indegree[child]++
			}
		}
	}

	queue := make([]CellKey, 0, len(affected))
	for k, d := range indegree {
		if d == 0 {
			queue = append(queue, k)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if m, ok := st.Meta(cur); ok {
			st.Set(cur, ev.Evaluate(cur, m))
		}
		processed++

		ready := make([]CellKey, 0)
		for child := range g.ChildrenOf(cur) {
			if _, ok := affected[child]; !ok {
				continue
			}
			indegree[child]--
			if indegree[child] == 0 {
				ready = append(ready, child)
			}
		}
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		queue = append(queue, ready...)
	}

	return processed != len(affected)
}
