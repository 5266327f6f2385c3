package polytope

import "sort"

// unionFind is the same path-compression-plus-union-by-rank disjoint-set
// structure katalvlaran-lvlath's prim_kruskal.Kruskal uses over string
// vertex IDs, adapted to the dense int-indexed variable columns a polytope
// factors over.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(x, y int) {
	rx, ry := u.find(x), u.find(y)
	if rx == ry {
		return
	}
	if u.rank[rx] < u.rank[ry] {
		u.parent[rx] = ry
	} else {
		u.parent[ry] = rx
		if u.rank[rx] == u.rank[ry] {
			u.rank[rx]++
		}
	}
}

// Factor partitions p into independent sub-polytopes whose Cartesian
// product is p (spec.md §4.6): build the bipartite row/variable incidence
// graph, collapse it to connected components over variable columns via
// union-find, then extract one dense sub-matrix per component. A component
// with no rows at all (a variable no constraint touches) becomes its own
// unbounded singleton polytope.
func Factor(p *Polytope) []*Polytope {
	n := len(p.Vars)
	if n == 0 {
		return nil
	}
	uf := newUnionFind(n)
	for _, row := range p.A {
		vs := incidentVars(row)
		for k := 1; k < len(vs); k++ {
			uf.union(vs[0], vs[k])
		}
	}

	roots := make(map[int][]int) // root -> column indices
	for j := 0; j < n; j++ {
		r := uf.find(j)
		roots[r] = append(roots[r], j)
	}
	if len(roots) <= 1 {
		return []*Polytope{p}
	}

	colRoot := make([]int, n)
	for j := 0; j < n; j++ {
		colRoot[j] = uf.find(j)
	}

	rowsByRoot := make(map[int][]int) // root -> row indices
	for i, row := range p.A {
		vs := incidentVars(row)
		if len(vs) == 0 {
			continue
		}
		r := colRoot[vs[0]]
		rowsByRoot[r] = append(rowsByRoot[r], i)
	}

	var out []*Polytope
	for root, cols := range roots {
		sub := &Polytope{}
		for _, j := range cols {
			sub.Vars = append(sub.Vars, p.Vars[j])
		}
		colIndex := make(map[int]int, len(cols))
		for newJ, j := range cols {
			colIndex[j] = newJ
		}
		for _, i := range rowsByRoot[root] {
			row := make([]float64, len(cols))
			for _, j := range incidentVars(p.A[i]) {
				row[colIndex[j]] = p.A[i][j]
			}
			sub.A = append(sub.A, row)
			sub.B = append(sub.B, p.B[i])
			sub.Rel = append(sub.Rel, p.Rel[i])
		}
		if len(sub.A) == 0 {
			sub.Unbounded = true
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vars[0] < out[j].Vars[0] })
	return out
}
