package graph

import (
	"sort"
	"strings"
)

type CycleReport struct {
	Cycles [][]string `json:"cycles"`
	Graph  GraphMap   `json:"graph"`
}

// NewCycleReport collects the strongly connected groups of g. stripPrefix
// is removed from node ids in both the groups and the mapping.
func NewCycleReport(g *Graph, stripPrefix string) *CycleReport {
	cycles := g.StronglyConnected()
	for _, group := range cycles {
		for idx := range group {
			group[idx] = strings.TrimPrefix(group[idx], stripPrefix)
		}
	}

	return &CycleReport{
		Graph:  g.Mapping(stripPrefix),
		Cycles: cycles,
	}
}

// Dot renders only the nodes that take part in a cycle, with the edges
// between members of the same group.
func (r *CycleReport) Dot(name string) string {
	group := map[string]int{}
	for idx, members := range r.Cycles {
		for _, id := range members {
			group[id] = idx
		}
	}

	cycles := GraphMap{}
	for id, idx := range group {
		cycles[id] = []string{}
		for _, to := range r.Graph[id] {
			if toIdx, ok := group[to]; ok && toIdx == idx {
				cycles[id] = append(cycles[id], to)
			}
		}
	}

	return cycles.Dot(name)
}

// BackEdge is an edge whose source is dated later than its destination.
type BackEdge struct {
	From     string  `json:"from"`
	FromYear float64 `json:"from_year"`
	To       string  `json:"to"`
	ToYear   float64 `json:"to_year"`
	Gap      float64 `json:"gap"`
}

type BackEdgeReport struct {
	Threshold float64    `json:"threshold"`
	Checked   int        `json:"checked"`
	Edges     []BackEdge `json:"edges"`
}

// NewBackEdgeReport finds edges where both endpoints carry a year and the
// source year exceeds the destination year by more than threshold. Edges
// with an undated endpoint are not counted as checked. Results are sorted
// by descending gap.
func NewBackEdgeReport(g *Graph, threshold float64) *BackEdgeReport {
	report := &BackEdgeReport{
		Threshold: threshold,
		Edges:     []BackEdge{},
	}

	for _, e := range g.edges {
		fromYear, ok := Year(g.index[e.From].Data)
		if !ok {
			continue
		}
		toYear, ok := Year(g.index[e.To].Data)
		if !ok {
			continue
		}
		report.Checked++

		if gap := fromYear - toYear; gap > threshold {
			report.Edges = append(report.Edges, BackEdge{
				From:     e.From,
				FromYear: fromYear,
				To:       e.To,
				ToYear:   toYear,
				Gap:      gap,
			})
		}
	}

	sort.SliceStable(report.Edges, func(i, j int) bool { return report.Edges[i].Gap > report.Edges[j].Gap })
	return report
}

// RankedNode pairs a node id with a score.
type RankedNode struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type GapReport struct {
	Total     int          `json:"total"`
	Undated   int          `json:"undated"`
	Important []RankedNode `json:"important"`
}

// NewGapReport ranks the nodes that carry no year by pagerank, keeping
// the top limit entries. A limit below one keeps everything.
func NewGapReport(g *Graph, limit int) *GapReport {
	ranks := g.PageRank(0.85, 1e-6)
	report := &GapReport{
		Total:     g.Len(),
		Important: []RankedNode{},
	}

	for _, n := range g.nodes {
		if _, ok := Year(n.Data); ok {
			continue
		}
		report.Undated++
		report.Important = append(report.Important, RankedNode{ID: n.ID, Score: ranks[n.ID]})
	}

	sort.SliceStable(report.Important, func(i, j int) bool {
		if report.Important[i].Score == report.Important[j].Score {
			return report.Important[i].ID < report.Important[j].ID
		}
		return report.Important[i].Score > report.Important[j].Score
	})

	if limit > 0 && len(report.Important) > limit {
		report.Important = report.Important[:limit]
	}

	return report
}
