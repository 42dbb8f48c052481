package graph

import (
	"github.com/siherrmann/worldgraph/model"
)

// TraversalResult contains an artifact and its distance from the source
type TraversalResult struct {
	Artifact *model.Artifact
	Distance int
	Path     []string // ids from source to this artifact
	Kind     string   // kind of the edge that reached it, empty for the source
}

// Backlink is an incoming edge: From.Relations[Index] points at the queried artifact.
type Backlink struct {
	From     *model.Artifact
	Index    int
	Relation model.Relation
}

// BFS performs breadth-first search over relation lists from sourceID.
// Dangling edges are skipped. An empty kinds list follows every kind.
func BFS(lookup Lookup, sourceID string, maxHops int, kinds []string) []*TraversalResult {
	source, ok := lookup.Resolve(sourceID)
	if !ok {
		return nil
	}

	filter := kindFilter(kinds)
	visited := map[string]bool{sourceID: true}
	queue := []*TraversalResult{{
		Artifact: source,
		Distance: 0,
		Path:     []string{sourceID},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, current)

		if current.Distance >= maxHops {
			continue
		}

		for _, rel := range current.Artifact.Relations {
			if !filter(rel.Kind) || visited[rel.ToID] {
				continue
			}

			target, ok := lookup.Resolve(rel.ToID)
			if !ok {
				continue
			}
			visited[rel.ToID] = true

			path := make([]string, len(current.Path), len(current.Path)+1)
			copy(path, current.Path)

			queue = append(queue, &TraversalResult{
				Artifact: target,
				Distance: current.Distance + 1,
				Path:     append(path, rel.ToID),
				Kind:     rel.Kind,
			})
		}
	}

	return results
}

// DFS performs depth-first search over relation lists from sourceID.
func DFS(lookup Lookup, sourceID string, maxHops int, kinds []string) []*TraversalResult {
	source, ok := lookup.Resolve(sourceID)
	if !ok {
		return nil
	}

	var results []*TraversalResult
	visited := map[string]bool{}
	dfsRecursive(lookup, source, "", 0, maxHops, []string{sourceID}, kindFilter(kinds), visited, &results)
	return results
}

func dfsRecursive(
	lookup Lookup,
	current *model.Artifact,
	kind string,
	distance int,
	maxHops int,
	path []string,
	filter func(string) bool,
	visited map[string]bool,
	results *[]*TraversalResult,
) {
	visited[current.ID] = true

	pathCopy := make([]string, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Artifact: current,
		Distance: distance,
		Path:     pathCopy,
		Kind:     kind,
	})

	if distance >= maxHops {
		return
	}

	for _, rel := range current.Relations {
		if !filter(rel.Kind) || visited[rel.ToID] {
			continue
		}
		target, ok := lookup.Resolve(rel.ToID)
		if !ok {
			continue
		}
		dfsRecursive(lookup, target, rel.Kind, distance+1, maxHops, append(path, rel.ToID), filter, visited, results)
	}
}

// Neighbors returns the resolvable direct targets of id, once each, in relation order.
func Neighbors(lookup Lookup, id string, kinds ...string) []*model.Artifact {
	results := BFS(lookup, id, 1, kinds)
	if len(results) == 0 {
		return nil
	}

	neighbors := make([]*model.Artifact, 0, len(results)-1)
	for _, r := range results[1:] {
		neighbors = append(neighbors, r.Artifact)
	}
	return neighbors
}

// Backlinks lists the project relations pointing at id.
func Backlinks(snap *Snapshot, id string) []Backlink {
	var links []Backlink
	for _, a := range snap.Artifacts() {
		for i, rel := range a.Relations {
			if rel.ToID == id {
				links = append(links, Backlink{From: a, Index: i, Relation: rel})
			}
		}
	}
	return links
}

func kindFilter(kinds []string) func(string) bool {
	if len(kinds) == 0 {
		return func(string) bool { return true }
	}
	allowed := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowed[model.NormalizeRelationKind(k)] = true
	}
	return func(kind string) bool {
		return allowed[model.NormalizeRelationKind(kind)]
	}
}
