package scan

import (
	"cmp"
	"slices"
)

// Group is a set of files sharing the same header text.
type Group struct {
	Digest string   `json:"digest"`
	Header string   `json:"header"`
	Paths  []string `json:"paths"`
}

// GroupByHeader groups results by header digest. Files without a header are
// left out. Larger groups come first; ties are ordered by digest.
func GroupByHeader(results []Result) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, r := range results {
		if r.Digest == "" {
			continue
		}
		i, ok := index[r.Digest]
		if !ok {
			i = len(groups)
			index[r.Digest] = i
			groups = append(groups, Group{Digest: r.Digest, Header: r.Header})
		}
		groups[i].Paths = append(groups[i].Paths, r.Path)
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(len(b.Paths), len(a.Paths)); c != 0 {
			return c
		}
		return cmp.Compare(a.Digest, b.Digest)
	})
	return groups
}

// Missing returns the paths of readable results without a header.
func Missing(results []Result) []string {
	var paths []string
	for _, r := range results {
		if r.Header == "" && r.Error == "" {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// Failed returns the results whose header could not be read.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Error != "" {
			failed = append(failed, r)
		}
	}
	return failed
}
