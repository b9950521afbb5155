package engine

import "strings"

// NormalizeExclusions turns a comma-separated list of branch names into a set.
// Names are trimmed; empty pieces and duplicates collapse away.
func NormalizeExclusions(raw string) BranchSet {
	out := BranchSet{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out.Add(name)
	}
	return out
}
