package models

import "time"

// Branch is a point-in-time snapshot of a remote branch.
//
// LastCommit is the committer date of the branch head, always in UTC.
type Branch struct {
	Name       string    `json:"name"`
	Protected  bool      `json:"protected"`
	LastCommit time.Time `json:"last_commit"`
}

// BranchNames returns the branch names in listing order.
func BranchNames(branches []Branch) []string {
	out := make([]string, 0, len(branches))
	for _, b := range branches {
		out = append(out, b.Name)
	}
	return out
}
