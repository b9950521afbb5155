package models

// PullRequest carries the refs a pull request points at.
//
// Base and Head are bare branch names (no refs/heads/ prefix). Head may name a
// branch in a fork; such names still count as exempt when they collide with a
// local branch name.
type PullRequest struct {
	Number int    `json:"number"`
	Base   string `json:"base"`
	Head   string `json:"head"`
}
