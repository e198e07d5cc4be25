package model

import "strings"

// GitHubConfig holds the credentials and target repository used to sync the
// portfolio with GitHub. All three fields are required.
type GitHubConfig struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// Valid reports whether every field is non-empty. Whitespace-only values
// count as empty.
func (c GitHubConfig) Valid() bool {
	return strings.TrimSpace(c.Token) != "" &&
		strings.TrimSpace(c.Owner) != "" &&
		strings.TrimSpace(c.Repo) != ""
}

// FullName returns "owner/repo".
func (c GitHubConfig) FullName() string {
	return c.Owner + "/" + c.Repo
}

// AdminConfig holds the one-way hash of the admin PIN.
type AdminConfig struct {
	PinHash string `json:"pinHash"`
}

// DefaultPin is the fallback PIN whose hash seeds AdminConfig until the
// persisted entry is edited.
const DefaultPin = "1234"
