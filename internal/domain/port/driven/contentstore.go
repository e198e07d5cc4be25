package driven

import "context"

// RemoteFile is a file read from a repository. Content is already decoded
// from the transport encoding.
type RemoteFile struct {
	Content []byte
	SHA     string // Blob SHA; the revision token required to update the file.
}

// FileWrite is the input to ContentStore.PutFile.
type FileWrite struct {
	Content []byte // Raw file content; the adapter applies the transport encoding.
	Message string // Commit message.
	SHA     string // Revision token of the file being replaced; empty for a first write.
}

// ContentStore defines the driven port for reading and writing single files
// through a hosted repository contents API.
type ContentStore interface {
	// GetFile returns the file at path. Returns (nil, nil) if it does not exist.
	GetFile(ctx context.Context, owner, repo, path string) (*RemoteFile, error)

	// PutFile creates or updates the file at path and returns the new blob SHA.
	// Returns an error wrapping model.ErrStaleRevision when the remote rejects
	// the write because req.SHA no longer matches the live file.
	PutFile(ctx context.Context, owner, repo, path string, req FileWrite) (string, error)
}

// SeedSource defines the driven port for the bundled first-run dataset.
type SeedSource interface {
	// FetchSeed returns the raw seed document. Returns (nil, nil) when no
	// seed is available.
	FetchSeed(ctx context.Context) ([]byte, error)
}
