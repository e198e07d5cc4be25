package model

import "errors"

// Sentinel errors shared by the application services and adapters. Callers
// match them with errors.Is; each is usually wrapped with operation context.
var (
	// ErrConfigInvalid indicates a GitHub config with a missing field.
	ErrConfigInvalid = errors.New("github config invalid: token, owner and repo are required")

	// ErrNotConfigured indicates a sync was requested before a GitHub config was saved.
	ErrNotConfigured = errors.New("github not configured")

	// ErrDecode indicates corrupt ciphertext or malformed JSON in local storage.
	ErrDecode = errors.New("decode failure")

	// ErrNetwork indicates a transport, auth or payload failure talking to GitHub.
	ErrNetwork = errors.New("network failure")

	// ErrStaleRevision indicates GitHub rejected a write because the blob SHA
	// supplied no longer matches the live one.
	ErrStaleRevision = errors.New("remote revision is stale")

	// ErrSyncInProgress indicates a fetch or push is already outstanding.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrImportParse indicates the import payload is not valid JSON.
	ErrImportParse = errors.New("import payload is not valid JSON")

	// ErrInvalidPortfolio indicates JSON that does not have the PortfolioData shape.
	ErrInvalidPortfolio = errors.New("invalid portfolio data")

	// ErrNotReady indicates the portfolio manager has not finished loading.
	ErrNotReady = errors.New("portfolio data not loaded")
)
