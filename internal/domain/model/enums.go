package model

// StoreKey names an entry in the local key-value store.
type StoreKey string

const (
	StoreKeyPortfolioData StoreKey = "portfolioData"
	StoreKeyGitHubConfig  StoreKey = "githubConfig"
	StoreKeyAdminConfig   StoreKey = "adminConfig"
)

// SyncOperation names a remote synchronization call.
type SyncOperation string

const (
	SyncOperationFetch SyncOperation = "fetch"
	SyncOperationPush  SyncOperation = "push"
)
