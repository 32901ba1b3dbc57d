package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Deck errors
	CodeDeckInvalidRankCap    Code = "DECK_INVALID_RANK_CAP"
	CodeDeckRankChangePending Code = "DECK_RANK_CHANGE_PENDING"
	CodeDeckNoPendingChange   Code = "DECK_NO_PENDING_RANK_CHANGE"
	CodeDeckSnapshotCorrupt   Code = "DECK_SNAPSHOT_CORRUPT"
	CodeDeckNameEmpty         Code = "DECK_NAME_EMPTY"

	// Filter errors
	CodeFilterInvalid Code = "FILTER_INVALID"

	// Share grant errors
	CodeShareGrantInvalid  Code = "SHARE_GRANT_INVALID"
	CodeShareGrantExpired  Code = "SHARE_GRANT_EXPIRED"
	CodeShareGrantMismatch Code = "SHARE_GRANT_MISMATCH"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
	CodeStorage  Code = "STORAGE_FAILURE"
)
