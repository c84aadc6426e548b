package errs

// Protocol-level sentinel errors shared by the usecase and handler layers
var (
	// Authorization request errors
	ErrAuthorizationNotFound = New("authorization request not found")
	ErrForbidden             = New("authorization request owned by another user")
	ErrAlreadyTerminal       = New("authorization request already concluded")

	// Initiation errors
	ErrEmptyPayload    = New("nothing to authorize")
	ErrUnauthenticated = New("unauthenticated")

	// Polling errors
	ErrSlowDown     = New("slow down")
	ErrPollRejected = New("poll rejected by authorization backend")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
