package reminder

import "errors"

var (
	// ErrInvalidOptions means no single trigger shape could be inferred
	// from the request options.
	ErrInvalidOptions = errors.New("invalid schedule options")

	// ErrUnknownCategory means the category is not one of the fixed
	// reminder kinds.
	ErrUnknownCategory = errors.New("unknown reminder category")

	// ErrRegistrationFailed wraps a rejection from the notification
	// center (for example the platform quota). It is surfaced to the
	// caller and never retried here.
	ErrRegistrationFailed = errors.New("registration failed")
)
