package elevenlabs

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure. It is a closed set: every error
// returned by the client carries exactly one Kind, and the server's error
// translation switches over all of them.
type Kind int

const (
	// KindAPIKeyMissing covers a missing credential as well as one the
	// provider rejected (HTTP 401). Both are operator configuration
	// faults, not caller mistakes.
	KindAPIKeyMissing Kind = iota

	// KindInvalidParameter marks a caller-supplied value rejected before
	// or by the provider.
	KindInvalidParameter

	// KindRateLimited marks HTTP 429 from the provider.
	KindRateLimited

	// KindPermissionDenied marks HTTP 403: the key lacks permissions.
	KindPermissionDenied

	// KindGenerationFailed marks a request the provider could not turn
	// into audio (HTTP 400 or 5xx).
	KindGenerationFailed

	// KindProviderAPI marks any other provider-side failure, including
	// transport errors before a status code was received.
	KindProviderAPI

	// KindUnexpected is the catch-all for unclassified failures.
	KindUnexpected
)

var kindNames = map[Kind]string{
	KindAPIKeyMissing:    "api_key",
	KindInvalidParameter: "invalid_parameter",
	KindRateLimited:      "rate_limited",
	KindPermissionDenied: "permission_denied",
	KindGenerationFailed: "generation_failed",
	KindProviderAPI:      "provider_api",
	KindUnexpected:       "unexpected",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unexpected"
}

// Error is the only error type this package returns.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("(status %d) %s", e.StatusCode, e.Message)
	}
	return e.Message
}

func newError(kind Kind, status int, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: status,
	}
}

// KindOf extracts the failure kind from err. Errors that did not come
// from this package are KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
