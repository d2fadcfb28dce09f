package rxnorm

import "errors"

var (
	// ErrEmptyQuery indicates a blank search term; no request is made.
	ErrEmptyQuery = errors.New("empty medication query")

	// ErrUnavailable indicates the RxNav service is unreachable.
	ErrUnavailable = errors.New("rxnav service unavailable")

	// ErrTimeout indicates a request exceeded the configured timeout.
	ErrTimeout = errors.New("rxnav request timed out")

	// ErrBadStatus indicates RxNav answered with a non-200 status.
	ErrBadStatus = errors.New("rxnav returned an error status")

	// ErrDecode indicates the response body could not be decoded.
	ErrDecode = errors.New("invalid rxnav response")

	// ErrNoResults indicates the lookup succeeded but matched nothing.
	ErrNoResults = errors.New("no matching medications")
)

// UserMessage maps a lookup error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyQuery):
		return "Please enter a medication name."
	case errors.Is(err, ErrNoResults):
		return "No medications found. Try a different spelling."
	case errors.Is(err, ErrTimeout):
		return "The medication search timed out. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "Unable to reach the medication database. Check your connection and try again."
	case errors.Is(err, ErrBadStatus):
		return "The medication database returned an error. Please try again later."
	case errors.Is(err, ErrDecode):
		return "Received an unexpected response from the medication database."
	default:
		return "Something went wrong. Please try again."
	}
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadStatus):
		return "BAD_STATUS"
	case errors.Is(err, ErrDecode):
		return "DECODE"
	case errors.Is(err, ErrNoResults):
		return "NO_RESULTS"
	default:
		return "UNKNOWN"
	}
}
