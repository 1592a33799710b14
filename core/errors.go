package core

import (
	"errors"
	"fmt"
)

// ApiError represents a transport-level failure: an unreachable endpoint or
// a non-2xx response from an API request.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d"+
			" — response body: %s", e.Method, e.URL, e.StatusCode, e.Body,
	)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	if !IsApiError(err) {
		return err
	}
	apiErr := err.(*ApiError)
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	if !IsApiError(err) {
		return false
	}
	apiErr := err.(*ApiError)
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// MalformedResponseError indicates the endpoint answered with a body that
// could not be decoded as the expected XML document.
type MalformedResponseError struct {
	URL     string
	Reason  string
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("malformed response from %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("malformed response from %s: %s (body: %s)", e.URL, e.Reason, e.Snippet)
}

func IsMalformedResponseErr(err error) bool {
	var malformedErr *MalformedResponseError
	return errors.As(err, &malformedErr)
}

// NotConfirmedError is returned when a destructive operation runs with
// ConfirmRequired but no ConfirmFn is installed on the config. A deliberate
// decline is not an error and does not produce one.
type NotConfirmedError struct {
	Action string
	Entity string
}

func (e *NotConfirmedError) Error() string {
	return fmt.Sprintf("action %q on %q requires confirmation and no confirmation function is installed", e.Action, e.Entity)
}

func IsNotConfirmedErr(err error) bool {
	var notConfirmedErr *NotConfirmedError
	return errors.As(err, &notConfirmedErr)
}

// NotFoundError indicates an entity lookup matched nothing.
type NotFoundError struct {
	Resource string
	Query    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource '%s' not found for query '%s'", e.Resource, e.Query)
}

func IsNotFoundErr(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}
