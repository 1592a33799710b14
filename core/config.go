package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"
)

// ConfirmMode controls how destructive operations (remove, revert) obtain
// confirmation before any request leaves the client.
type ConfirmMode int

const (
	// ConfirmRequired consults VCDConfig.ConfirmFn for every destructive
	// operation. If no ConfirmFn is installed the operation fails with
	// NotConfirmedError instead of guessing.
	ConfirmRequired ConfirmMode = iota
	// ConfirmAutoApprove proceeds without asking.
	ConfirmAutoApprove
	// ConfirmAlwaysDecline never proceeds. Declined operations are a no-op,
	// not an error.
	ConfirmAlwaysDecline
)

// VCDConfig represents the configuration required to create a vCloud session.
type VCDConfig struct {
	Host           string         // The hostname or IP address of the vCloud Director endpoint.
	Port           uint64         // The port to connect to on the endpoint.
	Org            string         // Organization used for login (credentials are sent as user@org).
	Username       string         // The username for authentication (used with Password).
	Password       string         // The password for authentication (used with Username).
	Token          string         // Optional pre-issued session token (alternative to Username/Password).
	SslVerify      bool           // Whether to verify SSL certificates.
	Timeout        *time.Duration // HTTP client timeout. If nil, a default is applied by validators.
	MaxConnections int            // Maximum number of concurrent HTTP connections.
	UserAgent      string         // Optional custom User-Agent header. If empty, a default is applied.
	ApiVersion     string         // API version pinned into the versioned Accept header.
	Confirm        ConfirmMode    // Confirmation policy for destructive operations.

	// ConfirmFn is consulted by destructive operations when Confirm is
	// ConfirmRequired. It receives the action suffix (e.g.
	// "action/removeAllSnapshots") and the entity display name, and returns
	// whether the operation may proceed.
	ConfirmFn func(action, entity string) bool

	// Context is an optional external context for controlling HTTP request lifecycle.
	// When provided, it will be used as the parent context for all HTTP requests made by the client.
	Context context.Context

	// BeforeRequestFn is an optional function hook executed before an API request is sent.
	// It allows for request inspection, mutation, or logging.
	//
	// Parameters:
	//   - ctx: The request context for managing deadlines and cancellations.
	//   - req: Request object
	//   - verb: The HTTP method (e.g., GET, POST).
	//   - url: The target URL.
	//   - body: The request body reader, typically containing an XML payload.
	//
	// Return:
	//   - error: Any error returned will abort the request.
	BeforeRequestFn func(ctx context.Context, req *http.Request, verb, url string, body io.Reader) error

	// AfterRequestFn is an optional function hook executed after receiving an API response.
	// It can be used for post-processing or logging of the raw response body.
	//
	// Parameters:
	//   - ctx: The request context for managing deadlines and cancellations.
	//   - statusCode: The HTTP status code of the response.
	//   - body: The full response body.
	//
	// Returns:
	//   - An error, if processing the response fails.
	AfterRequestFn func(ctx context.Context, statusCode int, body []byte) error
}

// VCDConfigFunc defines a function that can modify or validate a VCDConfig.
type VCDConfigFunc func(*VCDConfig) error

// Validate applies the given VCDConfigFunc validators to the config.
// Panics if any validator returns an error.
func (config *VCDConfig) Validate(validators ...VCDConfigFunc) {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			panic(err)
		}
	}
}

// WithTimeout returns a VCDConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) VCDConfigFunc {
	return func(config *VCDConfig) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a VCDConfigFunc that sets the maximum number of connections
// if not explicitly provided.
func WithMaxConnections(maxConnections int) VCDConfigFunc {
	return func(config *VCDConfig) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithHost validates that the Host field is not empty.
// Panics if Host is an empty string.
func WithHost(config *VCDConfig) error {
	if config.Host == "" {
		panic("host cannot be empty string")
	}
	return nil
}

// WithPort returns a VCDConfigFunc that sets a default port if none is provided.
func WithPort(defaultPort uint64) VCDConfigFunc {
	return func(config *VCDConfig) error {
		if config.Port == 0 {
			config.Port = defaultPort
		}
		return nil
	}
}

// WithAuth validates that either a username/password combination or a session
// token is provided for authentication. Returns an error if neither is set.
func WithAuth(config *VCDConfig) error {
	hasUserPass := config.Username != "" && config.Password != ""
	hasToken := config.Token != ""
	if !hasUserPass && !hasToken {
		return errors.New("either username/password or session token must be provided")
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
// This helps identify the client in HTTP requests.
func WithUserAgent(config *VCDConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("go-vcd-client-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithApiVersion sets a default API version.
func WithApiVersion(defaultVer string) VCDConfigFunc {
	return func(config *VCDConfig) error {
		if config.ApiVersion == "" {
			config.ApiVersion = defaultVer
		}
		return nil
	}
}
