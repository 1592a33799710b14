package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Authenticator attaches session credentials to outgoing requests.
// Each session owns its authenticator instance; there is no process-wide
// authentication state.
type Authenticator interface {
	authorize(ctx context.Context) error
	setAuthHeader(headers *http.Header)
}

// createAuthenticator creates a new Authenticator instance based on the provided VCDConfig.
// Priority: pre-issued session token > username/password login.
func createAuthenticator(config *VCDConfig) Authenticator {
	if config.Token != "" {
		return &TokenAuthenticator{Token: config.Token}
	}
	if config.Username != "" && config.Password != "" {
		return &LoginAuthenticator{
			Host:       config.Host,
			Port:       config.Port,
			Org:        config.Org,
			Username:   config.Username,
			Password:   config.Password,
			SslVerify:  config.SslVerify,
			ApiVersion: config.ApiVersion,
		}
	}
	panic("createAuthenticator: neither username/password nor session token are provided")
}

// TokenAuthenticator attaches an externally supplied session token.
type TokenAuthenticator struct {
	Token string
}

func (auth *TokenAuthenticator) authorize(_ context.Context) error {
	// No-op for TokenAuthenticator
	return nil
}

func (auth *TokenAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderVcloudToken, auth.Token)
}

// LoginAuthenticator obtains a session token by posting basic credentials
// to the sessions endpoint. The token is captured from the
// x-vcloud-authorization response header.
type LoginAuthenticator struct {
	Host       string
	Port       uint64
	Org        string
	Username   string
	Password   string
	SslVerify  bool
	ApiVersion string

	token string
}

func (auth *LoginAuthenticator) login(ctx context.Context, client *http.Client) (*http.Response, error) {
	server := auth.Host + ":" + strconv.FormatUint(auth.Port, 10)
	path := url.URL{
		Scheme: "https",
		Host:   server,
		Path:   "api/sessions",
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path.String(), bytes.NewReader(nil))
	if err != nil {
		return nil, err
	}
	username := auth.Username
	if auth.Org != "" {
		username = auth.Username + "@" + auth.Org
	}
	req.SetBasicAuth(username, auth.Password)
	req.Header.Set(HeaderAccept, AcceptFor(auth.ApiVersion))

	return client.Do(req)
}

func (auth *LoginAuthenticator) authorize(ctx context.Context) error {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !auth.SslVerify},
	}
	client := &http.Client{
		Transport: tr,
		Timeout:   20 * time.Second,
	}
	resp, err := auth.login(ctx, client)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err = validateResponse(resp); err != nil {
		return err
	}
	token := resp.Header.Get(HeaderVcloudToken)
	if token == "" {
		return &MalformedResponseError{
			URL:    resp.Request.URL.String(),
			Reason: "login response is missing the " + HeaderVcloudToken + " header",
		}
	}
	auth.token = token
	return nil
}

func (auth *LoginAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Set(HeaderVcloudToken, auth.token)
}
