package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

// RequestDescriptor is a fully specified outgoing request: verb, absolute
// URL, extra headers and an optional body. Builders produce descriptors
// without performing any I/O, so tests can inspect them offline.
type RequestDescriptor struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// RESTSession performs a single synchronous HTTP exchange per call. One
// request is sent, one response is read to completion and the connection is
// released on every exit path. Requests are never retried.
type RESTSession interface {
	Do(ctx context.Context, desc *RequestDescriptor) ([]byte, error)
	GetConfig() *VCDConfig
	GetAuthenticator() Authenticator
}

type VCDSession struct {
	config *VCDConfig
	client *http.Client
	auth   Authenticator
}

// NewVCDSession builds a session from the config and authorizes it once.
// With username/password credentials this performs the login exchange; with
// a pre-issued token no network traffic happens here.
func NewVCDSession(config *VCDConfig) (*VCDSession, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	transport.IdleConnTimeout = *config.Timeout
	client := &http.Client{Transport: transport, Timeout: *config.Timeout}
	authenticator := createAuthenticator(config)
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := authenticator.authorize(ctx); err != nil {
		return nil, err
	}
	session := &VCDSession{
		config: config,
		client: client,
		auth:   authenticator,
	}
	return session, nil
}

// Do performs the described request and returns the full response body.
// Transport failures and non-2xx statuses surface as ApiError; no body is
// returned alongside an error.
func (s *VCDSession) Do(ctx context.Context, desc *RequestDescriptor) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	finalHeaders := consolidateHeaders(s, desc.Headers)

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, bytes.NewReader(desc.Body))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(desc.Body))

	setupHeaders(s, req, finalHeaders)

	// before request hook
	if fn := s.config.BeforeRequestFn; fn != nil {
		if err = fn(ctx, req, desc.Method, desc.URL, bytes.NewReader(desc.Body)); err != nil {
			return nil, err
		}
	}

	response, responseErr := s.client.Do(req)
	if responseErr != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %v", desc.Method, desc.URL, responseErr)
	}
	defer response.Body.Close()

	if err = validateResponse(response); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	// after request hook
	if fn := s.config.AfterRequestFn; fn != nil {
		if err = fn(ctx, response.StatusCode, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func (s *VCDSession) GetConfig() *VCDConfig {
	return s.config
}

func (s *VCDSession) GetAuthenticator() Authenticator {
	return s.auth
}

// consolidateHeaders merges descriptor headers with session defaults.
// Custom headers win; Accept and User-Agent are filled in when absent.
func consolidateHeaders(s RESTSession, customHeaders http.Header) http.Header {
	finalHeaders := make(http.Header)

	for key, values := range customHeaders {
		for _, value := range values {
			finalHeaders.Add(key, value)
		}
	}

	config := s.GetConfig()
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, AcceptFor(config.ApiVersion))
	}
	if finalHeaders.Get(HeaderUserAgent) == "" {
		finalHeaders.Set(HeaderUserAgent, config.UserAgent)
	}

	return finalHeaders
}

func setupHeaders(s RESTSession, r *http.Request, headers http.Header) {
	// Always set authentication headers
	s.GetAuthenticator().setAuthHeader(&r.Header)

	for key, values := range headers {
		for _, value := range values {
			r.Header.Add(key, value)
		}
	}
}
