package core

import (
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

const bodySnippetLimit = 512

// validateResponse checks the response for valid HTTP status codes (specifically for 2xx codes).
// It returns an ApiError if the status code is not a valid 2xx code or if the response is nil.
func validateResponse(response *http.Response) error {
	requestURL := "<unknown URL>"
	method := "<unknown method>"
	if response == nil {
		return &ApiError{
			Method:     method,
			URL:        requestURL,
			StatusCode: 0,
			Body:       "server unreachable: verify the host is correct and the network is accessible",
		}
	}
	if response.StatusCode >= 200 && response.StatusCode <= 299 {
		return nil
	}
	if response.Request != nil {
		if response.Request.URL != nil {
			requestURL = response.Request.URL.String()
		}
		method = response.Request.Method
	}
	return &ApiError{
		Method:     method,
		URL:        requestURL,
		StatusCode: response.StatusCode,
		Body:       getResponseBodyAsStr(response),
	}
}

// BuildUrl builds a full API URL from a path and a raw query string.
// NOTE: Path is not a full url. Scheme/host/port are taken from the session
// config; path represents a sub-resource under /api.
func BuildUrl(s RESTSession, path, query string) (string, error) {
	config := s.GetConfig()
	joined, err := urlpkg.JoinPath("api", strings.Trim(path, "/"))
	if err != nil {
		return "", err
	}
	url := urlpkg.URL{
		Scheme: "https",
		Host:   fmt.Sprintf("%s:%v", config.Host, config.Port),
		Path:   joined,
	}
	if query != "" {
		url.RawQuery = query
	}
	return url.String(), nil
}

// JoinHref appends an operation suffix to an entity resource href.
// Hrefs come back from the API as absolute URLs, with or without a trailing
// slash.
func JoinHref(href, suffix string) string {
	return strings.TrimRight(href, "/") + "/" + strings.TrimLeft(suffix, "/")
}

// BodySnippet truncates a response body for inclusion in error messages.
func BodySnippet(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > bodySnippetLimit {
		return trimmed[:bodySnippetLimit] + "..."
	}
	return trimmed
}

// getResponseBodyAsStr reads and returns the HTTP response body as a string.
// If the response is nil or an error occurs during reading, it returns an empty string.
//
// Note: This function consumes the response body.
func getResponseBodyAsStr(r *http.Response) string {
	if r == nil {
		return ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	return BodySnippet(body)
}
