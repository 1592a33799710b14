package vcd_client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	version "github.com/hashicorp/go-version"

	"github.com/vcd-tools/go-vcd-client/core"
)

// Version negotiates the API version against the endpoint's versions
// document.
type Version struct {
	*VcdResource
}

// ListSupportedWithContext fetches the versions the endpoint advertises.
// The result is cached for the lifetime of the rest client.
func (v *Version) ListSupportedWithContext(ctx context.Context) ([]*version.Version, error) {
	if v.rest.cachedVersions != nil {
		return v.rest.cachedVersions, nil
	}
	url, err := core.BuildUrl(v.Session(), "versions", "")
	if err != nil {
		return nil, err
	}
	body, err := v.Session().Do(ctx, &core.RequestDescriptor{Method: http.MethodGet, URL: url})
	if err != nil {
		return nil, err
	}
	doc, err := parseXMLResponse(url, body)
	if err != nil {
		return nil, err
	}
	nodes := xmlquery.Find(doc, "//VersionInfo/Version")
	if len(nodes) == 0 {
		return nil, &core.MalformedResponseError{
			URL:     url,
			Reason:  "document has no VersionInfo elements",
			Snippet: core.BodySnippet(body),
		}
	}
	var supported []*version.Version
	for _, node := range nodes {
		ver, parseErr := version.NewVersion(strings.TrimSpace(node.InnerText()))
		if parseErr != nil {
			return nil, &core.MalformedResponseError{
				URL:     url,
				Reason:  fmt.Sprintf("unparsable version %q", node.InnerText()),
				Snippet: core.BodySnippet(body),
			}
		}
		supported = append(supported, ver)
	}
	v.rest.cachedVersions = supported
	return supported, nil
}

func (v *Version) ListSupported() ([]*version.Version, error) {
	return v.ListSupportedWithContext(v.rest.ctx)
}

// VerifyWithContext returns an error when the endpoint does not offer the
// API version the config pins into the Accept header.
func (v *Version) VerifyWithContext(ctx context.Context) error {
	pinned, err := version.NewVersion(v.Session().GetConfig().ApiVersion)
	if err != nil {
		return fmt.Errorf("invalid configured API version %q: %w", v.Session().GetConfig().ApiVersion, err)
	}
	supported, err := v.ListSupportedWithContext(ctx)
	if err != nil {
		return err
	}
	var offered []string
	for _, ver := range supported {
		if ver.Equal(pinned) {
			return nil
		}
		offered = append(offered, ver.Original())
	}
	return fmt.Errorf("API version %s is not offered by the endpoint (supported: %s)", pinned.Original(), strings.Join(offered, ", "))
}

func (v *Version) Verify() error {
	return v.VerifyWithContext(v.rest.ctx)
}
