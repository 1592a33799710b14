package core

import "fmt"

// HTTP-related constants for vCloud REST operations
// These constants provide type-safe header names, content types, and auth types

// HTTP Header Names
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
	// HeaderVcloudToken carries the session token on every authenticated request.
	HeaderVcloudToken = "x-vcloud-authorization"
)

// vCloud Content Types
const (
	ContentTypeCreateSnapshotParams = "application/vnd.vmware.vcloud.createSnapshotParams+xml"
	ContentTypeSession              = "application/vnd.vmware.vcloud.session+xml"
	ContentTypeTask                 = "application/vnd.vmware.vcloud.task+xml"
)

// HTTP Authentication Types
const (
	AuthTypeBasic = "Basic"
)

// AcceptFor returns the versioned Accept value the API expects on every
// request, e.g. "application/*+xml;version=5.1".
func AcceptFor(apiVersion string) string {
	return fmt.Sprintf("application/*+xml;version=%s", apiVersion)
}
