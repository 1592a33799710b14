package vcd_client

import (
	"github.com/vcd-tools/go-vcd-client/core"
)

// VcdResource provides the shared plumbing for the operation structs hanging
// off a VCDRest.
type VcdResource struct {
	resourceType string
	rest         *VCDRest
}

// Session returns the VCDSession associated with the resource.
func (e *VcdResource) Session() core.RESTSession {
	return e.rest.Session
}

func (e *VcdResource) GetResourceType() string {
	return e.resourceType
}
