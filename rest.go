package vcd_client

import (
	"context"
	"time"

	version "github.com/hashicorp/go-version"

	"github.com/vcd-tools/go-vcd-client/core"
)

type VCDRest struct {
	ctx     context.Context
	Session core.RESTSession

	Snapshots *Snapshot
	Vms       *Vm
	Versions  *Version

	cachedVersions []*version.Version
}

// NewVCDRest validates the config, opens an authorized session and wires up
// the operation structs. Config defaults follow the vCloud 5.1 endpoint
// conventions.
func NewVCDRest(config *core.VCDConfig) (*VCDRest, error) {
	config.Validate(
		core.WithAuth,
		core.WithHost,
		core.WithUserAgent,
		core.WithApiVersion("5.1"),
		core.WithTimeout(time.Second*30),
		core.WithMaxConnections(10),
		core.WithPort(443),
	)
	session, err := core.NewVCDSession(config)
	if err != nil {
		return nil, err
	}
	rest := &VCDRest{Session: session}

	// Fill in each resource, pointing back to the same rest
	rest.Snapshots = &Snapshot{&VcdResource{resourceType: "Snapshot", rest: rest}}
	rest.Vms = &Vm{&VcdResource{resourceType: "Vm", rest: rest}}
	rest.Versions = &Version{&VcdResource{resourceType: "Version", rest: rest}}

	return rest, nil
}

// BuildUrl Helper method to build a full URL from a path and query under /api.
func (rest *VCDRest) BuildUrl(path, query string) (string, error) {
	return core.BuildUrl(rest.Session, path, query)
}

func (rest *VCDRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}
