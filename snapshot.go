package vcd_client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/creasty/defaults"

	"github.com/vcd-tools/go-vcd-client/core"
)

// Path suffixes appended to an entity href for each snapshot operation.
const (
	snapshotSectionSuffix = "snapshotSection"
	createSnapshotSuffix  = "action/createSnapshot"
	removeAllSuffix       = "action/removeAllSnapshots"
	revertSuffix          = "action/revertToCurrentSnapshot"
)

const vcloudXmlns = "http://www.vmware.com/vcloud/v1.5"

// The API ignores user-supplied snapshot names, so the create body always
// carries this placeholder.
const snapshotPlaceholderName = "Snapshot"

// EntityHandle is a previously resolved reference to a VM or vApp: a display
// name plus the absolute resource href the API returned for it. Handles are
// owned by the caller and never mutated by operations.
type EntityHandle struct {
	Name string
	Href string
}

// CreateSnapshotOptions controls what state a new snapshot captures.
// Quiesce distinguishes "unset" from an explicit false: when nil it defaults
// to true.
type CreateSnapshotOptions struct {
	CaptureMemory bool  `default:"false"`
	Quiesce       *bool `default:"true"`
}

// SnapshotRecord is the normalized outcome of a snapshot query. It is built
// fresh from each response and never persisted; snapshots have no stable
// name or ID in the underlying API, so the record carries none.
type SnapshotRecord struct {
	EntityName string
	SizeBytes  int64
	Created    string
	// RawSection retains the whole snapshot-section subtree for callers that
	// need attributes the normalized record drops.
	RawSection string
}

// Record flattens the snapshot record for tabular rendering.
func (r *SnapshotRecord) Record() Record {
	return Record{
		"entity":  r.EntityName,
		"size":    r.SizeBytes,
		"created": r.Created,
	}
}

// EntityEnumerator lists the entities targeted by a fan-out query.
type EntityEnumerator interface {
	ListEntitiesWithContext(ctx context.Context) ([]EntityHandle, error)
}

// Snapshot exposes the snapshot lifecycle of a single VM or vApp: query,
// create, remove-all and revert. The remote API keeps at most one snapshot
// per entity; creating a new one implicitly replaces any existing snapshot.
type Snapshot struct {
	*VcdResource
}

type createSnapshotParams struct {
	XMLName xml.Name `xml:"CreateSnapshotParams"`
	Xmlns   string   `xml:"xmlns,attr"`
	Name    string   `xml:"name,attr"`
	Memory  string   `xml:"memory,attr"`
	Quiesce string   `xml:"quiesce,attr"`
}

//  ######################################################
//              REQUEST BUILDERS (no I/O)
//  ######################################################

func (s *Snapshot) buildQueryRequest(entity EntityHandle) *core.RequestDescriptor {
	return &core.RequestDescriptor{
		Method: http.MethodGet,
		URL:    core.JoinHref(entity.Href, snapshotSectionSuffix),
	}
}

func (s *Snapshot) buildActionRequest(entity EntityHandle, suffix string) *core.RequestDescriptor {
	return &core.RequestDescriptor{
		Method: http.MethodPost,
		URL:    core.JoinHref(entity.Href, suffix),
	}
}

func (s *Snapshot) buildCreateRequest(entity EntityHandle, opts CreateSnapshotOptions) (*core.RequestDescriptor, error) {
	if err := defaults.Set(&opts); err != nil {
		return nil, err
	}
	params := createSnapshotParams{
		Xmlns:   vcloudXmlns,
		Name:    snapshotPlaceholderName,
		Memory:  strconv.FormatBool(opts.CaptureMemory),
		Quiesce: strconv.FormatBool(*opts.Quiesce),
	}
	body, err := xml.Marshal(params)
	if err != nil {
		return nil, err
	}
	headers := make(http.Header)
	headers.Set(core.HeaderContentType, core.ContentTypeCreateSnapshotParams)
	headers.Set(core.HeaderContentLength, strconv.Itoa(len(body)))
	return &core.RequestDescriptor{
		Method:  http.MethodPost,
		URL:     core.JoinHref(entity.Href, createSnapshotSuffix),
		Headers: headers,
		Body:    body,
	}, nil
}

//  ######################################################
//              RESPONSE PARSER
//  ######################################################

// parseSnapshotSection decodes a SnapshotSection document. A section without
// a Snapshot child means the entity has no snapshot: the result is nil with
// a nil error, not a failure.
func parseSnapshotSection(entityName, url string, body []byte) (*SnapshotRecord, error) {
	doc, err := parseXMLResponse(url, body)
	if err != nil {
		return nil, err
	}
	section := xmlquery.FindOne(doc, "//SnapshotSection")
	if section == nil {
		return nil, &core.MalformedResponseError{
			URL:     url,
			Reason:  "document has no SnapshotSection element",
			Snippet: core.BodySnippet(body),
		}
	}
	snap := section.SelectElement("Snapshot")
	if snap == nil {
		return nil, nil
	}
	sizeAttr := snap.SelectAttr("size")
	size, convErr := strconv.ParseInt(sizeAttr, 10, 64)
	if convErr != nil {
		return nil, &core.MalformedResponseError{
			URL:     url,
			Reason:  fmt.Sprintf("snapshot size attribute %q is not an integer", sizeAttr),
			Snippet: core.BodySnippet(body),
		}
	}
	created := snap.SelectAttr("created")
	if created == "" {
		return nil, &core.MalformedResponseError{
			URL:     url,
			Reason:  "snapshot element has no created attribute",
			Snippet: core.BodySnippet(body),
		}
	}
	return &SnapshotRecord{
		EntityName: entityName,
		SizeBytes:  size,
		Created:    created,
		RawSection: section.OutputXML(true),
	}, nil
}

//  ######################################################
//              OPERATIONS
//  ######################################################

// GetWithContext fetches the snapshot section of the given entity. A nil
// record with a nil error means the entity currently has no snapshot.
func (s *Snapshot) GetWithContext(ctx context.Context, entity EntityHandle) (*SnapshotRecord, error) {
	desc := s.buildQueryRequest(entity)
	body, err := s.Session().Do(ctx, desc)
	if err != nil {
		return nil, err
	}
	return parseSnapshotSection(entity.Name, desc.URL, body)
}

func (s *Snapshot) Get(entity EntityHandle) (*SnapshotRecord, error) {
	return s.GetWithContext(s.rest.ctx, entity)
}

// GetAllWithContext queries every entity yielded by the enumerator and
// returns one record per entity that has a snapshot, in enumeration order.
// Entities without a snapshot are omitted, not reported as empty records.
// A nil enumerator falls back to the VMs visible to the session.
func (s *Snapshot) GetAllWithContext(ctx context.Context, enum EntityEnumerator) ([]*SnapshotRecord, error) {
	if enum == nil {
		enum = s.rest.Vms
	}
	entities, err := enum.ListEntitiesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	var records []*SnapshotRecord
	for _, entity := range entities {
		record, err := s.GetWithContext(ctx, entity)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Snapshot) GetAll(enum EntityEnumerator) ([]*SnapshotRecord, error) {
	return s.GetAllWithContext(s.rest.ctx, enum)
}

// CreateWithContext takes a new snapshot of the entity. Any existing
// snapshot is replaced by the remote API; the placeholder name is fixed
// because the API does not support naming.
//
// The returned record comes from a follow-up query rather than from the
// create task, so it can lag the remote operation if the task has not
// finished yet. Task completion is deliberately not awaited.
func (s *Snapshot) CreateWithContext(ctx context.Context, entity EntityHandle, opts CreateSnapshotOptions) (*SnapshotRecord, error) {
	desc, err := s.buildCreateRequest(entity, opts)
	if err != nil {
		return nil, err
	}
	body, err := s.Session().Do(ctx, desc)
	if err != nil {
		return nil, err
	}
	// The response carries a Task document. It is not inspected beyond
	// well-formedness.
	if _, err = parseXMLResponse(desc.URL, body); err != nil {
		return nil, err
	}
	return s.GetWithContext(ctx, entity)
}

func (s *Snapshot) Create(entity EntityHandle, opts CreateSnapshotOptions) (*SnapshotRecord, error) {
	return s.CreateWithContext(s.rest.ctx, entity, opts)
}

// RemoveAllWithContext removes the (at most one) snapshot of the entity.
// The operation is destructive and runs behind the confirmation gate: when
// declined it performs no I/O and returns false with a nil error.
func (s *Snapshot) RemoveAllWithContext(ctx context.Context, entity EntityHandle) (bool, error) {
	return s.destructiveAction(ctx, entity, removeAllSuffix)
}

func (s *Snapshot) RemoveAll(entity EntityHandle) (bool, error) {
	return s.RemoveAllWithContext(s.rest.ctx, entity)
}

// RevertWithContext reverts the entity to its current snapshot. Like
// RemoveAll it is gated on confirmation and reports whether the request was
// actually sent.
func (s *Snapshot) RevertWithContext(ctx context.Context, entity EntityHandle) (bool, error) {
	return s.destructiveAction(ctx, entity, revertSuffix)
}

func (s *Snapshot) Revert(entity EntityHandle) (bool, error) {
	return s.RevertWithContext(s.rest.ctx, entity)
}

func (s *Snapshot) destructiveAction(ctx context.Context, entity EntityHandle, suffix string) (bool, error) {
	ok, err := s.confirmed(suffix, entity)
	if err != nil || !ok {
		return false, err
	}
	desc := s.buildActionRequest(entity, suffix)
	if _, err = s.Session().Do(ctx, desc); err != nil {
		return false, err
	}
	return true, nil
}

// confirmed resolves the confirmation policy before any network effect.
func (s *Snapshot) confirmed(action string, entity EntityHandle) (bool, error) {
	config := s.Session().GetConfig()
	switch config.Confirm {
	case core.ConfirmAutoApprove:
		return true, nil
	case core.ConfirmAlwaysDecline:
		return false, nil
	}
	if config.ConfirmFn == nil {
		return false, &core.NotConfirmedError{Action: action, Entity: entity.Name}
	}
	return config.ConfirmFn(action, entity.Name), nil
}
