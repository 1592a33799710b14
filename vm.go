package vcd_client

import (
	"context"
	"net/http"

	"github.com/antchfx/xmlquery"

	"github.com/vcd-tools/go-vcd-client/core"
)

// Vm resolves VM entity handles through the vCloud query service. It is the
// default EntityEnumerator behind fan-out snapshot queries; callers can
// inject their own enumerator instead.
type Vm struct {
	*VcdResource
}

// ListEntitiesWithContext lists every VM visible to the session, in the
// order the query service returns them.
func (v *Vm) ListEntitiesWithContext(ctx context.Context) ([]EntityHandle, error) {
	url, err := core.BuildUrl(v.Session(), "query", "type=vm")
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
	root := xmlquery.FindOne(doc, "//QueryResultRecords")
	if root == nil {
		return nil, &core.MalformedResponseError{
			URL:     url,
			Reason:  "document has no QueryResultRecords element",
			Snippet: core.BodySnippet(body),
		}
	}
	var entities []EntityHandle
	for _, node := range root.SelectElements("VMRecord") {
		entities = append(entities, EntityHandle{
			Name: node.SelectAttr("name"),
			Href: node.SelectAttr("href"),
		})
	}
	return entities, nil
}

func (v *Vm) ListEntities() ([]EntityHandle, error) {
	return v.ListEntitiesWithContext(v.rest.ctx)
}

// GetByNameWithContext resolves a single VM by its display name.
func (v *Vm) GetByNameWithContext(ctx context.Context, name string) (EntityHandle, error) {
	entities, err := v.ListEntitiesWithContext(ctx)
	if err != nil {
		return EntityHandle{}, err
	}
	for _, entity := range entities {
		if entity.Name == name {
			return entity, nil
		}
	}
	return EntityHandle{}, &core.NotFoundError{Resource: "Vm", Query: name}
}

func (v *Vm) GetByName(name string) (EntityHandle, error) {
	return v.GetByNameWithContext(v.rest.ctx, name)
}
