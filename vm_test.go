package vcd_client

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcd-tools/go-vcd-client/core"
)

const queryResultRecords = `<?xml version="1.0" encoding="UTF-8"?>
<QueryResultRecords xmlns="http://www.vmware.com/vcloud/v1.5" total="3" pageSize="25" page="1">
  <VMRecord name="db1" href="https://vcd.example.com/api/vApp/vm-1" status="POWERED_ON"/>
  <VMRecord name="web1" href="https://vcd.example.com/api/vApp/vm-2" status="POWERED_OFF"/>
  <VMRecord name="web2" href="https://vcd.example.com/api/vApp/vm-3" status="POWERED_ON"/>
</QueryResultRecords>`

func TestVmListEntities(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, queryResultRecords)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	entities, err := rest.Vms.ListEntities()
	require.NoError(t, err)
	require.Len(t, entities, 3)

	assert.Equal(t, "type=vm", gotQuery)
	// server order is preserved
	assert.Equal(t, "db1", entities[0].Name)
	assert.Equal(t, "web1", entities[1].Name)
	assert.Equal(t, "web2", entities[2].Name)
	assert.Equal(t, "https://vcd.example.com/api/vApp/vm-1", entities[0].Href)
}

func TestVmListEntitiesEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<QueryResultRecords xmlns="http://www.vmware.com/vcloud/v1.5" total="0"/>`)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	entities, err := rest.Vms.ListEntities()
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestVmListEntitiesMalformed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<Error minorErrorCode="BAD_REQUEST"/>`)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	entities, err := rest.Vms.ListEntities()
	require.Error(t, err)
	assert.Nil(t, entities)
	assert.True(t, core.IsMalformedResponseErr(err))
}

func TestVmGetByName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, queryResultRecords)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	t.Run("found", func(t *testing.T) {
		entity, err := rest.Vms.GetByName("web1")
		require.NoError(t, err)
		assert.Equal(t, "https://vcd.example.com/api/vApp/vm-2", entity.Href)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := rest.Vms.GetByName("missing")
		require.Error(t, err)
		assert.True(t, core.IsNotFoundErr(err))
	})
}
