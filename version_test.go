package vcd_client

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcd-tools/go-vcd-client/core"
)

const supportedVersionsDocument = `<?xml version="1.0" encoding="UTF-8"?>
<SupportedVersions xmlns="http://www.vmware.com/vcloud/versions">
  <VersionInfo>
    <Version>1.5</Version>
    <LoginUrl>https://vcd.example.com/api/sessions</LoginUrl>
  </VersionInfo>
  <VersionInfo>
    <Version>5.1</Version>
    <LoginUrl>https://vcd.example.com/api/sessions</LoginUrl>
  </VersionInfo>
</SupportedVersions>`

func TestVersionListSupportedCaches(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions", func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, supportedVersionsDocument)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	supported, err := rest.Versions.ListSupported()
	require.NoError(t, err)
	require.Len(t, supported, 2)
	assert.Equal(t, "1.5", supported[0].Original())
	assert.Equal(t, "5.1", supported[1].Original())

	_, err = rest.Versions.ListSupported()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestVersionVerify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, supportedVersionsDocument)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	require.NoError(t, rest.Versions.Verify())
}

func TestVersionVerifyRejectsUnsupported(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<SupportedVersions xmlns="http://www.vmware.com/vcloud/versions">
  <VersionInfo><Version>1.5</Version></VersionInfo>
</SupportedVersions>`)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	err := rest.Versions.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5.1")
	assert.Contains(t, err.Error(), "1.5")
}

func TestVersionVerifyMalformedDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/versions", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<SupportedVersions xmlns="http://www.vmware.com/vcloud/versions"/>`)
	})
	rest, _ := newTestRest(t, mux, core.ConfirmRequired)

	err := rest.Versions.Verify()
	require.Error(t, err)
	assert.True(t, core.IsMalformedResponseErr(err))
}
