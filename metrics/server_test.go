package metrics

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	ScannedRecords.Add(3)
	FlushedBatches.WithLabelValues(BatchFull).Inc()

	srv := httptest.NewServer(NewRouter(Status{Mode: "scan"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status Status
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, "scan", status.Mode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.Nil(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "asbatch_scan_records_total")
	assert.Contains(t, string(body), `asbatch_scan_batches_total{kind="full"}`)
}
