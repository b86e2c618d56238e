package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"BACKEND_URL", "DATA_SOURCE", "DEFAULT_PERIOD", "LOG_LEVEL", "CURRENCY_SYMBOL"} {
		t.Setenv(k, "")
	}
	t.Setenv("DASH_CONFIG_PATH", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("LOG_LEVEL", "error")
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFetchMockPrintsKPIs(t *testing.T) {
	setEnv(t, map[string]string{"DATA_SOURCE": "mock"})
	out, err := execute(t, "fetch", "--periodo", "ultimos_7_dias")
	require.NoError(t, err)
	assert.Contains(t, out, "PERÍODO")
	assert.Contains(t, out, "ultimos_7_dias")
	assert.Contains(t, out, "INVESTIMENTO TOTAL")
	assert.Contains(t, out, "R$")
	assert.Contains(t, out, "ROAS")
}

func TestFetchRemoteJSON(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.RawQuery
		w.Write([]byte(`{"ok":true,"data":{"overview":{"leadsHoje":3,"leadsTotal":9}}}`))
	}))
	defer srv.Close()
	setEnv(t, map[string]string{"BACKEND_URL": srv.URL})

	out, err := execute(t, "fetch", "--periodo", "hoje", "--campanha", "Implante", "--json")
	require.NoError(t, err)
	assert.Equal(t, "campanha=Implante&periodo=hoje", <-got)

	var snap map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.EqualValues(t, 3, snap["leadsToday"])
	assert.EqualValues(t, 9, snap["leadsInPeriod"])
}

func TestFetchFailureExitsWithReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"message":"quota exceeded"}`))
	}))
	defer srv.Close()
	setEnv(t, map[string]string{"BACKEND_URL": srv.URL})

	_, err := execute(t, "fetch")
	require.Error(t, err)
	assert.Equal(t, "quota exceeded", err.Error())
}

func TestFetchRejectsBadConfig(t *testing.T) {
	setEnv(t, map[string]string{"DATA_SOURCE": "remote"})
	_, err := execute(t, "fetch")
	assert.ErrorContains(t, err, "BACKEND_URL")
}

func TestFetchConfigFlag(t *testing.T) {
	setEnv(t, nil)
	path := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source: mock\ndefault_period: hoje\nmock_days: 5\n"), 0o600))

	out, err := execute(t, "--config", path, "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "hoje")

	_, err = execute(t, "fetch", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}
