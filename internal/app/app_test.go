package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/luccosta/ign-gazebo/internal/config"
	"github.com/luccosta/ign-gazebo/internal/registry"
	"github.com/luccosta/ign-gazebo/internal/resourcepaths"
	"github.com/luccosta/ign-gazebo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loaderFunc adapts a function to config.Loader.
type loaderFunc func(ctx context.Context, paths ...string) (*config.Model, error)

func (f loaderFunc) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	return f(ctx, paths...)
}

// staticLoader returns defaults with highlighting off, modified by mutate.
func staticLoader(mutate func(*config.Model)) config.Loader {
	return loaderFunc(func(context.Context, ...string) (*config.Model, error) {
		cfg := config.Default()
		cfg.Highlight.Enabled = false
		cfg.HealthcheckPort = 0
		if mutate != nil {
			mutate(cfg)
		}
		return cfg, nil
	})
}

func newTestApp(t *testing.T, appCfg *Config, loader config.Loader, opts ...Option) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	if appCfg == nil {
		appCfg = &Config{}
	}
	a, err := NewApp(out, logs, appCfg, loader, opts...)
	require.NoError(t, err)
	return a, out, logs
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"upper case is normalised", Config{LogLevel: "DEBUG", LogFormat: "JSON"}, ""},
		{"bad level", Config{LogLevel: "loud"}, "invalid log-level"},
		{"bad format", Config{LogFormat: "yaml"}, "invalid log-format"},
		{"negative port", Config{HealthcheckPort: -1}, "invalid healthcheck-port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(tc.in)
			if tc.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewApp_LoaderErrorIsReturned(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	loader := loaderFunc(func(context.Context, ...string) (*config.Model, error) {
		return nil, errors.New("failed to parse HCL file x.hcl")
	})

	// --- Act ---
	a, err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, &Config{}, loader)

	// --- Assert ---
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "failed to load configuration")
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestNewApp_InvalidOverride(t *testing.T) {
	t.Parallel()
	_, err := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, &Config{Traversal: "sideways"}, staticLoader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid traversal")
}

func TestNewApp_AppliesOverrides(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var gotPaths []string
	loader := loaderFunc(func(_ context.Context, paths ...string) (*config.Model, error) {
		gotPaths = paths
		cfg := config.Default()
		cfg.SearchPaths = []string{"/from/file"}
		return cfg, nil
	})
	appCfg := &Config{
		ConfigPaths: []string{"a.hcl", "conf.d"},
		LogLevel:    "debug",
		SearchPaths: []string{"/from/flag"},
		DefaultPath: "/fallback",
		NoQuery:     true,
		Traversal:   "children",
	}

	// --- Act ---
	a, _, logs := newTestApp(t, appCfg, loader)

	// --- Assert ---
	assert.Equal(t, []string{"a.hcl", "conf.d"}, gotPaths)
	cfg := a.Config()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"/from/file", "/from/flag"}, cfg.SearchPaths)
	assert.Equal(t, "/fallback", cfg.DefaultPath)
	assert.Equal(t, "children", cfg.Traversal)
	assert.False(t, cfg.ResourceQuery.Enabled)
	assert.Equal(t, resourcepaths.Env{Name: "IGN_GAZEBO_RESOURCE_PATH"}, a.querier)
	testutil.AssertLogContains(t, logs, "Components wired.")
}

func TestNewQuerier_SocketIOWhenEnabled(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	q := newQuerier(cfg)
	_, ok := q.(*resourcepaths.SocketIO)
	assert.True(t, ok, "expected a socket.io querier, got %T", q)
}

func TestFallbackPathEnv(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.ResourcePathEnv = "MY_MODEL_PATH"
	assert.Equal(t, "MY_MODEL_PATH", fallbackPathEnv(cfg), "consulted after an unanswered request")

	cfg.ResourceQuery.Enabled = false
	assert.Empty(t, fallbackPathEnv(cfg), "the Env querier already reads it")
}

func TestApp_LoadResourcesAndSpawn(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	root := t.TempDir()
	dir := testutil.WriteModel(t, root, "crate", testutil.ModelSpec{Name: "Crate", SDF: "model.sdf"})
	a, out, _ := newTestApp(t, nil, staticLoader(nil), WithQuerier(resourcepaths.Static{root}))

	// --- Act ---
	models, err := a.LoadResources(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	spawnErr := a.SpawnPath(context.Background(), models[0].DescriptionPath)

	// --- Assert ---
	require.NoError(t, spawnErr)
	assert.Equal(t, []string{root}, a.Paths())
	assert.Equal(t, "Crate", models[0].DisplayName)
	assert.Equal(t, filepath.Join(dir, "model.sdf"), models[0].DescriptionPath)
	assert.Contains(t, out.String(), "# spawn ")
	assert.Contains(t, out.String(), `<model name="box">`)
}

func TestApp_LoadResourcesFallsBackToDefaultPath(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	root := t.TempDir()
	testutil.WriteModel(t, root, "crate", testutil.ModelSpec{Name: "Crate", SDF: "model.sdf"})
	loader := staticLoader(func(m *config.Model) { m.DefaultPath = root })
	failing := resourcepaths.QuerierFunc(func(context.Context) ([]string, error) {
		return nil, resourcepaths.ErrUnavailable
	})
	a, _, logs := newTestApp(t, nil, loader, WithQuerier(failing))

	// --- Act ---
	models, err := a.LoadResources(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Len(t, models, 1)
	assert.Equal(t, registry.SourceFallback, a.ResourceSpawner().Source())
	testutil.AssertLogContains(t, logs, "IGN_GAZEBO_RESOURCE_PATH not found")
}

func TestApp_InsertBoxUsesFirstModel(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	root := t.TempDir()
	testutil.WriteModel(t, root, "a_first", testutil.ModelSpec{Name: "First", SDF: "model.sdf", SDFBody: "<sdf>first</sdf>\n"})
	testutil.WriteModel(t, root, "b_second", testutil.ModelSpec{Name: "Second", SDF: "model.sdf", SDFBody: "<sdf>second</sdf>\n"})
	loader := staticLoader(func(m *config.Model) { m.DefaultPath = root })
	a, out, _ := newTestApp(t, nil, loader, WithQuerier(resourcepaths.Disabled{}))

	// --- Act ---
	err := a.Insert(context.Background(), "Box")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "# spawn box\n<sdf>first</sdf>\n", out.String())
}

func TestApp_InsertInvalidKeyword(t *testing.T) {
	t.Parallel()
	a, out, logs := newTestApp(t, nil, staticLoader(nil), WithQuerier(resourcepaths.Disabled{}))

	err := a.Insert(context.Background(), "pyramid")

	require.Error(t, err)
	assert.Empty(t, out.String())
	testutil.AssertLogContains(t, logs, "Invalid model string pyramid")
}

func TestApp_HealthHandler(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	a, _, _ := newTestApp(t, nil, staticLoader(nil), WithQuerier(resourcepaths.Static{t.TempDir()}))
	_, err := a.LoadResources(context.Background())
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	// --- Act ---
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	// --- Assert ---
	require.Equal(t, http.StatusOK, rec.Code)
	var status healthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, healthStatus{Status: "OK", Paths: 1, Models: 0, Clients: 0, Source: "query"}, status)
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	root := t.TempDir()
	testutil.WriteModel(t, root, "crate", testutil.ModelSpec{Name: "Crate", SDF: "model.sdf"})
	loader := staticLoader(func(m *config.Model) { m.Bridge.Listen = "127.0.0.1:0" })
	a, out, logs := newTestApp(t, nil, loader, WithQuerier(resourcepaths.Static{root}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)

	// --- Act ---
	go func() { done <- a.Run(ctx, ready) }()

	var addr net.Addr
	select {
	case addr = <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not start")
	}
	testutil.Eventually(t, func() bool { return len(a.ResourceSpawner().Models()) == 1 }, "models should load")
	require.NoError(t, a.SpawnPath(ctx, a.ResourceSpawner().Models()[0].DescriptionPath))
	cancel()

	// --- Assert ---
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NotEmpty(t, addr.String())
	assert.Contains(t, out.String(), "# spawn ")
	testutil.AssertLogContains(t, logs, "Spawn broadcast with no scene clients connected.")
}
