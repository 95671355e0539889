package hcl_adapter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/luccosta/ign-gazebo/internal/config"
	"github.com/luccosta/ign-gazebo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(env ...string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

func TestLoad_NoFilesReturnsDefaults(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	loader := newTestLoader()

	// --- Act ---
	cfg, err := loader.Load(ctx, filepath.Join(t.TempDir(), "missing"))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_AllAttributes(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"spawner.hcl": `
log_level         = "debug"
log_format        = "json"
healthcheck_port  = 8081
search_paths      = ["/opt/models", "/srv/models"]
default_path      = "/home/user/models"
resource_path_env = "GZ_SIM_RESOURCE_PATH"
traversal         = "children"
scan_workers      = 8
sdf_version       = "1.6"

resource_query {
  enabled   = false
  url       = "http://sim:9000"
  namespace = "/gz"
  event     = "paths"
  timeout   = "250ms"
}

bridge {
  listen      = "0.0.0.0:9100"
  spawn_event = "spawn"
  paths_event = "paths"
}

highlight {
  enabled = false
  style   = "dracula"
}
`,
	})
	loader := newTestLoader()

	// --- Act ---
	cfg, err := loader.Load(ctx, dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8081, cfg.HealthcheckPort)
	assert.Equal(t, []string{"/opt/models", "/srv/models"}, cfg.SearchPaths)
	assert.Equal(t, "/home/user/models", cfg.DefaultPath)
	assert.Equal(t, "GZ_SIM_RESOURCE_PATH", cfg.ResourcePathEnv)
	assert.Equal(t, "children", cfg.Traversal)
	assert.Equal(t, 8, cfg.ScanWorkers)
	assert.Equal(t, "1.6", cfg.SDFVersion)
	assert.Equal(t, config.ResourceQuery{
		Enabled:   false,
		URL:       "http://sim:9000",
		Namespace: "/gz",
		Event:     "paths",
		Timeout:   250 * time.Millisecond,
	}, cfg.ResourceQuery)
	assert.Equal(t, config.Bridge{Listen: "0.0.0.0:9100", SpawnEvent: "spawn", PathsEvent: "paths"}, cfg.Bridge)
	assert.Equal(t, config.Highlight{Enabled: false, Style: "dracula"}, cfg.Highlight)
}

func TestLoad_MergesInDiscoveryOrder(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"a.hcl": `
log_level    = "warn"
search_paths = ["/a"]
bridge {
  listen = "127.0.0.1:1"
}
`,
		"b.hcl": `
log_level    = "error"
search_paths = ["/b"]
`,
		"notes.txt": `log_level = "debug"`,
	})
	loader := newTestLoader()

	// --- Act ---
	cfg, err := loader.Load(ctx, dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, "later file wins for scalars")
	assert.Equal(t, []string{"/a", "/b"}, cfg.SearchPaths, "search paths accumulate")
	assert.Equal(t, "127.0.0.1:1", cfg.Bridge.Listen)
	assert.Equal(t, "spawn_preview_model", cfg.Bridge.SpawnEvent, "unset block attributes keep defaults")
}

func TestLoad_ExplicitFileListedTwiceIsReadOnce(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"only.hcl": `search_paths = ["/x"]`,
	})
	file := filepath.Join(dir, "only.hcl")
	loader := newTestLoader()

	// --- Act ---
	cfg, err := loader.Load(ctx, file, dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"/x"}, cfg.SearchPaths)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, _ := testutil.Context(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"env.hcl": `
search_paths = compact(split(":", env.IGN_GAZEBO_RESOURCE_PATH))
default_path = "${env.HOME}/models"
log_level    = lower(trimspace(env.LEVEL))
`,
	})
	loader := newTestLoader(
		"IGN_GAZEBO_RESOURCE_PATH=/one::/two",
		"HOME=/home/sim",
		"LEVEL= DEBUG ",
	)

	// --- Act ---
	cfg, err := loader.Load(ctx, dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"/one", "/two"}, cfg.SearchPaths)
	assert.Equal(t, "/home/sim/models", cfg.DefaultPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", `log_level = `, "failed to parse HCL file"},
		{"wrong type", `scan_workers = "many"`, "failed to decode HCL file"},
		{"unknown env", `default_path = env.NOPE`, "failed to decode HCL file"},
		{"bad timeout", "resource_query {\n  timeout = \"soon\"\n}\n", "resource_query.timeout"},
		{"invalid value", `traversal = "sideways"`, "invalid configuration"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// --- Arrange ---
			ctx, _ := testutil.Context(t)
			dir := t.TempDir()
			testutil.WriteFiles(t, dir, map[string]string{"bad.hcl": tc.content})

			// --- Act ---
			_, err := newTestLoader("HOME=/h").Load(ctx, dir)

			// --- Assert ---
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_UnknownAttributeIsWarned(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	ctx, logs := testutil.Context(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"extra.hcl": `colour = "blue"`})

	// --- Act ---
	_, err := newTestLoader().Load(ctx, dir)

	// --- Assert ---
	require.NoError(t, err)
	testutil.AssertLogContains(t, logs, "Ignoring unknown configuration attribute.")
}
