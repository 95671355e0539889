package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ModelSpec describes a model directory to materialise on disk.
type ModelSpec struct {
	// Name goes into <name>. Ignored when RawConfig is set.
	Name string
	// SDF is the description file name referenced from model.config. Empty
	// means no <sdf> entry.
	SDF string
	// SDFBody is written to the description file when SDF is set.
	SDFBody string
	// Thumbnails are created inside thumbnails/.
	Thumbnails []string
	// RawConfig replaces the generated model.config verbatim.
	RawConfig string
}

// DefaultSDF is a minimal description used when a ModelSpec leaves SDFBody empty.
const DefaultSDF = `<?xml version="1.0"?>
<sdf version="1.6">
  <model name="box">
    <link name="link"/>
  </model>
</sdf>
`

// WriteFiles writes each relative path under root, creating parents.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// WriteModel creates a model directory at root/rel and returns its path.
func WriteModel(t *testing.T, root, rel string, spec ModelSpec) string {
	t.Helper()

	dir := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	cfg := spec.RawConfig
	if cfg == "" {
		cfg = ModelConfig(spec.Name, spec.SDF)
	}
	files := map[string]string{"model.config": cfg}

	if spec.SDF != "" {
		body := spec.SDFBody
		if body == "" {
			body = DefaultSDF
		}
		files[spec.SDF] = body
	}
	for _, thumb := range spec.Thumbnails {
		files[filepath.Join("thumbnails", thumb)] = "img"
	}
	WriteFiles(t, dir, files)
	return dir
}

// ModelConfig renders a model.config document.
func ModelConfig(name, sdfFile string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<model>\n")
	fmt.Fprintf(&b, "  <name>%s</name>\n", name)
	b.WriteString("  <version>1.0</version>\n")
	if sdfFile != "" {
		fmt.Fprintf(&b, "  <sdf version=\"1.6\">%s</sdf>\n", sdfFile)
	}
	b.WriteString("</model>\n")
	return b.String()
}
