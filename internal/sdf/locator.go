// Package sdf locates the simulation-description file of a model directory.
//
// The description file is named by the <sdf> entries of model.config. A
// config may list several entries, one per format version; the locator picks
// the newest one the configured parser version can read.
package sdf

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/fsutil"
	"github.com/luccosta/ign-gazebo/internal/modelconfig"
	"golang.org/x/mod/semver"
)

// DefaultParserVersion is the newest description format understood when no
// version is configured.
const DefaultParserVersion = "1.8"

// Locator resolves the description file for a model directory.
type Locator interface {
	Locate(ctx context.Context, modelDir string) (string, bool)
}

// LocatorFunc adapts a plain function to the Locator interface.
type LocatorFunc func(ctx context.Context, modelDir string) (string, bool)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context, modelDir string) (string, bool) {
	return f(ctx, modelDir)
}

// ConfigLocator reads the model's config to find its description file.
type ConfigLocator struct {
	// ParserVersion caps which <sdf version> entries are eligible.
	ParserVersion string
}

// NewConfigLocator returns a locator for the given parser version. An empty
// version selects DefaultParserVersion.
func NewConfigLocator(parserVersion string) *ConfigLocator {
	if parserVersion == "" {
		parserVersion = DefaultParserVersion
	}
	return &ConfigLocator{ParserVersion: parserVersion}
}

// Locate implements Locator.
func (l *ConfigLocator) Locate(ctx context.Context, modelDir string) (string, bool) {
	logger := ctxlog.FromContext(ctx).With("model_dir", modelDir)

	configPath := filepath.Join(modelDir, modelconfig.FileName)
	if !fsutil.IsFile(configPath) {
		legacy := filepath.Join(modelDir, modelconfig.LegacyFileName)
		if !fsutil.IsFile(legacy) {
			logger.Debug("No model configuration file found.")
			return "", false
		}
		logger.Warn("Model uses deprecated manifest.xml; rename it to model.config.")
		configPath = legacy
	}

	cfg, err := modelconfig.ParseFile(configPath)
	if err != nil {
		logger.Debug("Model configuration unreadable.", "error", err)
		return "", false
	}

	entry, ok := l.pick(ctx, cfg.SDF)
	if !ok {
		logger.Debug("Model configuration has no <sdf> entry.")
		return "", false
	}
	rel := strings.TrimSpace(entry.Path)
	if rel == "" {
		return "", false
	}
	return filepath.Join(modelDir, rel), true
}

// pick chooses the newest entry not newer than the parser version. When no
// entry carries a usable version attribute the first entry is used.
func (l *ConfigLocator) pick(ctx context.Context, entries []modelconfig.SDFEntry) (modelconfig.SDFEntry, bool) {
	if len(entries) == 0 {
		return modelconfig.SDFEntry{}, false
	}

	limit := canonical(l.ParserVersion)
	if limit == "" {
		limit = canonical(DefaultParserVersion)
	}

	best := -1
	bestVersion := ""
	for i, e := range entries {
		v := canonical(e.Version)
		if v == "" {
			continue
		}
		if semver.Compare(v, limit) > 0 {
			ctxlog.FromContext(ctx).Debug("Skipping description newer than parser.", "version", e.Version, "parser", l.ParserVersion)
			continue
		}
		if best < 0 || semver.Compare(v, bestVersion) > 0 {
			best, bestVersion = i, v
		}
	}
	if best < 0 {
		ctxlog.FromContext(ctx).Warn("No supported <sdf version> attribute; using the first <sdf> entry.")
		return entries[0], true
	}
	return entries[best], true
}

// canonical turns "1.6" into "v1.6" and returns "" for anything semver
// rejects.
func canonical(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// FixedLocator always returns the same relative file name inside the model
// directory, or nothing when Name is empty.
type FixedLocator struct {
	Name string
}

// Locate implements Locator.
func (f FixedLocator) Locate(_ context.Context, modelDir string) (string, bool) {
	if f.Name == "" {
		return "", false
	}
	return filepath.Join(modelDir, f.Name), true
}
