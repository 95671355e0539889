// This file applies decoded HCL schema structs onto the format-agnostic
// configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/luccosta/ign-gazebo/internal/config"
	"github.com/luccosta/ign-gazebo/internal/ctxlog"
)

// applyRoot overlays every attribute the file set onto m. search_paths
// accumulate across files; scalars are replaced.
func (l *Loader) applyRoot(ctx context.Context, m *config.Model, r *fileRoot) error {
	logger := ctxlog.FromContext(ctx)

	setString(&m.LogLevel, r.LogLevel)
	setString(&m.LogFormat, r.LogFormat)
	setInt(&m.HealthcheckPort, r.HealthcheckPort)
	setString(&m.DefaultPath, r.DefaultPath)
	setString(&m.ResourcePathEnv, r.ResourcePathEnv)
	setString(&m.Traversal, r.Traversal)
	setInt(&m.ScanWorkers, r.ScanWorkers)
	setString(&m.SDFVersion, r.SDFVersion)
	m.SearchPaths = append(m.SearchPaths, r.SearchPaths...)

	if q := r.ResourceQuery; q != nil {
		logger.Debug("Applying resource_query block.")
		setBool(&m.ResourceQuery.Enabled, q.Enabled)
		setString(&m.ResourceQuery.URL, q.URL)
		setString(&m.ResourceQuery.Namespace, q.Namespace)
		setString(&m.ResourceQuery.Event, q.Event)
		if q.Timeout != nil {
			d, err := time.ParseDuration(*q.Timeout)
			if err != nil {
				return fmt.Errorf("resource_query.timeout: %w", err)
			}
			m.ResourceQuery.Timeout = d
		}
	}
	if b := r.Bridge; b != nil {
		logger.Debug("Applying bridge block.")
		setString(&m.Bridge.Listen, b.Listen)
		setString(&m.Bridge.SpawnEvent, b.SpawnEvent)
		setString(&m.Bridge.PathsEvent, b.PathsEvent)
	}
	if h := r.Highlight; h != nil {
		setBool(&m.Highlight.Enabled, h.Enabled)
		setString(&m.Highlight.Style, h.Style)
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
