package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes every top-level attribute and block a config file may
// contain. Pointer fields stay nil when a file omits the attribute, so later
// files only override what they actually set.
type fileRoot struct {
	LogLevel        *string  `hcl:"log_level,optional"`
	LogFormat       *string  `hcl:"log_format,optional"`
	HealthcheckPort *int     `hcl:"healthcheck_port,optional"`
	SearchPaths     []string `hcl:"search_paths,optional"`
	DefaultPath     *string  `hcl:"default_path,optional"`
	ResourcePathEnv *string  `hcl:"resource_path_env,optional"`
	Traversal       *string  `hcl:"traversal,optional"`
	ScanWorkers     *int     `hcl:"scan_workers,optional"`
	SDFVersion      *string  `hcl:"sdf_version,optional"`

	ResourceQuery *ResourceQueryBlock `hcl:"resource_query,block"`
	Bridge        *BridgeBlock        `hcl:"bridge,block"`
	Highlight     *HighlightBlock     `hcl:"highlight,block"`

	Remain hcl.Body `hcl:",remain"`
}

// ResourceQueryBlock is the `resource_query` block.
type ResourceQueryBlock struct {
	Enabled   *bool   `hcl:"enabled,optional"`
	URL       *string `hcl:"url,optional"`
	Namespace *string `hcl:"namespace,optional"`
	Event     *string `hcl:"event,optional"`
	Timeout   *string `hcl:"timeout,optional"`
}

// BridgeBlock is the `bridge` block.
type BridgeBlock struct {
	Listen     *string `hcl:"listen,optional"`
	SpawnEvent *string `hcl:"spawn_event,optional"`
	PathsEvent *string `hcl:"paths_event,optional"`
}

// HighlightBlock is the `highlight` block.
type HighlightBlock struct {
	Enabled *bool   `hcl:"enabled,optional"`
	Style   *string `hcl:"style,optional"`
}
