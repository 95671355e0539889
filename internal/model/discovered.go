package model

import (
	"github.com/google/uuid"
)

// idNamespace scopes the name-based UUIDs derived from config paths.
var idNamespace = uuid.MustParse("6d0b5b4e-3f8a-5c1e-9a57-1e2f0c7d9b41")

// DiscoveredModel is one model directory found on disk.
type DiscoveredModel struct {
	// ID is derived from ConfigPath, so re-scanning the same tree yields the
	// same IDs.
	ID string `json:"id" yaml:"id"`
	// ConfigPath is the absolute path of model.config. Never empty.
	ConfigPath string `json:"config_path" yaml:"config_path"`
	// DescriptionPath is the SDF file to spawn. Empty when none was located.
	DescriptionPath string `json:"description_path" yaml:"description_path"`
	// DisplayName is the <name> text of model.config. Empty when unreadable.
	DisplayName string `json:"name" yaml:"name"`
	// ThumbnailPath is the first image in thumbnails/. Empty when absent.
	ThumbnailPath string `json:"thumbnail_path" yaml:"thumbnail_path"`
}

// NewID returns the stable grid key for a config path.
func NewID(configPath string) string {
	return uuid.NewSHA1(idNamespace, []byte(configPath)).String()
}

// Spawnable reports whether the record has a description file to spawn.
func (m DiscoveredModel) Spawnable() bool {
	return m.DescriptionPath != ""
}

// Title is the label shown for the record, falling back to the config path
// when the config carried no name.
func (m DiscoveredModel) Title() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.ConfigPath
}
