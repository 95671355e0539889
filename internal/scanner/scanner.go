// Package scanner discovers model directories beneath a set of search roots.
//
// A model directory is any directory containing a model.config file. For
// each one the scanner reads the display name, asks an sdf.Locator for the
// description file, and picks the first thumbnail image. Problems with a
// single model never abort a scan: the affected field is simply left empty.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/ctxlog"
	"github.com/luccosta/ign-gazebo/internal/fsutil"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/luccosta/ign-gazebo/internal/modelconfig"
	"github.com/luccosta/ign-gazebo/internal/sdf"
	"golang.org/x/sync/errgroup"
)

// ThumbnailDir is the directory inside a model holding preview images.
const ThumbnailDir = "thumbnails"

// ThumbnailExtensions are the accepted image extensions, matched
// case-sensitively.
var ThumbnailExtensions = []string{"png", "jpg", "jpeg", "svg"}

// Policy selects how deep a directory root is searched.
type Policy string

const (
	// PolicyRecursive finds model.config at any depth.
	PolicyRecursive Policy = "recursive"
	// PolicyChildren only looks at the root itself and its immediate
	// subdirectories.
	PolicyChildren Policy = "children"
)

// ParsePolicy validates a policy name. An empty name selects PolicyRecursive.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return PolicyRecursive, nil
	case PolicyRecursive, PolicyChildren:
		return p, nil
	default:
		return "", fmt.Errorf("invalid traversal policy %q: must be %q or %q", name, PolicyRecursive, PolicyChildren)
	}
}

// Scanner walks search roots. It is safe for concurrent use.
type Scanner struct {
	locator sdf.Locator
	policy  Policy
	workers int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithPolicy sets the traversal policy.
func WithPolicy(p Policy) Option {
	return func(s *Scanner) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithWorkers bounds how many roots are scanned at once. Values below one
// mean one.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// New creates a Scanner that resolves description files with locator.
func New(locator sdf.Locator, opts ...Option) *Scanner {
	s := &Scanner{
		locator: locator,
		policy:  PolicyRecursive,
		workers: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured traversal policy.
func (s *Scanner) Policy() Policy {
	return s.policy
}

// Scan searches every root and returns the discovered models. Records appear
// in root order, then in discovery order within a root, regardless of how
// many roots are scanned in parallel. A cancelled context discards all
// results and returns ctx.Err().
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]model.DiscoveredModel, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scan started.", "roots", len(roots), "policy", s.policy, "workers", s.workers)

	results := make([][]model.DiscoveredModel, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, root := range roots {
		g.Go(func() error {
			found, err := s.ScanRoot(gctx, root)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []model.DiscoveredModel
	for _, r := range results {
		all = append(all, r...)
	}
	logger.Debug("Scan finished.", "models", len(all))
	return all, nil
}

// ScanRoot searches a single root. Relative roots are resolved against the
// working directory, so every record carries absolute paths. Missing or
// unreadable roots yield no records and no error; only context cancellation
// is reported.
func (s *Scanner) ScanRoot(ctx context.Context, root string) ([]model.DiscoveredModel, error) {
	root = absPath(root)
	logger := ctxlog.FromContext(ctx).With("root", root)

	candidates, err := s.candidates(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.Debug("Model configs found under root.", "count", len(candidates))

	var out []model.DiscoveredModel
	for _, configPath := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, s.Resolve(ctx, configPath))
	}
	return out, nil
}

// Resolve builds the record for one model.config file.
func (s *Scanner) Resolve(ctx context.Context, configPath string) model.DiscoveredModel {
	configPath = absPath(configPath)
	modelDir := filepath.Dir(configPath)

	rec := model.DiscoveredModel{
		ID:          model.NewID(configPath),
		ConfigPath:  configPath,
		DisplayName: modelconfig.ReadName(configPath),
	}
	if s.locator != nil {
		if desc, ok := s.locator.Locate(ctx, modelDir); ok {
			rec.DescriptionPath = desc
		}
	}
	if thumb, ok := fsutil.FirstFileWithExtension(filepath.Join(modelDir, ThumbnailDir), ThumbnailExtensions...); ok {
		rec.ThumbnailPath = thumb
	}
	return rec
}

// candidates lists the model.config paths reachable from root under the
// scanner's policy. The only error it returns is ctx.Err().
func (s *Scanner) candidates(ctx context.Context, root string) ([]string, error) {
	logger := ctxlog.FromContext(ctx).With("root", root)

	info, err := os.Stat(root)
	if err != nil {
		logger.Debug("Skipping unreadable root.", "error", err)
		return nil, nil
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() && filepath.Base(root) == modelconfig.FileName {
			return []string{root}, nil
		}
		logger.Debug("Skipping root file that is not a model config.")
		return nil, nil
	}

	switch s.policy {
	case PolicyChildren:
		return childCandidates(ctx, root), nil
	default:
		files, err := fsutil.FindFilesByName(ctx, root, modelconfig.FileName)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("Walk failed.", "error", err)
			return nil, nil
		}
		return files, nil
	}
}

// absPath returns p made absolute, or p unchanged when the working directory
// cannot be determined.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// childCandidates looks at root/model.config and root/<entry>/model.config.
func childCandidates(ctx context.Context, root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Skipping unlistable root.", "root", root, "error", err)
		return nil
	}

	var out []string
	for _, entry := range entries {
		p := filepath.Join(root, entry.Name())
		switch {
		case fsutil.IsDir(p):
			cfg := filepath.Join(p, modelconfig.FileName)
			if fsutil.IsFile(cfg) {
				out = append(out, cfg)
			}
		case entry.Name() == modelconfig.FileName && fsutil.IsFile(p):
			out = append(out, p)
		}
	}
	return out
}
