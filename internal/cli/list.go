package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/luccosta/ign-gazebo/internal/app"
	"github.com/luccosta/ign-gazebo/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type appLoader func(cmd *cobra.Command) (*app.App, error)

func newListCommand(load appLoader) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the models found under the resource paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(output)
			switch format {
			case "table", "json", "yaml":
			default:
				return usageError(fmt.Errorf("invalid output %q: must be 'table', 'json', or 'yaml'", output))
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}
			models, err := a.LoadResources(cmd.Context())
			if err != nil {
				return runtimeError(err)
			}
			return writeModels(cmd.OutOrStdout(), format, models)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: 'table', 'json', or 'yaml'.")
	return cmd
}

func writeModels(w io.Writer, format string, models []model.DiscoveredModel) error {
	if models == nil {
		models = []model.DiscoveredModel{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(models); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(models) == 0 {
		_, err := fmt.Fprintln(w, "No models found.")
		return err
	}
	fmt.Fprintf(w, "%-28s %-56s %s\n", "NAME", "DESCRIPTION", "THUMBNAIL")
	for _, m := range models {
		desc := m.DescriptionPath
		if desc == "" {
			desc = "-"
		}
		thumb := m.ThumbnailPath
		if thumb == "" {
			thumb = "-"
		}
		if _, err := fmt.Fprintf(w, "%-28s %-56s %s\n", m.Title(), desc, thumb); err != nil {
			return err
		}
	}
	return nil
}

func newPathsCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the registered resource search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			if _, err := a.LoadResources(cmd.Context()); err != nil {
				return runtimeError(err)
			}
			out := cmd.OutOrStdout()
			for _, p := range a.Paths() {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
