package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/microbench/internal/bench/config"
)

// loadUserLayer reads the user configuration layer and applies the
// invocation's overrides on top of it. An explicit path must exist;
// otherwise bench.config.* in the working directory is optional.
func (a *App) loadUserLayer(path string, overrides map[string]any) (map[string]any, string, error) {
	var (
		tree map[string]any
		err  error
	)
	if path != "" {
		tree, err = config.LoadFile(path)
	} else {
		tree, path, err = config.LoadUserConfig(a.WorkDir)
	}
	if err != nil {
		return nil, path, err
	}

	if err := config.ValidateTree(tree); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", describePath(path), err)
	}

	if len(overrides) == 0 {
		return tree, path, nil
	}

	tree, err = config.WithOverrides(tree, overrides)
	if err != nil {
		return nil, path, err
	}
	if err := config.ValidateTree(tree); err != nil {
		return nil, path, &UsageError{Err: fmt.Errorf("invalid flag value: %w", err)}
	}
	return tree, path, nil
}

func describePath(path string) string {
	if path == "" {
		return "(none)"
	}
	return path
}

func newConfigCmd(app *App, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Inspect configuration as seen by the run command, before any benchmark's
own settings are applied.

Examples:
  microbench config show
  microbench config get defaults.iterations
  microbench config get output --config ci.yaml`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a dotted configuration path",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _, err := app.loadUserLayer(flags.configPath, nil)
			if err != nil {
				return err
			}
			resolver := config.NewResolver(user)
			value, err := resolver.Resolve(args[0], nil, nil)
			if err != nil {
				return err
			}
			// mappings are shown merged across layers, leaves from the first layer
			if _, isMap := value.(map[string]any); isMap {
				value, _ = config.Lookup(resolver.Merge(nil, nil), args[0])
			}
			return printValue(cmd, value)
		},
	})

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the merged defaults and user configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, path, err := app.loadUserLayer(flags.configPath, nil)
			if err != nil {
				return err
			}
			merged := config.NewResolver(user).Merge(nil, nil)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(merged)
			}

			fmt.Fprintf(out, "# user config: %s\n", describePath(path))
			data, err := yaml.Marshal(merged)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.AddCommand(show)

	return cmd
}

// printValue prints scalars bare and mappings as YAML.
func printValue(cmd *cobra.Command, value any) error {
	out := cmd.OutOrStdout()
	switch v := value.(type) {
	case map[string]any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}
		_, err = out.Write(data)
		return err
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		fmt.Fprintln(out, strings.Join(parts, ","))
	case nil:
		fmt.Fprintln(out, "null")
	default:
		fmt.Fprintln(out, v)
	}
	return nil
}
