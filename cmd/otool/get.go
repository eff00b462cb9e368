package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/router"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// kindFor resolves a group name or a kind name, singular or plural
func kindFor(name string) (types.Kind, error) {
	if kind := router.Group(name).Kind(); kind != "" {
		return kind, nil
	}
	singular := strings.TrimSuffix(name, "s")
	for _, kind := range types.Kinds {
		if string(kind) == name || string(kind) == singular {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", name)
}

func printYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	return enc.Close()
}

var getCmd = &cobra.Command{
	Use:   "get KIND ID",
	Short: "Print a stored record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFor(args[0])
		if err != nil {
			return err
		}

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		item, ok := mgr.Lookup(kind, args[1])
		if !ok {
			return fmt.Errorf("%s %s: not found", kind, args[1])
		}
		return printYAML(cmd.OutOrStdout(), item)
	},
}

var listCmd = &cobra.Command{
	Use:   "list KIND",
	Short: "List stored records of a kind",
	Long: `List stored records of a kind. KIND is an editor group (tasks,
platforms, jdkProjects, jdkTestProjects) or a reference kind (products,
buildProviders).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFor(args[0])
		if err != nil {
			return err
		}

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		items, err := mgr.List(kind)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", kind, err)
		}
		if len(items) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s records\n", kind)
			return nil
		}
		return printYAML(cmd.OutOrStdout(), items)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete KIND ID",
	Short: "Delete a stored record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := kindFor(args[0])
		if err != nil {
			return err
		}

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		return deleteRecord(mgr, kind, args[1], cmd.OutOrStdout())
	},
}

func deleteRecord(mgr *manager.Manager, kind types.Kind, id string, out io.Writer) error {
	if err := mgr.Delete(kind, id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	fmt.Fprintf(out, "✓ %s %s deleted\n", kind, id)
	return nil
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}
