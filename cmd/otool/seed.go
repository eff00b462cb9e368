package main

import (
	"fmt"

	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/spf13/cobra"
)

// SeedFile holds records loaded without an editor: reference lists and
// fixtures. It is also the format written by export.
type SeedFile struct {
	Products        []*types.Product        `json:"products,omitempty" yaml:"products,omitempty"`
	BuildProviders  []*types.BuildProvider  `json:"buildProviders,omitempty" yaml:"buildProviders,omitempty"`
	Platforms       []*types.Platform       `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Tasks           []*types.Task           `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	JDKProjects     []*types.JDKProject     `json:"jdkProjects,omitempty" yaml:"jdkProjects,omitempty"`
	JDKTestProjects []*types.JDKTestProject `json:"jdkTestProjects,omitempty" yaml:"jdkTestProjects,omitempty"`
}

// Items returns every record in the file, reference lists first
func (f *SeedFile) Items() []types.Item {
	var items []types.Item
	for _, p := range f.Products {
		items = append(items, p)
	}
	for _, b := range f.BuildProviders {
		items = append(items, b)
	}
	for _, p := range f.Platforms {
		items = append(items, p)
	}
	for _, t := range f.Tasks {
		items = append(items, t)
	}
	for _, p := range f.JDKProjects {
		items = append(items, p)
	}
	for _, p := range f.JDKTestProjects {
		items = append(items, p)
	}
	return items
}

// validate checks the enumerated fields of records that have them
func (f *SeedFile) validate() error {
	for _, item := range f.Items() {
		if item.GetID() == "" {
			return fmt.Errorf("%s without id", item.Kind())
		}
		if v, ok := item.(types.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%s %s: %w", item.Kind(), item.GetID(), err)
			}
		}
	}
	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed -f FILE",
	Short: "Load reference lists and fixtures",
	Long: `Create or replace records from a YAML, JSON or JSONC file without going
through an editor. Used to load products, build providers and platforms
that editors offer as choices.

Example refs.yaml:
  products:
    - id: jdk17
      packageName: java-17-openjdk
  buildProviders:
    - id: brew
      topUrl: http://brew-hub.example.com/brewhub
  platforms:
    - id: el8.x86_64
      os: el
      version: "8"
      architecture: x86_64`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, _ := cmd.Flags().GetString("file")

		var f SeedFile
		if err := decodeFile(filename, &f); err != nil {
			return err
		}
		if err := f.validate(); err != nil {
			return err
		}

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		items := f.Items()
		if err := mgr.Seed(items...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d records\n", len(items))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print every stored record in seed file format",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		f, err := exportRecords(mgr)
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), f)
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "File to seed from (required)")
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}

// exportRecords collects every stored record into a SeedFile
func exportRecords(mgr *manager.Manager) (*SeedFile, error) {
	f := &SeedFile{}
	for _, kind := range types.Kinds {
		items, err := mgr.List(kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, item := range items {
			switch v := item.(type) {
			case *types.Product:
				f.Products = append(f.Products, v)
			case *types.BuildProvider:
				f.BuildProviders = append(f.BuildProviders, v)
			case *types.Platform:
				f.Platforms = append(f.Platforms, v)
			case *types.Task:
				f.Tasks = append(f.Tasks, v)
			case *types.JDKProject:
				f.JDKProjects = append(f.JDKProjects, v)
			case *types.JDKTestProject:
				f.JDKTestProjects = append(f.JDKTestProjects, v)
			}
		}
	}
	return f, nil
}
