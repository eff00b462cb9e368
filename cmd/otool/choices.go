package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/spf13/cobra"
)

// Choices holds the ids editors offer for reference fields
type Choices struct {
	Products       []string `yaml:"products"`
	BuildProviders []string `yaml:"buildProviders"`
	Platforms      []string `yaml:"platforms"`
}

func loadChoices(mgr *manager.Manager) (*Choices, error) {
	products, err := mgr.Products()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	providers, err := mgr.BuildProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to list build providers: %w", err)
	}
	platforms, err := mgr.Platforms()
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}

	return &Choices{
		Products:       ids(products),
		BuildProviders: ids(providers),
		Platforms:      ids(platforms),
	}, nil
}

func ids[T types.Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	sort.Strings(out)
	return out
}

// unknownReferences lists reference values of item that name no stored
// record. Referential integrity is advisory: callers only warn.
func (c *Choices) unknownReferences(item types.Item) []string {
	var missing []string
	check := func(field string, known []string, values ...string) {
		for _, v := range values {
			if v != "" && !contains(known, v) {
				missing = append(missing, fmt.Sprintf("%s %q", field, v))
			}
		}
	}

	switch v := item.(type) {
	case *types.Task:
		check("platformLimitation", c.Platforms, v.PlatformLimitation.List...)
		check("productLimitation", c.Products, v.ProductLimitation.List...)
	case *types.JDKProject:
		check("product", c.Products, v.Product)
		check("buildProviders", c.BuildProviders, v.BuildProviders...)
	case *types.JDKTestProject:
		check("product", c.Products, v.Product)
		check("buildPlatform", c.Platforms, v.BuildPlatform)
		check("buildProviders", c.BuildProviders, v.BuildProviders...)
	}
	return missing
}

func contains(list []string, s string) bool {
	i := sort.SearchStrings(list, s)
	return i < len(list) && list[i] == s
}

// warnUnknownReferences prints one warning per unknown reference
func warnUnknownReferences(mgr *manager.Manager, item types.Item, out io.Writer) error {
	choices, err := loadChoices(mgr)
	if err != nil {
		return err
	}
	for _, ref := range choices.unknownReferences(item) {
		fmt.Fprintf(out, "⚠ %s %s: unknown %s\n", item.Kind(), item.GetID(), ref)
	}
	return nil
}

var choicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "Print the products, build providers and platforms editors offer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		choices, err := loadChoices(mgr)
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), choices)
	},
}

func init() {
	rootCmd.AddCommand(choicesCmd)
}
