package main

import (
	"fmt"
	"strings"

	"github.com/fakekoji/otool/pkg/router"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// groupValue is a pflag.Value accepting only groups with an editor
type groupValue router.Group

var _ pflag.Value = (*groupValue)(nil)

func (g *groupValue) String() string { return string(*g) }

func (g *groupValue) Set(s string) error {
	if router.Group(s).Kind() == "" {
		return fmt.Errorf("unknown group %q (want one of %s)", s, groupNames())
	}
	*g = groupValue(s)
	return nil
}

func (g *groupValue) Type() string { return "group" }

func groupNames() string {
	names := make([]string, len(router.Groups))
	for i, g := range router.Groups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

var editGroup groupValue

var editCmd = &cobra.Command{
	Use:   "edit --group GROUP [--id ID] --set FIELD=VALUE...",
	Short: "Edit one record from the command line",
	Long: `Mount the editor for a group, set fields and submit.

Without --id a new record is created; with --id the stored record is loaded
and updated. List fields take whitespace separated values.

Examples:
  otool edit --group tasks --set id=tck --set script=/scripts/tck.sh
  otool edit --group jdkTestProjects --id jdk17-tests \
    --set "subpackageWhitelist=core tools"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		sets, _ := cmd.Flags().GetStringArray("set")

		setters, err := parseSetters(sets)
		if err != nil {
			return err
		}

		mgr, err := openManager(cfg)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		r := router.NewRouter(mgr, mgr.GetEventBroker())
		return runSession(r, mgr, string(editGroup), id, setters, cmd.OutOrStdout())
	},
}

func init() {
	editCmd.Flags().Var(&editGroup, "group", "Editor group ("+groupNames()+")")
	editCmd.Flags().String("id", "", "Id of the record to update")
	editCmd.Flags().StringArray("set", nil, "Field assignment FIELD=VALUE (repeatable)")
	_ = editCmd.MarkFlagRequired("group")

	rootCmd.AddCommand(editCmd)
}

func parseSetters(sets []string) ([]setter, error) {
	setters := make([]setter, 0, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want FIELD=VALUE", s)
		}
		setters = append(setters, setter{name: name, value: value})
	}
	return setters, nil
}
