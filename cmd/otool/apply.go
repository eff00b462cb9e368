package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/reconciler"
	"github.com/fakekoji/otool/pkg/router"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply an edit file",
	Long: `Apply configuration edits from a YAML, JSON or JSONC file.

Each document names an editor group, an optional id and the fields to set.
A document with an id updates the stored record; one without creates a new
record.

Examples:
  # Create a task
  otool apply -f task.yaml

  # task.yaml
  group: tasks
  fields:
    id: tck
    type: TEST
    script: /scripts/tck.sh
    rpmLimitation.blacklist: [debuginfo, devel]`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "File to apply (required)")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	docs, err := readDocuments(filename)
	if err != nil {
		return err
	}

	mgr, err := openManager(cfg)
	if err != nil {
		return err
	}
	defer mgr.Shutdown()

	return applyDocuments(mgr, docs, cmd.OutOrStdout())
}

// applyDocuments runs one editor session per document, stopping at the
// first failure
func applyDocuments(mgr *manager.Manager, docs []Document, out io.Writer) error {
	r := router.NewRouter(mgr, mgr.GetEventBroker())

	for _, doc := range docs {
		setters := make([]setter, 0, len(doc.Fields))
		for _, name := range sortedFields(doc.Fields) {
			value, err := fieldValue(doc.Fields[name])
			if err != nil {
				return fmt.Errorf("%s field %s: %w", doc.Group, name, err)
			}
			setters = append(setters, setter{name: name, value: value})
		}

		if err := runSession(r, mgr, doc.Group, doc.ID, setters, out); err != nil {
			return err
		}
	}
	return nil
}

// setter is one SetField call
type setter struct {
	name  string
	value string
}

// runSession mounts an editor, applies the setters, submits and reports
// the outcome. The outcome is dismissed once printed.
func runSession(r *router.Router, mgr *manager.Manager, group, id string, setters []setter, out io.Writer) error {
	e := r.Mount(group, id)
	if e == nil {
		return fmt.Errorf("unknown group %q", group)
	}
	if id != "" {
		switch e.Reconcile() {
		case reconciler.OutcomeNotFound:
			return fmt.Errorf("%s %s: not found", group, id)
		case reconciler.OutcomeInvalid:
			return fmt.Errorf("%s %s: stored record is invalid", group, id)
		}
	}

	for _, s := range setters {
		if err := e.SetField(s.name, s.value); err != nil {
			return err
		}
	}

	requestID := e.Submit()
	mgr.Wait()

	n := r.Notification()
	r.Dismiss()
	if n == nil || n.RequestID != requestID {
		return fmt.Errorf("no outcome for request %s", requestID)
	}
	if n.Error {
		return errors.New(n.Message)
	}

	op := "created"
	if id != "" {
		op = "updated"
	}
	fmt.Fprintf(out, "✓ %s %s %s\n", e.Item().Kind(), e.Item().GetID(), op)
	fmt.Fprintln(out, n.Message)
	printResults(out, n)
	return warnUnknownReferences(mgr, e.Item(), out)
}

func printResults(out io.Writer, n *router.Snackbar) {
	if n.Result == nil {
		return
	}
	for _, j := range n.Result.JobsCreated {
		fmt.Fprintf(out, "  created:   %s\n", j.JobName)
	}
	for _, j := range n.Result.JobsRewritten {
		fmt.Fprintf(out, "  rewritten: %s\n", j.JobName)
	}
	for _, j := range n.Result.JobsRevived {
		fmt.Fprintf(out, "  revived:   %s\n", j.JobName)
	}
	for _, j := range n.Result.JobsArchived {
		fmt.Fprintf(out, "  archived:  %s\n", j.JobName)
	}
}
