/*
Package router mounts the editor for a route and sends submissions to the
configuration store.

A route is a group and an optional id. The group selects the draft type:

	jdkProjects      draft.JDKProjectDraft
	jdkTestProjects  draft.JDKTestProjectDraft
	tasks            draft.TaskDraft
	platforms        draft.PlatformDraft

Any other group mounts nothing. The id is captured when the editor is
mounted: an editor mounted without one creates a record on submit, one
mounted with an id updates it. Editing the draft's own id field does not
change that choice.

	e := r.Mount("tasks", "tck")
	if e == nil {
		return
	}
	_ = e.SetField("script", "/scripts/tck.sh")
	e.Submit()

Submission outcomes come back through the store's notification flags.
Notification turns them into a Snackbar: the error message when the store
reported an error, a fixed done message when it reported a result. Dismiss
clears both.
*/
package router
