/*
Package draft holds the in-memory working copies edited before a record is
submitted to the configuration store.

A Draft wraps one record and is the only way to change it: typed setters
call Update, which applies the change and notifies subscribers. Nested
values (limitations, file requirements) are changed through setters that
also go through the owning draft, so every change is observed.

	d := draft.NewTaskDraft()
	cancel := d.Subscribe(func(t *types.Task) { render(t) })
	defer cancel()

	d.SetScript("/scripts/tck.sh")
	d.PlatformLimitation().SetFlag(types.LimitationWhitelist)
	d.SetListField(draft.ListRPMBlacklist, "debuginfo  devel")

Typed setters never fail. SetField is the string keyed entry point for
external input; it validates enumerated values and rejects unknown names
with ErrUnknownField.

Overwrite loads a stored record into the draft as a whole, filling fields
the record lacks with the editor defaults. Normalize drops blank entries
from filter lists in place just before submission; nothing else filters
lists, so blank entries in a stored record survive loading.
*/
package draft
