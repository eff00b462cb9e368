package draft

import (
	"sync"
	"testing"
	"time"

	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeNotifiesOnEveryUpdate(t *testing.T) {
	d := NewTaskDraft()

	var seen []string
	cancel := d.Subscribe(func(task *types.Task) {
		seen = append(seen, task.Script)
	})

	d.SetScript("a.sh")
	d.SetScript("b.sh")
	cancel()
	d.SetScript("c.sh")

	assert.Equal(t, []string{"a.sh", "b.sh"}, seen)
}

func TestSubscribersGetCopy(t *testing.T) {
	d := NewTaskDraft()

	var mu sync.Mutex
	var seen []string
	d.Subscribe(func(task *types.Task) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, task.Script)
		task.Script = "changed by subscriber"
	})

	var wg sync.WaitGroup
	for _, script := range []string{"a.sh", "b.sh"} {
		wg.Add(1)
		go func(script string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.SetScript(script)
			}
		}(script)
	}
	wg.Wait()

	assert.Len(t, seen, 200)
	assert.Contains(t, []string{"a.sh", "b.sh"}, d.Snapshot().Script)
}

func TestNestedSettersNotify(t *testing.T) {
	d := NewTaskDraft()

	calls := 0
	d.Subscribe(func(*types.Task) { calls++ })

	d.PlatformLimitation().SetFlag(types.LimitationWhitelist)
	d.ProductLimitation().SetListText("jdk17 jdk21")
	d.FileRequirements().SetSource(true)
	d.FileRequirements().SetBinary(types.BinaryBinaries)

	assert.Equal(t, 4, calls)

	task := d.Snapshot()
	assert.Equal(t, types.LimitationWhitelist, task.PlatformLimitation.Flag)
	assert.Equal(t, []string{"jdk17", "jdk21"}, task.ProductLimitation.List)
	assert.True(t, task.FileRequirements.Source)
	assert.Equal(t, types.BinaryBinaries, task.FileRequirements.Binary)
}

func TestSnapshotIsIndependent(t *testing.T) {
	d := NewTaskDraft()
	d.SetRPMBlacklist([]string{"debuginfo"})

	snap := d.Snapshot()
	snap.RPMLimitation.Blacklist[0] = "devel"

	assert.Equal(t, "debuginfo", d.Snapshot().RPMLimitation.Blacklist[0])
}

func TestItemIsLiveState(t *testing.T) {
	d := NewTaskDraft()
	item := d.Item()
	d.SetID("tck")

	assert.Equal(t, "tck", item.GetID())
	assert.Equal(t, "tck", d.CurrentID())
	assert.Equal(t, types.KindTask, d.Kind())
}

func TestAttachPublishesDraftChanged(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	d := NewPlatformDraft()
	d.Attach(broker)
	d.SetID("el8.x86_64")

	select {
	case event := <-sub:
		assert.Equal(t, events.EventDraftChanged, event.Type)
		assert.Equal(t, string(types.KindPlatform), event.Kind)
		assert.Equal(t, "el8.x86_64", event.ItemID)
	case <-time.After(time.Second):
		t.Fatal("no draft.changed event")
	}
}

func TestTaskDefaults(t *testing.T) {
	task := NewTaskDraft().Snapshot()

	assert.Equal(t, types.TaskTypeTest, task.Type)
	assert.Equal(t, types.MachineVM, task.MachinePreference)
	assert.Equal(t, types.LimitationNone, task.PlatformLimitation.Flag)
	assert.Equal(t, types.LimitationNone, task.ProductLimitation.Flag)
	assert.Empty(t, task.PlatformLimitation.List)
	assert.False(t, task.FileRequirements.Source)
	assert.Equal(t, types.BinaryNone, task.FileRequirements.Binary)
	assert.Empty(t, task.ID)
	assert.Empty(t, task.Script)
}

func TestSetListFieldSplitsVerbatim(t *testing.T) {
	d := NewJDKTestProjectDraft()

	d.SetListField(ListSubpackageWhitelist, "core  tools")
	assert.Equal(t, []string{"core", "tools"}, d.Snapshot().SubpackageWhitelist)

	d.Normalize()
	assert.Equal(t, []string{"core", "tools"}, d.Snapshot().SubpackageWhitelist)

	d.SetListField(ListSubpackageBlacklist, "   ")
	assert.Equal(t, []string{}, d.Snapshot().SubpackageBlacklist)

	task := NewTaskDraft()
	task.SetListField(ListPlatformLimitation, " el8.x86_64\tf40.x86_64 ")
	task.SetListField(ListProductLimitation, "")
	snap := task.Snapshot()
	assert.Equal(t, []string{"el8.x86_64", "f40.x86_64"}, snap.PlatformLimitation.List)
	assert.Equal(t, []string{}, snap.ProductLimitation.List)
}

func TestSetListFieldIgnoresUnknownField(t *testing.T) {
	d := NewTaskDraft()
	before := d.Snapshot()

	d.SetListField(ListTags, "gui")

	assert.Equal(t, before, d.Snapshot())
}

func TestTaskSetField(t *testing.T) {
	d := NewTaskDraft()

	require.NoError(t, d.SetField("id", "tck"))
	require.NoError(t, d.SetField("type", "BUILD"))
	require.NoError(t, d.SetField("machinePreference", "HW_ONLY"))
	require.NoError(t, d.SetField("platformLimitation.flag", "BLACKLIST"))
	require.NoError(t, d.SetField("platformLimitation.list", "el6.x86_64 el7.x86_64"))
	require.NoError(t, d.SetField("fileRequirements.source", "true"))
	require.NoError(t, d.SetField("fileRequirements.binary", "BINARY"))
	require.NoError(t, d.SetField("rpmLimitation.whitelist", "java-17-openjdk"))

	task := d.Snapshot()
	assert.Equal(t, "tck", task.ID)
	assert.Equal(t, types.TaskTypeBuild, task.Type)
	assert.Equal(t, types.MachineHWOnly, task.MachinePreference)
	assert.Equal(t, types.LimitationBlacklist, task.PlatformLimitation.Flag)
	assert.Equal(t, []string{"el6.x86_64", "el7.x86_64"}, task.PlatformLimitation.List)
	assert.True(t, task.FileRequirements.Source)
	assert.Equal(t, types.BinaryBinary, task.FileRequirements.Binary)
	assert.Equal(t, []string{"java-17-openjdk"}, task.RPMLimitation.Whitelist)
}

func TestSetFieldRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		draft Editable
		field string
		value string
		want  error
	}{
		{"task type", NewTaskDraft(), "type", "DEPLOY", types.ErrInvalidValue},
		{"task source", NewTaskDraft(), "fileRequirements.source", "maybe", types.ErrInvalidValue},
		{"task unknown", NewTaskDraft(), "owner", "me", ErrUnknownField},
		{"project repo state", NewJDKProjectDraft(), "repoState", "LOST", types.ErrInvalidValue},
		{"test project unknown", NewJDKTestProjectDraft(), "url", "http://x", ErrUnknownField},
		{"platform variables", NewPlatformDraft(), "variables", "NOVALUE", types.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.draft.SetField(tt.field, tt.value), tt.want)
		})
	}
}

func TestPlatformSetField(t *testing.T) {
	d := NewPlatformDraft()

	require.NoError(t, d.SetField("id", "el8.x86_64"))
	require.NoError(t, d.SetField("os", "el"))
	require.NoError(t, d.SetField("tags", "gui  wayland"))
	require.NoError(t, d.SetField("variables", "ARCH=x86_64 EMPTY="))

	p := d.Snapshot()
	assert.Equal(t, "el", p.OS)
	assert.Equal(t, []string{"gui", "wayland"}, p.Tags)
	assert.Equal(t, []types.Variable{{Name: "ARCH", Value: "x86_64"}, {Name: "EMPTY", Value: ""}}, p.Variables)
}

func TestOverwriteTaskFillsDefaults(t *testing.T) {
	d := NewTaskDraft()
	d.SetScript("local edit")

	remote := &types.Task{
		ID:     "tck",
		Type:   types.TaskTypeBuild,
		Script: "/scripts/tck.sh",
		PlatformLimitation: types.Limitation{
			Flag: types.LimitationWhitelist,
			List: []string{"el8.x86_64"},
		},
	}
	require.True(t, d.Overwrite(remote))

	task := d.Snapshot()
	assert.Equal(t, "tck", task.ID)
	assert.Equal(t, types.TaskTypeBuild, task.Type)
	assert.Equal(t, "/scripts/tck.sh", task.Script)
	assert.Equal(t, []string{"el8.x86_64"}, task.PlatformLimitation.List)
	assert.Equal(t, types.MachineVM, task.MachinePreference)
	assert.Equal(t, types.NewLimitation(), task.ProductLimitation)
	assert.Equal(t, types.BinaryNone, task.FileRequirements.Binary)
	assert.Equal(t, []string{}, task.RPMLimitation.Blacklist)

	// The draft does not alias the remote record.
	d.PlatformLimitation().SetListText("f36.x86_64")
	assert.Equal(t, []string{"el8.x86_64"}, remote.PlatformLimitation.List)
}

func TestOverwriteRejectsInvalidRecord(t *testing.T) {
	d := NewTaskDraft()
	d.SetScript("local edit")

	assert.False(t, d.Overwrite(&types.Task{ID: "tck", MachinePreference: "CLOUD"}))
	assert.False(t, d.Overwrite(&types.Platform{ID: "el8.x86_64"}))

	assert.Equal(t, "local edit", d.Snapshot().Script)
	assert.Empty(t, d.CurrentID())
}

func TestOverwriteJDKTestProjectKeepsBlankEntries(t *testing.T) {
	d := NewJDKTestProjectDraft()

	remote := &types.JDKTestProject{
		ID:                  "jdk17-tests",
		Product:             "jdk17",
		SubpackageBlacklist: []string{"", "debuginfo", "  "},
	}
	require.True(t, d.Overwrite(remote))

	p := d.Snapshot()
	assert.Equal(t, types.ProjectTypeJDKTestProject, p.Type)
	assert.Equal(t, []string{"", "debuginfo", "  "}, p.SubpackageBlacklist)
	assert.Equal(t, []string{}, p.SubpackageWhitelist)
	assert.Equal(t, []string{}, p.BuildProviders)
	assert.Equal(t, types.NewJobConfiguration(), p.JobConfiguration)
}

func TestOverwriteJDKProject(t *testing.T) {
	d := NewJDKProjectDraft()

	require.True(t, d.Overwrite(&types.JDKProject{ID: "jdk17u", URL: "https://git/jdk17u"}))
	p := d.Snapshot()
	assert.Equal(t, types.RepoNotCloned, p.RepoState)
	assert.Equal(t, "https://git/jdk17u", p.URL)

	assert.False(t, d.Overwrite(&types.JDKProject{ID: "bad", RepoState: "LOST"}))
	assert.Equal(t, "jdk17u", d.CurrentID())
}
