package draft

import (
	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/types"
)

// TaskDraft is the working copy of a task
type TaskDraft struct {
	*Draft[*types.Task]
}

// NewTaskDraft returns a draft holding a task with editor defaults
func NewTaskDraft() *TaskDraft {
	return &TaskDraft{New(types.NewTask(), (*types.Task).Clone)}
}

func (d *TaskDraft) SetID(id string) {
	d.Update(func(t *types.Task) { t.ID = id })
}

func (d *TaskDraft) SetType(typ types.TaskType) {
	d.Update(func(t *types.Task) { t.Type = typ })
}

func (d *TaskDraft) SetMachinePreference(pref types.MachinePreference) {
	d.Update(func(t *types.Task) { t.MachinePreference = pref })
}

func (d *TaskDraft) SetSCMPollSchedule(schedule string) {
	d.Update(func(t *types.Task) { t.SCMPollSchedule = schedule })
}

func (d *TaskDraft) SetScript(script string) {
	d.Update(func(t *types.Task) { t.Script = script })
}

func (d *TaskDraft) SetXMLTemplate(template string) {
	d.Update(func(t *types.Task) { t.XMLTemplate = template })
}

func (d *TaskDraft) SetRPMBlacklist(list []string) {
	d.Update(func(t *types.Task) { t.RPMLimitation.Blacklist = list })
}

func (d *TaskDraft) SetRPMWhitelist(list []string) {
	d.Update(func(t *types.Task) { t.RPMLimitation.Whitelist = list })
}

// PlatformLimitation returns a setter for the platform limitation
func (d *TaskDraft) PlatformLimitation() LimitationSetter {
	return LimitationSetter{update: func(fn func(*types.Limitation)) {
		d.Update(func(t *types.Task) { fn(&t.PlatformLimitation) })
	}}
}

// ProductLimitation returns a setter for the product limitation
func (d *TaskDraft) ProductLimitation() LimitationSetter {
	return LimitationSetter{update: func(fn func(*types.Limitation)) {
		d.Update(func(t *types.Task) { fn(&t.ProductLimitation) })
	}}
}

// FileRequirements returns a setter for the file requirements
func (d *TaskDraft) FileRequirements() FileRequirementsSetter {
	return FileRequirementsSetter{update: func(fn func(*types.FileRequirements)) {
		d.Update(func(t *types.Task) { fn(&t.FileRequirements) })
	}}
}

// SetListField assigns the whitespace separated entries of raw to field
func (d *TaskDraft) SetListField(field ListField, raw string) {
	switch field {
	case ListPlatformLimitation:
		d.PlatformLimitation().SetListText(raw)
	case ListProductLimitation:
		d.ProductLimitation().SetListText(raw)
	case ListRPMBlacklist:
		d.SetRPMBlacklist(SplitList(raw))
	case ListRPMWhitelist:
		d.SetRPMWhitelist(SplitList(raw))
	default:
		ignoreListField(types.KindTask, field)
	}
}

// SetField sets a field from its string form. Enumerated values are
// validated.
func (d *TaskDraft) SetField(name, value string) error {
	switch name {
	case "id":
		d.SetID(value)
	case "type":
		typ, err := types.ParseTaskType(value)
		if err != nil {
			return err
		}
		d.SetType(typ)
	case "machinePreference":
		pref, err := types.ParseMachinePreference(value)
		if err != nil {
			return err
		}
		d.SetMachinePreference(pref)
	case "scmPollSchedule":
		d.SetSCMPollSchedule(value)
	case "script":
		d.SetScript(value)
	case "xmlTemplate":
		d.SetXMLTemplate(value)
	case "platformLimitation.flag":
		flag, err := types.ParseLimitationFlag(value)
		if err != nil {
			return err
		}
		d.PlatformLimitation().SetFlag(flag)
	case "productLimitation.flag":
		flag, err := types.ParseLimitationFlag(value)
		if err != nil {
			return err
		}
		d.ProductLimitation().SetFlag(flag)
	case "fileRequirements.source":
		source, err := parseBool(name, value)
		if err != nil {
			return err
		}
		d.FileRequirements().SetSource(source)
	case "fileRequirements.binary":
		binary, err := types.ParseBinaryRequirement(value)
		if err != nil {
			return err
		}
		d.FileRequirements().SetBinary(binary)
	case string(ListPlatformLimitation), string(ListProductLimitation),
		string(ListRPMBlacklist), string(ListRPMWhitelist):
		d.SetListField(ListField(name), value)
	default:
		return unknownField(types.KindTask, name)
	}
	return nil
}

// Overwrite replaces the whole draft with remote. Fields missing on remote
// keep the editor defaults. It reports false, leaving the draft untouched,
// when remote is not a valid task.
func (d *TaskDraft) Overwrite(remote types.Item) bool {
	task, ok := remote.(*types.Task)
	if !ok {
		return false
	}

	t := task.Clone()
	def := types.NewTask()
	if t.Type == "" {
		t.Type = def.Type
	}
	if t.MachinePreference == "" {
		t.MachinePreference = def.MachinePreference
	}
	t.PlatformLimitation = limitationWithDefaults(t.PlatformLimitation)
	t.ProductLimitation = limitationWithDefaults(t.ProductLimitation)
	if t.FileRequirements.Binary == "" {
		t.FileRequirements.Binary = def.FileRequirements.Binary
	}
	t.RPMLimitation.Blacklist = orEmpty(t.RPMLimitation.Blacklist)
	t.RPMLimitation.Whitelist = orEmpty(t.RPMLimitation.Whitelist)

	if err := t.Validate(); err != nil {
		logger := log.WithKind("draft", string(types.KindTask))
		logger.Warn().
			Err(err).
			Str("item_id", t.ID).
			Msg("refusing to load invalid record")
		return false
	}

	d.Update(func(cur *types.Task) { *cur = *t })
	return true
}

func limitationWithDefaults(l types.Limitation) types.Limitation {
	if l.Flag == "" {
		l.Flag = types.LimitationNone
	}
	l.List = orEmpty(l.List)
	return l
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
