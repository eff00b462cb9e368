package draft

import (
	"fmt"
	"strings"

	"github.com/fakekoji/otool/pkg/types"
)

// PlatformDraft is the working copy of a platform
type PlatformDraft struct {
	*Draft[*types.Platform]
}

// NewPlatformDraft returns a draft holding an empty platform
func NewPlatformDraft() *PlatformDraft {
	return &PlatformDraft{New(types.NewPlatform(), (*types.Platform).Clone)}
}

func (d *PlatformDraft) SetID(id string) {
	d.Update(func(p *types.Platform) { p.ID = id })
}

func (d *PlatformDraft) SetOS(os string) {
	d.Update(func(p *types.Platform) { p.OS = os })
}

func (d *PlatformDraft) SetVersion(version string) {
	d.Update(func(p *types.Platform) { p.Version = version })
}

func (d *PlatformDraft) SetVersionNumber(number string) {
	d.Update(func(p *types.Platform) { p.VersionNumber = number })
}

func (d *PlatformDraft) SetArchitecture(arch string) {
	d.Update(func(p *types.Platform) { p.Architecture = arch })
}

func (d *PlatformDraft) SetKernel(kernel string) {
	d.Update(func(p *types.Platform) { p.Kernel = kernel })
}

func (d *PlatformDraft) SetVMName(name string) {
	d.Update(func(p *types.Platform) { p.VMName = name })
}

func (d *PlatformDraft) SetTags(tags []string) {
	d.Update(func(p *types.Platform) { p.Tags = tags })
}

func (d *PlatformDraft) SetProviders(providers []types.PlatformProvider) {
	d.Update(func(p *types.Platform) { p.Providers = providers })
}

func (d *PlatformDraft) SetVariables(variables []types.Variable) {
	d.Update(func(p *types.Platform) { p.Variables = variables })
}

// SetListField assigns the whitespace separated entries of raw to field
func (d *PlatformDraft) SetListField(field ListField, raw string) {
	switch field {
	case ListTags:
		d.SetTags(SplitList(raw))
	default:
		ignoreListField(types.KindPlatform, field)
	}
}

// SetField sets a field from its string form. Variables are given as
// whitespace separated NAME=value pairs.
func (d *PlatformDraft) SetField(name, value string) error {
	switch name {
	case "id":
		d.SetID(value)
	case "os":
		d.SetOS(value)
	case "version":
		d.SetVersion(value)
	case "versionNumber":
		d.SetVersionNumber(value)
	case "architecture":
		d.SetArchitecture(value)
	case "kernel":
		d.SetKernel(value)
	case "vmName":
		d.SetVMName(value)
	case string(ListTags):
		d.SetListField(ListTags, value)
	case "variables":
		variables, err := parseVariables(value)
		if err != nil {
			return err
		}
		d.SetVariables(variables)
	default:
		return unknownField(types.KindPlatform, name)
	}
	return nil
}

func parseVariables(raw string) ([]types.Variable, error) {
	variables := []types.Variable{}
	for _, pair := range strings.Fields(raw) {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("variable %q: %w", pair, types.ErrInvalidValue)
		}
		variables = append(variables, types.Variable{Name: name, Value: value})
	}
	return variables, nil
}

// Overwrite replaces the whole draft with remote. Missing lists become empty.
func (d *PlatformDraft) Overwrite(remote types.Item) bool {
	platform, ok := remote.(*types.Platform)
	if !ok {
		return false
	}

	p := platform.Clone()
	p.Tags = orEmpty(p.Tags)

	d.Update(func(cur *types.Platform) { *cur = *p })
	return true
}
