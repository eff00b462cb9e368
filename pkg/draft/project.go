package draft

import (
	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/types"
)

// JDKTestProjectDraft is the working copy of a JDK test project
type JDKTestProjectDraft struct {
	*Draft[*types.JDKTestProject]
}

// NewJDKTestProjectDraft returns a draft holding an empty test project
func NewJDKTestProjectDraft() *JDKTestProjectDraft {
	return &JDKTestProjectDraft{New(types.NewJDKTestProject(), (*types.JDKTestProject).Clone)}
}

func (d *JDKTestProjectDraft) SetID(id string) {
	d.Update(func(p *types.JDKTestProject) { p.ID = id })
}

func (d *JDKTestProjectDraft) SetProduct(product string) {
	d.Update(func(p *types.JDKTestProject) { p.Product = product })
}

func (d *JDKTestProjectDraft) SetBuildPlatform(platform string) {
	d.Update(func(p *types.JDKTestProject) { p.BuildPlatform = platform })
}

func (d *JDKTestProjectDraft) SetBuildProviders(providers []string) {
	d.Update(func(p *types.JDKTestProject) { p.BuildProviders = providers })
}

func (d *JDKTestProjectDraft) SetSubpackageBlacklist(list []string) {
	d.Update(func(p *types.JDKTestProject) { p.SubpackageBlacklist = list })
}

func (d *JDKTestProjectDraft) SetSubpackageWhitelist(list []string) {
	d.Update(func(p *types.JDKTestProject) { p.SubpackageWhitelist = list })
}

// SetJobConfiguration stores the job configuration produced by its own
// editor. The draft does not look inside it.
func (d *JDKTestProjectDraft) SetJobConfiguration(jc types.JobConfiguration) {
	d.Update(func(p *types.JDKTestProject) { p.JobConfiguration = jc })
}

// SetListField assigns the whitespace separated entries of raw to field
func (d *JDKTestProjectDraft) SetListField(field ListField, raw string) {
	list := SplitList(raw)
	switch field {
	case ListBuildProviders:
		d.SetBuildProviders(list)
	case ListSubpackageBlacklist:
		d.SetSubpackageBlacklist(list)
	case ListSubpackageWhitelist:
		d.SetSubpackageWhitelist(list)
	default:
		ignoreListField(types.KindJDKTestProject, field)
	}
}

// SetField sets a field from its string form
func (d *JDKTestProjectDraft) SetField(name, value string) error {
	switch name {
	case "id":
		d.SetID(value)
	case "product":
		d.SetProduct(value)
	case "buildPlatform":
		d.SetBuildPlatform(value)
	case string(ListBuildProviders), string(ListSubpackageBlacklist), string(ListSubpackageWhitelist):
		d.SetListField(ListField(name), value)
	default:
		return unknownField(types.KindJDKTestProject, name)
	}
	return nil
}

// Overwrite replaces the whole draft with remote. Missing lists and job
// configuration keep the editor defaults.
func (d *JDKTestProjectDraft) Overwrite(remote types.Item) bool {
	project, ok := remote.(*types.JDKTestProject)
	if !ok {
		return false
	}

	p := project.Clone()
	p.Type = types.ProjectTypeJDKTestProject
	p.BuildProviders = orEmpty(p.BuildProviders)
	p.SubpackageBlacklist = orEmpty(p.SubpackageBlacklist)
	p.SubpackageWhitelist = orEmpty(p.SubpackageWhitelist)
	// Clone always yields a non-nil platform map.

	d.Update(func(cur *types.JDKTestProject) { *cur = *p })
	return true
}

// JDKProjectDraft is the working copy of a JDK project
type JDKProjectDraft struct {
	*Draft[*types.JDKProject]
}

// NewJDKProjectDraft returns a draft holding an empty project
func NewJDKProjectDraft() *JDKProjectDraft {
	return &JDKProjectDraft{New(types.NewJDKProject(), (*types.JDKProject).Clone)}
}

func (d *JDKProjectDraft) SetID(id string) {
	d.Update(func(p *types.JDKProject) { p.ID = id })
}

func (d *JDKProjectDraft) SetProduct(product string) {
	d.Update(func(p *types.JDKProject) { p.Product = product })
}

func (d *JDKProjectDraft) SetURL(url string) {
	d.Update(func(p *types.JDKProject) { p.URL = url })
}

func (d *JDKProjectDraft) SetRepoState(state types.RepoState) {
	d.Update(func(p *types.JDKProject) { p.RepoState = state })
}

func (d *JDKProjectDraft) SetBuildProviders(providers []string) {
	d.Update(func(p *types.JDKProject) { p.BuildProviders = providers })
}

func (d *JDKProjectDraft) SetJobConfiguration(jc types.JobConfiguration) {
	d.Update(func(p *types.JDKProject) { p.JobConfiguration = jc })
}

// SetListField assigns the whitespace separated entries of raw to field
func (d *JDKProjectDraft) SetListField(field ListField, raw string) {
	switch field {
	case ListBuildProviders:
		d.SetBuildProviders(SplitList(raw))
	default:
		ignoreListField(types.KindJDKProject, field)
	}
}

// SetField sets a field from its string form. The repo state is validated.
func (d *JDKProjectDraft) SetField(name, value string) error {
	switch name {
	case "id":
		d.SetID(value)
	case "product":
		d.SetProduct(value)
	case "url":
		d.SetURL(value)
	case "repoState":
		state, err := types.ParseRepoState(value)
		if err != nil {
			return err
		}
		d.SetRepoState(state)
	case string(ListBuildProviders):
		d.SetListField(ListBuildProviders, value)
	default:
		return unknownField(types.KindJDKProject, name)
	}
	return nil
}

// Overwrite replaces the whole draft with remote. A missing repo state
// becomes NOT_CLONED; an unknown one is refused.
func (d *JDKProjectDraft) Overwrite(remote types.Item) bool {
	project, ok := remote.(*types.JDKProject)
	if !ok {
		return false
	}

	p := project.Clone()
	if err := p.Validate(); err != nil {
		logger := log.WithKind("draft", string(types.KindJDKProject))
		logger.Warn().
			Err(err).
			Str("item_id", p.ID).
			Msg("refusing to load invalid record")
		return false
	}
	p.Type = types.ProjectTypeJDKProject
	if p.RepoState == "" {
		p.RepoState = types.RepoNotCloned
	}
	p.BuildProviders = orEmpty(p.BuildProviders)

	d.Update(func(cur *types.JDKProject) { *cur = *p })
	return true
}
