package types

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is returned when an enumerated field receives a value
// outside its closed set
var ErrInvalidValue = errors.New("invalid value")

// Kind discriminates configuration entities
type Kind string

const (
	KindTask           Kind = "task"
	KindJDKProject     Kind = "jdkProject"
	KindJDKTestProject Kind = "jdkTestProject"
	KindPlatform       Kind = "platform"
	KindProduct        Kind = "product"
	KindBuildProvider  Kind = "buildProvider"
)

// Kinds lists every entity kind known to the store
var Kinds = []Kind{
	KindTask,
	KindJDKProject,
	KindJDKTestProject,
	KindPlatform,
	KindProduct,
	KindBuildProvider,
}

// Item is any configuration entity, uniquely identified by its ID within
// its kind
type Item interface {
	GetID() string
	Kind() Kind
}

// LimitationFlag selects how a Limitation list is applied
type LimitationFlag string

const (
	LimitationNone      LimitationFlag = "NONE"
	LimitationWhitelist LimitationFlag = "WHITELIST"
	LimitationBlacklist LimitationFlag = "BLACKLIST"
)

// ParseLimitationFlag validates s as a LimitationFlag
func ParseLimitationFlag(s string) (LimitationFlag, error) {
	switch f := LimitationFlag(s); f {
	case LimitationNone, LimitationWhitelist, LimitationBlacklist:
		return f, nil
	}
	return "", fmt.Errorf("limitation flag %q: %w", s, ErrInvalidValue)
}

// Limitation restricts applicability of an entity by a list of ids
// (platforms, products). List is a set; order is kept for display only.
type Limitation struct {
	Flag LimitationFlag `json:"flag" yaml:"flag"`
	List []string       `json:"list" yaml:"list"`
}

// NewLimitation returns the default, unrestricted limitation
func NewLimitation() Limitation {
	return Limitation{Flag: LimitationNone, List: []string{}}
}

// Clone returns a deep copy
func (l Limitation) Clone() Limitation {
	return Limitation{Flag: l.Flag, List: cloneStrings(l.List)}
}

// BinaryRequirement describes which binaries a task needs
type BinaryRequirement string

const (
	BinaryNone     BinaryRequirement = "NONE"
	BinaryBinary   BinaryRequirement = "BINARY"
	BinaryBinaries BinaryRequirement = "BINARIES"
)

// ParseBinaryRequirement validates s as a BinaryRequirement
func ParseBinaryRequirement(s string) (BinaryRequirement, error) {
	switch b := BinaryRequirement(s); b {
	case BinaryNone, BinaryBinary, BinaryBinaries:
		return b, nil
	}
	return "", fmt.Errorf("binary requirement %q: %w", s, ErrInvalidValue)
}

// FileRequirements describes source and binary prerequisites of a task
type FileRequirements struct {
	Source bool              `json:"source" yaml:"source"`
	Binary BinaryRequirement `json:"binary" yaml:"binary"`
}

// TaskType is the stage a task runs in
type TaskType string

const (
	TaskTypeBuild TaskType = "BUILD"
	TaskTypeTest  TaskType = "TEST"
)

// ParseTaskType validates s as a TaskType
func ParseTaskType(s string) (TaskType, error) {
	switch t := TaskType(s); t {
	case TaskTypeBuild, TaskTypeTest:
		return t, nil
	}
	return "", fmt.Errorf("task type %q: %w", s, ErrInvalidValue)
}

// MachinePreference selects the kind of machine a task runs on
type MachinePreference string

const (
	MachineVM     MachinePreference = "VM"
	MachineVMOnly MachinePreference = "VM_ONLY"
	MachineHW     MachinePreference = "HW"
	MachineHWOnly MachinePreference = "HW_ONLY"
)

// ParseMachinePreference validates s as a MachinePreference
func ParseMachinePreference(s string) (MachinePreference, error) {
	switch m := MachinePreference(s); m {
	case MachineVM, MachineVMOnly, MachineHW, MachineHWOnly:
		return m, nil
	}
	return "", fmt.Errorf("machine preference %q: %w", s, ErrInvalidValue)
}

// RPMLimitation filters the packages a task operates on
type RPMLimitation struct {
	Blacklist []string `json:"blacklist" yaml:"blacklist"`
	Whitelist []string `json:"whitelist" yaml:"whitelist"`
}

// Task is a build or test step run for every matching project job
type Task struct {
	ID                 string            `json:"id" yaml:"id"`
	Type               TaskType          `json:"type" yaml:"type"`
	MachinePreference  MachinePreference `json:"machinePreference" yaml:"machinePreference"`
	SCMPollSchedule    string            `json:"scmPollSchedule" yaml:"scmPollSchedule"`
	Script             string            `json:"script" yaml:"script"`
	PlatformLimitation Limitation        `json:"platformLimitation" yaml:"platformLimitation"`
	ProductLimitation  Limitation        `json:"productLimitation" yaml:"productLimitation"`
	FileRequirements   FileRequirements  `json:"fileRequirements" yaml:"fileRequirements"`
	XMLTemplate        string            `json:"xmlTemplate" yaml:"xmlTemplate"`
	RPMLimitation      RPMLimitation     `json:"rpmLimitation" yaml:"rpmLimitation"`
}

func (t *Task) GetID() string { return t.ID }
func (t *Task) Kind() Kind    { return KindTask }

// NewTask returns a task with editor defaults
func NewTask() *Task {
	return &Task{
		Type:               TaskTypeTest,
		MachinePreference:  MachineVM,
		PlatformLimitation: NewLimitation(),
		ProductLimitation:  NewLimitation(),
		FileRequirements:   FileRequirements{Binary: BinaryNone},
		RPMLimitation:      RPMLimitation{Blacklist: []string{}, Whitelist: []string{}},
	}
}

// Clone returns a deep copy
func (t *Task) Clone() *Task {
	c := *t
	c.PlatformLimitation = t.PlatformLimitation.Clone()
	c.ProductLimitation = t.ProductLimitation.Clone()
	c.RPMLimitation = RPMLimitation{
		Blacklist: cloneStrings(t.RPMLimitation.Blacklist),
		Whitelist: cloneStrings(t.RPMLimitation.Whitelist),
	}
	return &c
}

// Validate checks enumerated fields of a record entering from outside
func (t *Task) Validate() error {
	if _, err := ParseTaskType(string(t.Type)); err != nil {
		return err
	}
	if _, err := ParseMachinePreference(string(t.MachinePreference)); err != nil {
		return err
	}
	if _, err := ParseBinaryRequirement(string(t.FileRequirements.Binary)); err != nil {
		return err
	}
	if _, err := ParseLimitationFlag(string(t.PlatformLimitation.Flag)); err != nil {
		return err
	}
	_, err := ParseLimitationFlag(string(t.ProductLimitation.Flag))
	return err
}

// ProjectType tags the project variants
type ProjectType string

const (
	ProjectTypeJDKProject     ProjectType = "JDK_PROJECT"
	ProjectTypeJDKTestProject ProjectType = "JDK_TEST_PROJECT"
)

// JobConfiguration is keyed by platform id. Its values are owned by an
// external editor and are carried through untouched.
type JobConfiguration struct {
	Platforms map[string]any `json:"platforms" yaml:"platforms"`
}

// NewJobConfiguration returns an empty job configuration
func NewJobConfiguration() JobConfiguration {
	return JobConfiguration{Platforms: map[string]any{}}
}

// Clone returns a deep copy
func (j JobConfiguration) Clone() JobConfiguration {
	c := NewJobConfiguration()
	for k, v := range j.Platforms {
		c.Platforms[k] = deepCopy(v)
	}
	return c
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	}
	return v
}

// JDKTestProject runs tests against builds of an existing product
type JDKTestProject struct {
	ID                  string           `json:"id" yaml:"id"`
	Type                ProjectType      `json:"type" yaml:"type"`
	Product             string           `json:"product" yaml:"product"`
	BuildPlatform       string           `json:"buildPlatform" yaml:"buildPlatform"`
	BuildProviders      []string         `json:"buildProviders" yaml:"buildProviders"`
	SubpackageBlacklist []string         `json:"subpackageBlacklist" yaml:"subpackageBlacklist"`
	SubpackageWhitelist []string         `json:"subpackageWhitelist" yaml:"subpackageWhitelist"`
	JobConfiguration    JobConfiguration `json:"jobConfiguration" yaml:"jobConfiguration"`
}

func (p *JDKTestProject) GetID() string { return p.ID }
func (p *JDKTestProject) Kind() Kind    { return KindJDKTestProject }

// NewJDKTestProject returns a test project with editor defaults
func NewJDKTestProject() *JDKTestProject {
	return &JDKTestProject{
		Type:                ProjectTypeJDKTestProject,
		BuildProviders:      []string{},
		SubpackageBlacklist: []string{},
		SubpackageWhitelist: []string{},
		JobConfiguration:    NewJobConfiguration(),
	}
}

// Clone returns a deep copy
func (p *JDKTestProject) Clone() *JDKTestProject {
	c := *p
	c.BuildProviders = cloneStrings(p.BuildProviders)
	c.SubpackageBlacklist = cloneStrings(p.SubpackageBlacklist)
	c.SubpackageWhitelist = cloneStrings(p.SubpackageWhitelist)
	c.JobConfiguration = p.JobConfiguration.Clone()
	return &c
}

// RepoState tracks the local clone of a project repository
type RepoState string

const (
	RepoNotCloned  RepoState = "NOT_CLONED"
	RepoCloned     RepoState = "CLONED"
	RepoCloneError RepoState = "CLONE_ERROR"
	RepoCloning    RepoState = "CLONING"
)

// ParseRepoState validates s as a RepoState
func ParseRepoState(s string) (RepoState, error) {
	switch r := RepoState(s); r {
	case RepoNotCloned, RepoCloned, RepoCloneError, RepoCloning:
		return r, nil
	}
	return "", fmt.Errorf("repo state %q: %w", s, ErrInvalidValue)
}

// JDKProject builds a product from a source repository
type JDKProject struct {
	ID               string           `json:"id" yaml:"id"`
	Type             ProjectType      `json:"type" yaml:"type"`
	Product          string           `json:"product" yaml:"product"`
	URL              string           `json:"url" yaml:"url"`
	RepoState        RepoState        `json:"repoState" yaml:"repoState"`
	BuildProviders   []string         `json:"buildProviders" yaml:"buildProviders"`
	JobConfiguration JobConfiguration `json:"jobConfiguration" yaml:"jobConfiguration"`
}

func (p *JDKProject) GetID() string { return p.ID }
func (p *JDKProject) Kind() Kind    { return KindJDKProject }

// NewJDKProject returns a project with editor defaults
func NewJDKProject() *JDKProject {
	return &JDKProject{
		Type:             ProjectTypeJDKProject,
		RepoState:        RepoNotCloned,
		BuildProviders:   []string{},
		JobConfiguration: NewJobConfiguration(),
	}
}

// Clone returns a deep copy
func (p *JDKProject) Clone() *JDKProject {
	c := *p
	c.BuildProviders = cloneStrings(p.BuildProviders)
	c.JobConfiguration = p.JobConfiguration.Clone()
	return &c
}

// Validate checks enumerated fields of a record entering from outside.
// A missing repo state is accepted and later defaulted.
func (p *JDKProject) Validate() error {
	if p.RepoState == "" {
		return nil
	}
	_, err := ParseRepoState(string(p.RepoState))
	return err
}

// PlatformProvider lists the nodes a build provider offers for a platform
type PlatformProvider struct {
	ID      string   `json:"id" yaml:"id"`
	HWNodes []string `json:"hwNodes" yaml:"hwNodes"`
	VMNodes []string `json:"vmNodes" yaml:"vmNodes"`
}

// Variable is a name/value pair exported to jobs running on a platform
type Variable struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Platform is an OS/architecture combination jobs can run on
type Platform struct {
	ID            string             `json:"id" yaml:"id"`
	OS            string             `json:"os" yaml:"os"`
	Version       string             `json:"version" yaml:"version"`
	VersionNumber string             `json:"versionNumber" yaml:"versionNumber"`
	Architecture  string             `json:"architecture" yaml:"architecture"`
	Kernel        string             `json:"kernel" yaml:"kernel"`
	VMName        string             `json:"vmName" yaml:"vmName"`
	Tags          []string           `json:"tags" yaml:"tags"`
	Providers     []PlatformProvider `json:"providers" yaml:"providers"`
	Variables     []Variable         `json:"variables" yaml:"variables"`
}

func (p *Platform) GetID() string { return p.ID }
func (p *Platform) Kind() Kind    { return KindPlatform }

// NewPlatform returns a platform with editor defaults
func NewPlatform() *Platform {
	return &Platform{
		Tags:      []string{},
		Providers: []PlatformProvider{},
		Variables: []Variable{},
	}
}

// Clone returns a deep copy
func (p *Platform) Clone() *Platform {
	c := *p
	c.Tags = cloneStrings(p.Tags)
	c.Providers = make([]PlatformProvider, len(p.Providers))
	for i, pp := range p.Providers {
		c.Providers[i] = PlatformProvider{
			ID:      pp.ID,
			HWNodes: cloneStrings(pp.HWNodes),
			VMNodes: cloneStrings(pp.VMNodes),
		}
	}
	c.Variables = append([]Variable{}, p.Variables...)
	return &c
}

// Product is a reference record offered as a choice to projects and tasks
type Product struct {
	ID          string `json:"id" yaml:"id"`
	PackageName string `json:"packageName" yaml:"packageName"`
}

func (p *Product) GetID() string { return p.ID }
func (p *Product) Kind() Kind    { return KindProduct }

// BuildProvider is a reference record naming a source of builds
type BuildProvider struct {
	ID          string `json:"id" yaml:"id"`
	TopURL      string `json:"topUrl" yaml:"topUrl"`
	DownloadURL string `json:"downloadUrl" yaml:"downloadUrl"`
}

func (b *BuildProvider) GetID() string { return b.ID }
func (b *BuildProvider) Kind() Kind    { return KindBuildProvider }

// Validator is implemented by records with enumerated fields
type Validator interface {
	Validate() error
}

// New returns an empty record of the given kind, or nil for an unknown kind
func New(kind Kind) Item {
	switch kind {
	case KindTask:
		return &Task{}
	case KindJDKProject:
		return &JDKProject{}
	case KindJDKTestProject:
		return &JDKTestProject{}
	case KindPlatform:
		return &Platform{}
	case KindProduct:
		return &Product{}
	case KindBuildProvider:
		return &BuildProvider{}
	}
	return nil
}

// JobUpdateResult reports what happened to a single generated job
type JobUpdateResult struct {
	JobName string `json:"jobName" yaml:"jobName"`
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// JobUpdateResults is the outcome of a successful create or update
type JobUpdateResults struct {
	JobsCreated   []JobUpdateResult `json:"jobsCreated" yaml:"jobsCreated"`
	JobsArchived  []JobUpdateResult `json:"jobsArchived" yaml:"jobsArchived"`
	JobsRewritten []JobUpdateResult `json:"jobsRewritten" yaml:"jobsRewritten"`
	JobsRevived   []JobUpdateResult `json:"jobsRevived" yaml:"jobsRevived"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
