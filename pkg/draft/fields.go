package draft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/types"
)

// ListField names a list-typed field that accepts whitespace separated text.
// Values match the SetField names of the owning draft.
type ListField string

const (
	ListPlatformLimitation  ListField = "platformLimitation.list"
	ListProductLimitation   ListField = "productLimitation.list"
	ListRPMBlacklist        ListField = "rpmLimitation.blacklist"
	ListRPMWhitelist        ListField = "rpmLimitation.whitelist"
	ListBuildProviders      ListField = "buildProviders"
	ListSubpackageBlacklist ListField = "subpackageBlacklist"
	ListSubpackageWhitelist ListField = "subpackageWhitelist"
	ListTags                ListField = "tags"
)

// SplitList splits raw on whitespace. Nothing is filtered here; the result
// of an all-blank input is an empty, non-nil list.
func SplitList(raw string) []string {
	fields := strings.Fields(raw)
	if fields == nil {
		return []string{}
	}
	return fields
}

func ignoreListField(kind types.Kind, field ListField) {
	logger := log.WithKind("draft", string(kind))
	logger.Debug().
		Str("field", string(field)).
		Msg("ignoring unknown list field")
}

func unknownField(kind types.Kind, name string) error {
	return fmt.Errorf("%s field %q: %w", kind, name, ErrUnknownField)
}

func parseBool(name, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s %q: %w", name, value, types.ErrInvalidValue)
	}
	return b, nil
}

// LimitationSetter mutates one Limitation sub-object through its owning draft
type LimitationSetter struct {
	update func(func(*types.Limitation))
}

// SetFlag sets the limitation flag
func (s LimitationSetter) SetFlag(flag types.LimitationFlag) {
	s.update(func(l *types.Limitation) { l.Flag = flag })
}

// SetList replaces the limitation list
func (s LimitationSetter) SetList(list []string) {
	s.update(func(l *types.Limitation) { l.List = list })
}

// SetListText replaces the limitation list with the whitespace separated
// entries of raw
func (s LimitationSetter) SetListText(raw string) {
	s.SetList(SplitList(raw))
}

// FileRequirementsSetter mutates the FileRequirements of a task draft
type FileRequirementsSetter struct {
	update func(func(*types.FileRequirements))
}

// SetSource sets whether sources are required
func (s FileRequirementsSetter) SetSource(source bool) {
	s.update(func(f *types.FileRequirements) { f.Source = source })
}

// SetBinary sets the binary requirement
func (s FileRequirementsSetter) SetBinary(binary types.BinaryRequirement) {
	s.update(func(f *types.FileRequirements) { f.Binary = binary })
}
