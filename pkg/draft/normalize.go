package draft

import (
	"strings"

	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/types"
)

// Normalize returns the entries of list that are not empty or whitespace
// only, in their original order. Entries are not trimmed.
func Normalize(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if strings.TrimSpace(e) != "" {
			out = append(out, e)
		}
	}
	return out
}

// normalizeInto replaces *list with its normalized form and returns the
// number of dropped entries
func normalizeInto(list *[]string) int {
	before := len(*list)
	*list = Normalize(*list)
	return before - len(*list)
}

func reportDropped(kind types.Kind, id string, dropped int) {
	if dropped == 0 {
		return
	}
	metrics.NormalizedEntriesDropped.WithLabelValues(string(kind)).Add(float64(dropped))
	logger := log.WithKind("draft", string(kind))
	logger.Debug().
		Str("item_id", id).
		Int("dropped", dropped).
		Msg("dropped blank list entries")
}

// Normalize drops blank entries from the limitation lists and the RPM
// black and white lists, in place
func (d *TaskDraft) Normalize() {
	var dropped int
	var id string
	d.Update(func(t *types.Task) {
		dropped += normalizeInto(&t.PlatformLimitation.List)
		dropped += normalizeInto(&t.ProductLimitation.List)
		dropped += normalizeInto(&t.RPMLimitation.Blacklist)
		dropped += normalizeInto(&t.RPMLimitation.Whitelist)
		id = t.ID
	})
	reportDropped(types.KindTask, id, dropped)
}

// Normalize drops blank entries from the subpackage black and white lists,
// in place
func (d *JDKTestProjectDraft) Normalize() {
	var dropped int
	var id string
	d.Update(func(p *types.JDKTestProject) {
		dropped += normalizeInto(&p.SubpackageBlacklist)
		dropped += normalizeInto(&p.SubpackageWhitelist)
		id = p.ID
	})
	reportDropped(types.KindJDKTestProject, id, dropped)
}

// Normalize is a no-op: a JDK project has no filter lists
func (d *JDKProjectDraft) Normalize() {}

// Normalize is a no-op: a platform has no filter lists
func (d *PlatformDraft) Normalize() {}
