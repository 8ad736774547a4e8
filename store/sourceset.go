package store

import (
	"sort"
	"strings"
)

// MergeSources computes the new serialized provenance set given the stored
// value, tags to add and tags to remove. The removal set is applied after
// the union, so a tag named in both add and remove ends up removed. The
// result is sorted and comma-space joined; an empty set serializes to the
// empty string, never to a sentinel. The second return is false when the
// merge left the stored value untouched, letting callers skip the
// updated_at bump.
func MergeSources(existing string, add, remove []string) (string, bool) {
	set := make(map[string]struct{})
	for _, tag := range strings.Split(existing, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			set[tag] = struct{}{}
		}
	}
	for _, tag := range add {
		if tag = strings.TrimSpace(tag); tag != "" {
			set[tag] = struct{}{}
		}
	}
	for _, tag := range remove {
		delete(set, strings.TrimSpace(tag))
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	merged := strings.Join(tags, ", ")
	return merged, merged != existing
}
