// Package path implements dotted-path access over nested document trees.
//
// Paths use dot-separated keys with bracketed array indices, for example
// "tableSettings.amountHeaderSettings.color" or "items[2].unitPrice".
// Get never fails; Set is copy-on-write along the traversed branch so the
// input tree is never mutated and untouched siblings stay shared.
package path

import (
	"strconv"
	"strings"

	"github.com/invoicestudio/backend/internal/domain/shared"
)

// Segment is one step of a parsed path: either a map key or a slice index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Parse splits a path string into segments.
// "items[2].unitPrice" parses to [key:items, index:2, key:unitPrice].
func Parse(p string) ([]Segment, error) {
	if strings.TrimSpace(p) == "" {
		return nil, shared.NewDomainError("INVALID_PATH", "Path cannot be empty")
	}

	var segments []Segment
	for _, part := range strings.Split(p, ".") {
		if part == "" {
			return nil, shared.NewDomainError("INVALID_PATH", "Path contains an empty segment: "+p)
		}

		key := part
		var indices []int
		for {
			open := strings.Index(key, "[")
			if open == -1 {
				break
			}
			closing := strings.Index(key, "]")
			if closing < open {
				return nil, shared.NewDomainError("INVALID_PATH", "Unbalanced brackets in path segment: "+part)
			}
			idx, err := strconv.Atoi(key[open+1 : closing])
			if err != nil || idx < 0 {
				return nil, shared.NewDomainError("INVALID_PATH", "Invalid array index in path segment: "+part)
			}
			indices = append(indices, idx)
			key = key[:open] + key[closing+1:]
		}

		if key != "" {
			segments = append(segments, Segment{Key: key})
		} else if len(indices) == 0 {
			return nil, shared.NewDomainError("INVALID_PATH", "Path contains an empty segment: "+p)
		}
		for _, idx := range indices {
			segments = append(segments, Segment{Index: idx, IsIndex: true})
		}
	}

	return segments, nil
}

// Get walks the tree along path and returns the value found there.
// The second return is false as soon as a segment is missing or the
// current node cannot be descended into. Get never panics.
func Get(root any, p string) (any, bool) {
	segments, err := Parse(p)
	if err != nil {
		return nil, false
	}

	current := root
	for _, seg := range segments {
		if seg.IsIndex {
			list, ok := current.([]any)
			if !ok || seg.Index >= len(list) {
				return nil, false
			}
			current = list[seg.Index]
			continue
		}

		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[seg.Key]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Set returns a new tree with the value at path replaced.
// Every node along the path is shallow-cloned; missing intermediate maps
// are created, and slices are grown as needed to reach an index segment.
// Branches not on the path are structurally shared with the input.
func Set(root map[string]any, p string, value any) (map[string]any, error) {
	segments, err := Parse(p)
	if err != nil {
		return nil, err
	}
	if segments[0].IsIndex {
		return nil, shared.NewDomainError("INVALID_PATH", "Path cannot start with an array index")
	}

	result, err := setSegments(root, segments, value)
	if err != nil {
		return nil, err
	}
	out, ok := result.(map[string]any)
	if !ok {
		return nil, shared.NewDomainError("INVALID_PATH", "Root is not an object")
	}
	return out, nil
}

func setSegments(node any, segments []Segment, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	seg := segments[0]

	if seg.IsIndex {
		list, _ := node.([]any)
		clone := make([]any, len(list))
		copy(clone, list)
		for len(clone) <= seg.Index {
			clone = append(clone, nil)
		}
		child, err := setSegments(clone[seg.Index], segments[1:], value)
		if err != nil {
			return nil, err
		}
		clone[seg.Index] = child
		return clone, nil
	}

	obj, _ := node.(map[string]any)
	clone := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		clone[k] = v
	}
	child, err := setSegments(clone[seg.Key], segments[1:], value)
	if err != nil {
		return nil, err
	}
	clone[seg.Key] = child
	return clone, nil
}
