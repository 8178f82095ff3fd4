// Package bindings detects collisions in flat collections of input binding
// records: a (key, modifier-set) composite bound under two different action
// names is a conflict.
package bindings

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BindingRecord associates an input key plus modifier flags with a named action.
type BindingRecord struct {
	Action string `json:"action" validate:"required,min=1"`
	Key    string `json:"key"    validate:"required,min=1"`
	Shift  bool   `json:"shift,omitempty"`
	Ctrl   bool   `json:"ctrl,omitempty"`
	Alt    bool   `json:"alt,omitempty"`
	Cmd    bool   `json:"cmd,omitempty"`
}

// Validate checks the record names both an action and a key.
func (r BindingRecord) Validate() error {
	return validate.Struct(r)
}

// CompositeKey renders the canonical string for the record's key and
// modifier set. Modifier order is fixed so equal sets always render equally.
func (r BindingRecord) CompositeKey() string {
	key := r.Key

	if r.Shift {
		key += "+Shift"
	}

	if r.Ctrl {
		key += "+Ctrl"
	}

	if r.Alt {
		key += "+Alt"
	}

	if r.Cmd {
		key += "+Cmd"
	}

	return key
}

// ConflictGroup reports one composite key bound to more than one action.
type ConflictGroup struct {
	CompositeKey string   `json:"key"`
	Actions      []string `json:"actions"`
}

// FindConflicts groups records by composite key and reports every group with
// more than one distinct action name. The same input set yields the same
// conflicts regardless of record order; groups and their actions come back
// sorted so callers get a stable report.
func FindConflicts(records []BindingRecord) []ConflictGroup {
	byKey := make(map[string]map[string]bool)

	for _, record := range records {
		composite := record.CompositeKey()

		if byKey[composite] == nil {
			byKey[composite] = make(map[string]bool)
		}

		byKey[composite][record.Action] = true
	}

	conflicts := make([]ConflictGroup, 0)

	for composite, actions := range byKey {
		if len(actions) < 2 {
			continue
		}

		names := make([]string, 0, len(actions))
		for action := range actions {
			names = append(names, action)
		}

		sort.Strings(names)

		conflicts = append(conflicts, ConflictGroup{CompositeKey: composite, Actions: names})
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].CompositeKey < conflicts[j].CompositeKey
	})

	return conflicts
}
