package form

import (
	"sort"
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
)

// DefaultGroupPriority is the fixed priority of the "*" group.
const DefaultGroupPriority = -1

// Group is a named presentation bucket. Higher priorities come first.
type Group struct {
	Name     string `json:"name" yaml:"name" msgpack:"name" koanf:"name"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty" koanf:"label"`
	Priority int    `json:"priority" yaml:"priority" msgpack:"priority" koanf:"priority"`
}

type groupEntry struct {
	group Group
	order int
}

// AddGroup registers or overwrites a group. An overwritten group keeps its
// original registration order. The "*" group keeps priority -1.
func (c *Collection) AddGroup(name, label string, priority int) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = control.DefaultGroup
	}
	if name == control.DefaultGroup {
		priority = DefaultGroupPriority
	}
	if existing, ok := c.groups[name]; ok {
		existing.group.Label = label
		existing.group.Priority = priority
		return
	}
	c.groups[name] = &groupEntry{
		group: Group{Name: name, Label: label, Priority: priority},
		order: c.order,
	}
	c.order++
}

// Group looks up a registered group.
func (c *Collection) Group(name string) (Group, bool) {
	entry, ok := c.groups[name]
	if !ok {
		return Group{}, false
	}
	return entry.group, true
}

// Groups returns the registered groups by descending priority. Ties keep
// registration order.
func (c *Collection) Groups() []Group {
	entries := make([]*groupEntry, 0, len(c.groups))
	for _, entry := range c.groups {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group.Priority != entries[j].group.Priority {
			return entries[i].group.Priority > entries[j].group.Priority
		}
		return entries[i].order < entries[j].order
	})

	groups := make([]Group, 0, len(entries))
	for _, entry := range entries {
		groups = append(groups, entry.group)
	}
	return groups
}

// GroupControls returns the controls whose group matches name exactly.
func (c *Collection) GroupControls(name string) []control.Control {
	var out []control.Control
	for _, ctrl := range c.controls {
		if ctrl.Group() == name {
			out = append(out, ctrl)
		}
	}
	return out
}

// Sections pairs every registered group, in Groups order, with its controls.
// Controls naming an unregistered group are placed in the "*" section.
func (c *Collection) Sections() []Section {
	groups := c.Groups()
	index := make(map[string]int, len(groups))
	sections := make([]Section, len(groups))
	for i, group := range groups {
		index[group.Name] = i
		sections[i] = Section{Group: group}
	}
	fallback := index[control.DefaultGroup]
	for _, ctrl := range c.controls {
		i, ok := index[ctrl.Group()]
		if !ok {
			i = fallback
		}
		sections[i].Controls = append(sections[i].Controls, ctrl)
	}
	return sections
}

// Section is a group with its controls in insertion order.
type Section struct {
	Group    Group
	Controls []control.Control
}
