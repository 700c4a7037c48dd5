package timezones

import (
	"github.com/goliatone/go-forms/pkg/control"
)

// Variant is the registry tag of the timezone select.
const Variant = "timezone"

// Select is a control.Select pre-filled with every embedded zone. An explicit
// "items" option narrows the list and is kept in the definition; otherwise
// the definition omits the items and a decoded form refills them.
type Select struct {
	*control.Select
	custom bool
}

var _ control.Chooser = (*Select)(nil)

// NewSelect returns a timezone select offering all zones. It fails only when
// the embedded list cannot be read.
func NewSelect(name string) (*Select, error) {
	names, err := Zones()
	if err != nil {
		return nil, err
	}
	return newSelect(name, Items(names)), nil
}

func newSelect(name string, items []control.Item) *Select {
	s := &Select{Select: control.NewSelect(name)}
	s.Select.SetItems(items)
	return s
}

// Variant returns the registry tag.
func (s *Select) Variant() string {
	return Variant
}

// SetOptions merges the option bag. Supplying "items" replaces the zone list.
func (s *Select) SetOptions(options map[string]any) error {
	if _, ok := options[control.KeyItems]; ok {
		s.custom = true
	}
	return s.Select.SetOptions(options)
}

// Definition reports the timezone tag instead of the plain select one.
func (s *Select) Definition() map[string]any {
	def := s.Select.Definition()
	def[control.KeyControl] = Variant
	if !s.custom {
		delete(def, control.KeyItems)
	}
	return def
}

// Register adds the timezone variant to reg, or to the default registry when
// reg is nil. The zone list is read once here so the factory cannot fail.
// Registering twice is a no-op.
func Register(reg *control.Registry) error {
	if reg == nil {
		reg = control.DefaultRegistry()
	}
	if reg.Has(Variant) {
		return nil
	}
	names, err := Zones()
	if err != nil {
		return err
	}
	items := Items(names)
	return reg.Register(Variant, func(name string) control.Control { return newSelect(name, items) })
}
