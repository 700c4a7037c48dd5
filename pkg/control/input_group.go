package control

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

// InputGroup option keys.
const (
	KeyWrap     = "wrap"
	KeyPosition = "position"
	KeyAddon    = "addon"
	KeyIcon     = "icon"
	KeyText     = "text"
)

// Addon placement and kinds.
const (
	PositionBefore = "before"
	PositionAfter  = "after"

	AddonIcon   = "icon"
	AddonButton = "button"
	AddonText   = "text"

	DefaultIcon = "fa-envelope-o"
)

var addonPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("i", "span", "strong", "em", "b", "small")
	p.AllowAttrs("class").OnElements("i", "span")
	return p
}()

// InputGroup decorates another control with an icon, button or text addon.
// Value, default value and rule live on the wrapped control.
type InputGroup struct {
	Base
	registry *Registry
	inner    Control
	position string
	addon    string
	icon     string
	text     string
}

var _ Control = (*InputGroup)(nil)

// NewInputGroup wraps inner. The wrapped control is built from the "wrap"
// option when inner is nil.
func NewInputGroup(name string, inner Control) *InputGroup {
	g := newInputGroup(DefaultRegistry(), name)
	g.inner = inner
	if inner != nil && name == "" {
		g.name = inner.Name()
	}
	return g
}

func newInputGroup(r *Registry, name string) *InputGroup {
	return &InputGroup{
		Base:     newBase(name),
		registry: r,
		position: PositionBefore,
		addon:    AddonIcon,
		icon:     DefaultIcon,
	}
}

// Variant returns the registry tag.
func (g *InputGroup) Variant() string {
	return VariantInputGroup
}

// Inner returns the wrapped control.
func (g *InputGroup) Inner() Control {
	return g.inner
}

// Name falls back to the wrapped control name.
func (g *InputGroup) Name() string {
	if g.name == "" && g.inner != nil {
		return g.inner.Name()
	}
	return g.name
}

// Position returns where the addon is placed.
func (g *InputGroup) Position() string {
	return g.position
}

// Addon returns the addon kind.
func (g *InputGroup) Addon() string {
	return g.addon
}

// Icon returns the Font Awesome icon class.
func (g *InputGroup) Icon() string {
	return g.icon
}

// SetOptions builds the wrapped control from "wrap" when present, then
// merges the group options. Rule and value are forwarded to the wrapped
// control.
func (g *InputGroup) SetOptions(options map[string]any) error {
	if raw, ok := options[KeyWrap]; ok {
		if err := g.wrap(raw); err != nil {
			return err
		}
	}
	if err := g.applyOptions(options, KeyWrap, KeyPosition, KeyAddon, KeyIcon, KeyText); err != nil {
		return err
	}

	if position, ok := optionString(options, KeyPosition); ok {
		switch strings.ToLower(position) {
		case PositionAfter:
			g.position = PositionAfter
		case PositionBefore, "":
			g.position = PositionBefore
		default:
			return fmt.Errorf("control: input group position %q", position)
		}
	}
	if addon, ok := optionString(options, KeyAddon); ok {
		switch strings.ToLower(addon) {
		case AddonIcon, "":
			g.addon = AddonIcon
		case AddonButton:
			g.addon = AddonButton
		case AddonText:
			g.addon = AddonText
		default:
			return fmt.Errorf("control: input group addon %q", addon)
		}
	}
	if icon, ok := optionString(options, KeyIcon); ok && icon != "" {
		g.icon = icon
	}
	if text, ok := optionString(options, KeyText); ok {
		g.text = text
	}

	if g.inner != nil {
		if _, ok := options[KeyRule]; ok {
			g.inner.SetRule(g.rule)
		}
		if _, ok := options[KeyValue]; ok {
			g.inner.SetDefault(g.value)
		}
		g.rule, g.value = nil, nil
	}
	return nil
}

func (g *InputGroup) wrap(raw any) error {
	var def map[string]any
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		def = v
	case string:
		def = map[string]any{KeyControl: v}
	default:
		return fmt.Errorf("control: input group wrap must be a map or a variant tag, got %T", raw)
	}

	// the wrapped control submits under the group's name
	name := g.name
	if n, ok := optionString(def, KeyName); ok && n != "" {
		if name != "" && n != name {
			return fmt.Errorf("control: input group %q cannot wrap a control named %q", name, n)
		}
		name = n
	}
	if normalizeVariant(stringify(def[KeyControl])) == VariantInputGroup {
		return fmt.Errorf("control: input group cannot wrap another input group")
	}
	registry := g.registry
	if registry == nil {
		registry = NewRegistry()
	}
	inner, err := registry.Make(name, def)
	if err != nil {
		return err
	}
	inner.SetContainer(g.container)
	g.inner = inner
	return nil
}

// Reconcile delegates to the wrapped control.
func (g *InputGroup) Reconcile(submitted, previous any) any {
	if g.inner == nil {
		return g.Base.Reconcile(submitted, previous)
	}
	return g.inner.Reconcile(submitted, previous)
}

// Default delegates to the wrapped control.
func (g *InputGroup) Default() any {
	if g.inner == nil {
		return g.Base.Default()
	}
	return g.inner.Default()
}

// SetDefault delegates to the wrapped control.
func (g *InputGroup) SetDefault(value any) {
	if g.inner == nil {
		g.Base.SetDefault(value)
		return
	}
	g.inner.SetDefault(value)
}

// Rule delegates to the wrapped control.
func (g *InputGroup) Rule() any {
	if g.inner == nil {
		return g.Base.Rule()
	}
	return g.inner.Rule()
}

// SetRule delegates to the wrapped control.
func (g *InputGroup) SetRule(rule any) {
	if g.inner == nil {
		g.Base.SetRule(rule)
		return
	}
	g.inner.SetRule(rule)
}

// SetContainer sets the container on the group and the wrapped control.
func (g *InputGroup) SetContainer(container Container) {
	g.Base.SetContainer(container)
	if g.inner != nil {
		g.inner.SetContainer(container)
	}
}

// Render writes the wrapper div, the addon and the wrapped control.
func (g *InputGroup) Render(value any) templ.Component {
	var b strings.Builder
	b.WriteString("<div")
	writeAttr(&b, "class", classList("input-group", g.classes))
	writeAttributes(&b, g.Attributes(), "class")
	b.WriteString(">")
	open := b.String()
	addon := g.renderAddon()
	inner := g.inner
	position := g.position

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if position == PositionBefore {
			if _, err := io.WriteString(w, addon); err != nil {
				return err
			}
		}
		if inner != nil {
			if err := inner.Render(value).Render(ctx, w); err != nil {
				return err
			}
		}
		if position == PositionAfter {
			if _, err := io.WriteString(w, addon); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

func (g *InputGroup) renderAddon() string {
	var b strings.Builder
	switch g.addon {
	case AddonButton:
		b.WriteString(`<span class="input-group-btn"><button class="btn default" type="button"><i`)
		writeAttr(&b, "class", "fa "+g.icon)
		b.WriteString(`></i></button></span>`)
	case AddonText:
		b.WriteString(`<span class="input-group-addon">`)
		b.WriteString(addonPolicy.Sanitize(g.text))
		b.WriteString(`</span>`)
	default:
		b.WriteString(`<span class="input-group-addon"><i`)
		writeAttr(&b, "class", "fa "+g.icon)
		b.WriteString(`></i></span>`)
	}
	return b.String()
}

// Definition returns the group options with the wrapped control under "wrap".
func (g *InputGroup) Definition() map[string]any {
	def := g.definition(VariantInputGroup)
	def[KeyPosition] = g.position
	def[KeyAddon] = g.addon
	def[KeyIcon] = g.icon
	if g.text != "" {
		def[KeyText] = g.text
	}
	if g.inner == nil {
		return def
	}
	def[KeyName] = g.Name()
	if rule := g.inner.Rule(); !IsEmptyRule(rule) {
		def[KeyRule] = deepCopy(rule)
	}
	if value := g.inner.Default(); value != nil {
		def[KeyValue] = deepCopy(value)
	}
	def[KeyWrap] = g.inner.Definition()
	return def
}
