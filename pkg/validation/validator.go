package validation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrUnknownRule is returned when a field references a rule that is not
// registered.
var ErrUnknownRule = errors.New("validation: unknown rule")

// Errors is the per-field message bag. The JSON shape is
// {"errors": {"field": ["message"]}}.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, message string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], message)
}

// Has reports whether any field failed.
func (e *Errors) Has() bool {
	return e != nil && len(e.Bag) > 0
}

// First returns the first message for field, or "".
func (e *Errors) First(field string) string {
	if e == nil {
		return ""
	}
	if messages := e.Bag[field]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// Get returns the messages for field.
func (e *Errors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.Bag[field])
}

// Fields returns the failed field names, sorted.
func (e *Errors) Fields() []string {
	if e == nil {
		return nil
	}
	fields := make([]string, 0, len(e.Bag))
	for field := range e.Bag {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

func (e *Errors) Error() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return "validation: no errors"
	}
	return fmt.Sprintf("validation: %d field(s) failed: %s", len(fields), strings.Join(fields, ", "))
}

// Request is one validation run.
type Request struct {
	Data map[string]any
	// Rules maps field names to a pipe separated string or a []string.
	Rules map[string]any
	// Messages overrides defaults, keyed "field.rule" or "rule".
	Messages map[string]string
	// Attributes maps field names to the display names used in messages.
	Attributes map[string]string
}

// Kind is how size based rules measure a value.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindArray:
		return "array"
	default:
		return "string"
	}
}

// Field is what a rule sees.
type Field struct {
	Name  string
	Value any
	Param string
	Data  map[string]any
	Kind  Kind
}

// String returns the value as text. Lists are joined with commas.
func (f Field) String() string {
	return stringify(f.Value)
}

// Values returns the value as a list of strings.
func (f Field) Values() []string {
	switch v := f.Value.(type) {
	case nil:
		return nil
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			out = append(out, stringify(entry))
		}
		return out
	default:
		return []string{stringify(v)}
	}
}

// Size measures the value according to Kind.
func (f Field) Size() (float64, bool) {
	switch f.Kind {
	case KindArray:
		return float64(len(f.Values())), true
	case KindNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(f.String()), 64)
		return n, err == nil
	default:
		return float64(utf8.RuneCountInString(f.String())), true
	}
}

// RuleFunc reports whether the field passes.
type RuleFunc func(field Field) bool

type ruleEntry struct {
	fn      RuleFunc
	message string
}

// Validator holds the rule set. It is safe for concurrent use.
type Validator struct {
	mu    sync.RWMutex
	rules map[string]ruleEntry
}

// New returns a validator with the built-in rules.
func New() *Validator {
	v := &Validator{rules: make(map[string]ruleEntry)}
	registerBuiltins(v)
	return v
}

var defaultValidator = New()

// Default returns the shared validator.
func Default() *Validator {
	return defaultValidator
}

// Validate runs req through the shared validator.
func Validate(req Request) (*Errors, error) {
	return defaultValidator.Validate(req)
}

// Register adds a rule. The message may use :attribute, :param and :other.
func (v *Validator) Register(name, message string, fn RuleFunc) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("validation: rule name is required")
	}
	if fn == nil {
		return fmt.Errorf("validation: rule %q has no function", name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.rules[name]; exists {
		return fmt.Errorf("validation: rule %q already registered", name)
	}
	v.rules[name] = ruleEntry{fn: fn, message: message}
	return nil
}

// MustRegister panics on registration failure.
func (v *Validator) MustRegister(name, message string, fn RuleFunc) {
	if err := v.Register(name, message, fn); err != nil {
		panic(err)
	}
}

// Has reports whether a rule is registered.
func (v *Validator) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.rules[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Validate checks every field with rules, in field name order. The returned
// bag is never nil. An unknown rule aborts the run with ErrUnknownRule.
func (v *Validator) Validate(req Request) (*Errors, error) {
	errs := &Errors{}

	fields := make([]string, 0, len(req.Rules))
	for field := range req.Rules {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	for _, field := range fields {
		rules := SplitRules(req.Rules[field])
		if len(rules) == 0 {
			continue
		}
		value, present := req.Data[field]
		if !present && slices.Contains(rules, "sometimes") {
			continue
		}

		kind := kindOf(rules, value)
		empty := isEmpty(value)
		bail := hasRule(rules, "bail")

		for _, rule := range rules {
			name, param, _ := strings.Cut(rule, ":")
			name = strings.ToLower(strings.TrimSpace(name))
			switch name {
			case "", "sometimes", "nullable", "bail":
				continue
			}
			if empty && !implicitRule(name) {
				continue
			}

			v.mu.RLock()
			entry, ok := v.rules[name]
			v.mu.RUnlock()
			if !ok {
				return errs, fmt.Errorf("%w %q on field %q", ErrUnknownRule, name, field)
			}

			target := Field{Name: field, Value: value, Param: param, Data: req.Data, Kind: kind}
			if entry.fn(target) {
				continue
			}
			errs.add(field, formatMessage(req, target, name, entry.message))
			if bail {
				break
			}
		}
	}
	return errs, nil
}

// SplitRules normalises a rule value to a list of rule strings.
func SplitRules(rule any) []string {
	var parts []string
	switch r := rule.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(r, "|")
	case []string:
		parts = r
	case []any:
		parts = make([]string, 0, len(r))
		for _, entry := range r {
			parts = append(parts, stringify(entry))
		}
	default:
		parts = strings.Split(fmt.Sprint(r), "|")
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func kindOf(rules []string, value any) Kind {
	for _, rule := range rules {
		name, _, _ := strings.Cut(rule, ":")
		switch strings.ToLower(name) {
		case "numeric", "integer":
			return KindNumeric
		case "array":
			return KindArray
		}
	}
	switch value.(type) {
	case []string, []any:
		return KindArray
	}
	return KindString
}

func hasRule(rules []string, want string) bool {
	for _, rule := range rules {
		name, _, _ := strings.Cut(rule, ":")
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return true
		}
	}
	return false
}

func implicitRule(name string) bool {
	return name == "required" || name == "accepted"
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			parts = append(parts, stringify(entry))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func formatMessage(req Request, field Field, rule, fallback string) string {
	message, ok := req.Messages[field.Name+"."+rule]
	if !ok {
		message, ok = req.Messages[rule]
	}
	if !ok {
		message = defaultMessage(rule, field.Kind, fallback)
	}

	low, high, _ := strings.Cut(field.Param, ",")
	replacer := strings.NewReplacer(
		":attribute", attributeName(req, field.Name),
		":other", attributeName(req, field.Param),
		":param", field.Param,
		":min", strings.TrimSpace(low),
		":max", strings.TrimSpace(high),
	)
	return replacer.Replace(message)
}

func attributeName(req Request, field string) string {
	if label, ok := req.Attributes[field]; ok && strings.TrimSpace(label) != "" {
		return label
	}
	return strings.ReplaceAll(field, "_", " ")
}
