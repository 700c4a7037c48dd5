package form

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Method is the HTTP method a form submits with.
type Method string

// Supported methods.
const (
	MethodPost Method = http.MethodPost
	MethodGet  Method = http.MethodGet
)

// EncType is the form encoding type.
type EncType string

// Supported encoding types.
const (
	EncTypeURLEncoded EncType = "application/x-www-form-urlencoded"
	EncTypeMultipart  EncType = "multipart/form-data"
)

// ParseMethod normalises a method name. Anything other than GET is POST.
func ParseMethod(raw string) Method {
	if strings.EqualFold(strings.TrimSpace(raw), http.MethodGet) {
		return MethodGet
	}
	return MethodPost
}

// ParseEncType normalises an encoding type. Anything other than multipart is
// urlencoded.
func ParseEncType(raw string) EncType {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == string(EncTypeMultipart) || value == "multipart" {
		return EncTypeMultipart
	}
	return EncTypeURLEncoded
}

// Form is a Collection plus the attributes of the <form> element.
type Form struct {
	*Collection
	action  string
	method  Method
	encType EncType
}

// New returns an empty form. Without options it posts urlencoded data to an
// empty action.
func New(opts ...Option) *Form {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Form{
		Collection: newCollection(cfg),
		action:     cfg.action,
		method:     cfg.method,
		encType:    cfg.encType,
	}
}

// Action returns the submit URL.
func (f *Form) Action() string {
	return f.action
}

// SetAction changes the submit URL.
func (f *Form) SetAction(action string) {
	f.action = strings.TrimSpace(action)
}

// Method returns the submit method.
func (f *Form) Method() Method {
	return f.method
}

// SetMethod changes the submit method.
func (f *Form) SetMethod(method Method) {
	f.method = ParseMethod(string(method))
}

// EncType returns the encoding type.
func (f *Form) EncType() EncType {
	return f.encType
}

// SetEncType changes the encoding type.
func (f *Form) SetEncType(encType EncType) {
	f.encType = ParseEncType(string(encType))
}

// MarshalJSON encodes the form as its Document.
func (f *Form) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Document())
}
