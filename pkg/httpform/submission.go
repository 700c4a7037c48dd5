package httpform

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
)

const maxMultipartMemory = 32 << 20

// Submitted extracts the values posted for f, keyed by control name. Form
// bodies are looked up by each control's field name ("signup[email]",
// "signup[tags][]") and then by its bare name. JSON bodies may nest the
// values under the form name.
//
// Unchecked checkboxes and empty multiple selects are absent from browser
// submissions; they are reported as empty so they can be cleared.
func Submitted(r *http.Request, f *form.Form) (map[string]any, error) {
	if r == nil || f == nil {
		return nil, errors.New("request and form are required", errors.CategoryBadInput).
			WithTextCode("SUBMISSION_INVALID")
	}

	if isJSON(r.Header.Get("Content-Type")) {
		return submittedJSON(r, f)
	}

	var err error
	if isMultipart(r.Header.Get("Content-Type")) {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse form body").
			WithTextCode("SUBMISSION_PARSE_FAILED")
	}

	values := make(map[string]any)
	for _, ctrl := range f.Controls() {
		if ctrl.Name() == render.MethodFieldName {
			continue
		}
		raw, ok := lookup(r.Form, ctrl)
		switch {
		case isMultipleSelect(ctrl):
			list := make([]any, 0, len(raw))
			for _, v := range raw {
				list = append(list, v)
			}
			values[ctrl.Name()] = list
		case ok && len(raw) > 0:
			values[ctrl.Name()] = raw[0]
		case isCheckbox(ctrl):
			values[ctrl.Name()] = ""
		}
	}
	return values, nil
}

func submittedJSON(r *http.Request, f *form.Form) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to decode JSON body").
			WithTextCode("SUBMISSION_DECODE_FAILED")
	}
	if nested, ok := payload[f.Name()].(map[string]any); ok && f.Name() != "" {
		payload = nested
	}

	values := make(map[string]any)
	for _, ctrl := range f.Controls() {
		if value, ok := payload[ctrl.Name()]; ok {
			values[ctrl.Name()] = value
		}
	}
	return values, nil
}

func lookup(form map[string][]string, ctrl control.Control) ([]string, bool) {
	candidates := []string{ctrl.Name()}
	if fielder, ok := ctrl.(interface{ FieldName() string }); ok {
		candidates = append([]string{fielder.FieldName()}, candidates...)
	}
	for _, name := range candidates {
		if raw, ok := form[name+"[]"]; ok {
			return raw, true
		}
		if raw, ok := form[name]; ok {
			return raw, true
		}
	}
	return nil, false
}

func unwrap(ctrl control.Control) control.Control {
	if group, ok := ctrl.(*control.InputGroup); ok && group.Inner() != nil {
		return group.Inner()
	}
	return ctrl
}

func isMultipleSelect(ctrl control.Control) bool {
	s, ok := unwrap(ctrl).(control.Chooser)
	return ok && s.Multiple()
}

func isCheckbox(ctrl control.Control) bool {
	input, ok := unwrap(ctrl).(*control.Input)
	return ok && input.Type() == control.TypeCheckbox
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"))
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}

func isPassword(ctrl control.Control) bool {
	_, ok := unwrap(ctrl).(*control.Password)
	return ok
}
