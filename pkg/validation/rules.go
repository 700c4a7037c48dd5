package validation

import (
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	alphaPattern     = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumPattern  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaDashPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// sized messages vary with the field kind.
var sizedMessages = map[string]string{
	"min.string":      "The :attribute must be at least :param characters.",
	"min.numeric":     "The :attribute must be at least :param.",
	"min.array":       "The :attribute must have at least :param items.",
	"max.string":      "The :attribute may not be greater than :param characters.",
	"max.numeric":     "The :attribute may not be greater than :param.",
	"max.array":       "The :attribute may not have more than :param items.",
	"size.string":     "The :attribute must be :param characters.",
	"size.numeric":    "The :attribute must be :param.",
	"size.array":      "The :attribute must contain :param items.",
	"between.string":  "The :attribute must be between :min and :max characters.",
	"between.numeric": "The :attribute must be between :min and :max.",
	"between.array":   "The :attribute must have between :min and :max items.",
}

func defaultMessage(rule string, kind Kind, fallback string) string {
	if message, ok := sizedMessages[rule+"."+kind.String()]; ok {
		return message
	}
	if fallback != "" {
		return fallback
	}
	return "The :attribute is invalid."
}

func registerBuiltins(v *Validator) {
	v.MustRegister("required", "The :attribute field is required.", func(f Field) bool {
		return !isEmpty(f.Value)
	})
	v.MustRegister("accepted", "The :attribute must be accepted.", func(f Field) bool {
		switch strings.ToLower(strings.TrimSpace(f.String())) {
		case "yes", "on", "1", "true":
			return true
		}
		return false
	})
	v.MustRegister("string", "The :attribute must be a string.", func(f Field) bool {
		_, ok := f.Value.(string)
		return ok
	})
	v.MustRegister("array", "The :attribute must be an array.", func(f Field) bool {
		switch f.Value.(type) {
		case []string, []any:
			return true
		}
		return false
	})
	v.MustRegister("numeric", "The :attribute must be a number.", func(f Field) bool {
		_, ok := number(f.String())
		return ok
	})
	v.MustRegister("integer", "The :attribute must be an integer.", func(f Field) bool {
		_, err := strconv.Atoi(strings.TrimSpace(f.String()))
		return err == nil
	})
	v.MustRegister("boolean", "The :attribute field must be true or false.", func(f Field) bool {
		switch strings.ToLower(strings.TrimSpace(f.String())) {
		case "true", "false", "1", "0", "yes", "no":
			return true
		}
		return false
	})
	v.MustRegister("email", "The :attribute must be a valid email address.", func(f Field) bool {
		value := strings.TrimSpace(f.String())
		addr, err := mail.ParseAddress(value)
		return err == nil && addr.Address == value
	})
	v.MustRegister("url", "The :attribute must be a valid URL.", func(f Field) bool {
		u, err := url.ParseRequestURI(strings.TrimSpace(f.String()))
		if err != nil || u.Host == "" {
			return false
		}
		return u.Scheme == "http" || u.Scheme == "https"
	})
	v.MustRegister("min", "", sized(func(size, a, _ float64) bool { return size >= a }))
	v.MustRegister("max", "", sized(func(size, a, _ float64) bool { return size <= a }))
	v.MustRegister("size", "", sized(func(size, a, _ float64) bool { return size == a }))
	v.MustRegister("between", "", sized(func(size, a, b float64) bool { return size >= a && size <= b }))
	v.MustRegister("in", "The selected :attribute is invalid.", func(f Field) bool {
		allowed := params(f.Param)
		for _, value := range f.Values() {
			if !slices.Contains(allowed, value) {
				return false
			}
		}
		return true
	})
	v.MustRegister("not_in", "The selected :attribute is invalid.", func(f Field) bool {
		disallowed := params(f.Param)
		for _, value := range f.Values() {
			if slices.Contains(disallowed, value) {
				return false
			}
		}
		return true
	})
	v.MustRegister("confirmed", "The :attribute confirmation does not match.", func(f Field) bool {
		return stringify(f.Data[f.Name+"_confirmation"]) == f.String()
	})
	v.MustRegister("same", "The :attribute and :other must match.", func(f Field) bool {
		return stringify(f.Data[f.Param]) == f.String()
	})
	v.MustRegister("different", "The :attribute and :other must be different.", func(f Field) bool {
		return stringify(f.Data[f.Param]) != f.String()
	})
	v.MustRegister("alpha", "The :attribute may only contain letters.", matches(alphaPattern))
	v.MustRegister("alpha_num", "The :attribute may only contain letters and numbers.", matches(alphaNumPattern))
	v.MustRegister("alpha_dash", "The :attribute may only contain letters, numbers, dashes and underscores.", matches(alphaDashPattern))
	v.MustRegister("regex", "The :attribute format is invalid.", func(f Field) bool {
		pattern := f.Param
		if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
			pattern = pattern[1 : len(pattern)-1]
		}
		re, err := regexp.Compile(pattern)
		return err == nil && re.MatchString(f.String())
	})
	v.MustRegister("gt", "The :attribute must be greater than :param.", compare(func(a, b float64) bool { return a > b }))
	v.MustRegister("gte", "The :attribute must be greater than or equal to :param.", compare(func(a, b float64) bool { return a >= b }))
	v.MustRegister("lt", "The :attribute must be less than :param.", compare(func(a, b float64) bool { return a < b }))
	v.MustRegister("lte", "The :attribute must be less than or equal to :param.", compare(func(a, b float64) bool { return a <= b }))
}

func number(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return n, err == nil
}

func params(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func sized(check func(size, a, b float64) bool) RuleFunc {
	return func(f Field) bool {
		size, ok := f.Size()
		if !ok {
			return false
		}
		bounds := params(f.Param)
		a, ok := number(bounds[0])
		if !ok {
			return false
		}
		b := a
		if len(bounds) > 1 {
			if b, ok = number(bounds[1]); !ok {
				return false
			}
		}
		return check(size, a, b)
	}
}

func compare(check func(a, b float64) bool) RuleFunc {
	return func(f Field) bool {
		value, ok := number(f.String())
		if !ok {
			return false
		}
		other, ok := number(f.Param)
		if !ok {
			if other, ok = number(stringify(f.Data[f.Param])); !ok {
				return false
			}
		}
		return check(value, other)
	}
}

func matches(re interface{ MatchString(string) bool }) RuleFunc {
	return func(f Field) bool {
		return re.MatchString(f.String())
	}
}
