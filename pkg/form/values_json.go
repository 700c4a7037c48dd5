package form

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/sjson"
)

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
	":", `\:`,
)

// ValuesJSON reconciles submitted against previous and encodes the result as
// a JSON object with keys in sorted order.
func (c *Collection) ValuesJSON(submitted, previous map[string]any) ([]byte, error) {
	values := c.Values(submitted, previous)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := []byte("{}")
	for _, key := range keys {
		var err error
		out, err = sjson.SetBytes(out, pathEscaper.Replace(key), values[key])
		if err != nil {
			return nil, fmt.Errorf("form: encode value %q: %w", key, err)
		}
	}
	return out, nil
}
