package timezones

import (
	"bufio"
	"embed"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/control"
)

//go:embed data/zones.txt
var dataFS embed.FS

const zonesPath = "data/zones.txt"

var (
	zonesOnce sync.Once
	zones     []string
	zonesErr  error
)

// Zones returns the embedded zone names, sorted. The list is parsed once and
// callers get their own copy.
func Zones() ([]string, error) {
	zonesOnce.Do(func() {
		f, err := dataFS.Open(zonesPath)
		if err != nil {
			zonesErr = errors.Wrap(err, errors.CategoryOperation, "failed to open embedded zone list").
				WithTextCode("TIMEZONES_DATA_MISSING")
			return
		}
		defer func() { _ = f.Close() }()
		zones, zonesErr = LoadZones(f)
	})
	if zonesErr != nil {
		return nil, zonesErr
	}
	return slices.Clone(zones), nil
}

// LoadZones reads one zone per line. Blank lines, # comments and duplicates
// are skipped.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, errors.New("zone reader is required", errors.CategoryBadInput).
			WithTextCode("TIMEZONES_READER_REQUIRED")
	}

	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	out := make([]string, 0, 128)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to scan zone list").
			WithTextCode("TIMEZONES_SCAN_FAILED")
	}

	slices.Sort(out)
	return out, nil
}

// Items turns zone names into select items. Labels swap underscores for
// spaces so "America/New_York" reads "America/New York".
func Items(names []string) []control.Item {
	items := make([]control.Item, 0, len(names))
	for _, name := range names {
		items = append(items, control.Item{Value: name, Label: strings.ReplaceAll(name, "_", " ")})
	}
	return items
}
