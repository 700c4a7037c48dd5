package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
)

func sectionNames(sections []form.Section) map[string][]string {
	out := make(map[string][]string)
	for _, section := range sections {
		for _, ctrl := range section.Controls {
			out[section.Group.Name] = append(out[section.Group.Name], ctrl.Name())
		}
	}
	return out
}

func TestApplySubsetByGroup(t *testing.T) {
	f := signupForm(t)
	got := render.ApplySubset(f.Sections(), render.FieldSubset{Groups: []string{" Account "}})
	want := map[string][]string{"account": {"email", "password"}}
	if diff := cmp.Diff(want, sectionNames(got)); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 1 {
		t.Fatalf("expected empty sections to be dropped, got %d", len(got))
	}
}

func TestApplySubsetByName(t *testing.T) {
	f := signupForm(t)
	got := render.ApplySubset(f.Sections(), render.FieldSubset{Names: []string{"tags", "password"}})
	want := map[string][]string{"account": {"password"}, "*": {"tags"}}
	if diff := cmp.Diff(want, sectionNames(got)); diff != "" {
		t.Fatalf("subset mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySubsetEmptyKeepsAll(t *testing.T) {
	f := signupForm(t)
	sections := f.Sections()
	got := render.ApplySubset(sections, render.FieldSubset{Groups: []string{" "}})
	if diff := cmp.Diff(sectionNames(sections), sectionNames(got)); diff != "" {
		t.Fatalf("empty subset changed sections (-want +got):\n%s", diff)
	}
}
