package validators

import (
	"errors"
	"strings"
	"testing"
)

func TestTitleValidator(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  error
	}{
		{name: "ok", title: "How do I do the thing?", want: nil},
		{name: "empty", title: "", want: ErrTitleEmpty},
		{name: "whitespace only", title: "   ", want: ErrTitleEmpty},
		{name: "max length", title: strings.Repeat("a", MaxTitleLen), want: nil},
		{name: "too long", title: strings.Repeat("a", MaxTitleLen+1), want: ErrTitleTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleValidator(tc.title); !errors.Is(got, tc.want) {
				t.Fatalf("TitleValidator(%q) = %v, want %v", tc.title, got, tc.want)
			}
		})
	}
}

func TestContentValidator(t *testing.T) {
	if err := ContentValidator(strings.Repeat("a", MaxContentLen)); err != nil {
		t.Fatalf("max-length content rejected: %v", err)
	}
	if err := ContentValidator(strings.Repeat("a", MaxContentLen+1)); !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("want ErrContentTooLong, got %v", err)
	}
	if err := ContentValidator(" \n "); !errors.Is(err, ErrContentEmpty) {
		t.Fatalf("want ErrContentEmpty, got %v", err)
	}
}

func TestTagsValidator(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		want    []string
		wantErr error
	}{
		{name: "normalizes case and spacing", tags: []string{" React ", "CSS"}, want: []string{"react", "css"}},
		{name: "allows special characters", tags: []string{"c#", "c++", "node.js", "asp-net"}, want: []string{"c#", "c++", "node.js", "asp-net"}},
		{name: "none", tags: []string{}, wantErr: ErrTooFewTags},
		{name: "too many", tags: []string{"a", "b", "c", "d", "e", "f"}, wantErr: ErrTooManyTags},
		{name: "whitespace tag", tags: []string{"  "}, wantErr: ErrTagEmpty},
		{name: "too long", tags: []string{strings.Repeat("a", MaxTagLen+1)}, wantErr: ErrTagTooLong},
		{name: "inner space", tags: []string{"no spaces"}, wantErr: ErrTagInvalid},
		{name: "unicode", tags: []string{"тег"}, wantErr: ErrTagInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TagsValidator(tc.tags)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("TagsValidator(%v) error = %v, want %v", tc.tags, err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("TagsValidator(%v) = %v, want %v", tc.tags, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("TagsValidator(%v) = %v, want %v", tc.tags, got, tc.want)
				}
			}
		})
	}
}
