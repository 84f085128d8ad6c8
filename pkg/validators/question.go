package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxTitleLen   = 200
	MaxContentLen = 10000
	MaxTagLen     = 20
	MinTags       = 1
	MaxTags       = 5
)

var (
	ErrTitleEmpty     = errors.New("title can't be empty")
	ErrTitleTooLong   = fmt.Errorf("title must be at most %d characters long", MaxTitleLen)
	ErrContentEmpty   = errors.New("content can't be empty")
	ErrContentTooLong = fmt.Errorf("content must be at most %d characters long", MaxContentLen)
	ErrTooFewTags     = fmt.Errorf("at least %d tag is required", MinTags)
	ErrTooManyTags    = fmt.Errorf("at most %d tags are allowed", MaxTags)
	ErrTagEmpty       = errors.New("tags can't be empty")
	ErrTagTooLong     = fmt.Errorf("tags must be at most %d characters long", MaxTagLen)
	ErrTagInvalid     = errors.New("tags may only contain letters, digits and -.#+")
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9\-.#+]+$`)

func TitleValidator(t string) error {
	if strings.TrimSpace(t) == "" {
		return ErrTitleEmpty
	}

	if len(t) > MaxTitleLen {
		return ErrTitleTooLong
	}

	return nil
}

func ContentValidator(c string) error {
	if strings.TrimSpace(c) == "" {
		return ErrContentEmpty
	}

	if len(c) > MaxContentLen {
		return ErrContentTooLong
	}

	return nil
}

// TagsValidator checks the tag list and returns the normalized form:
// every tag trimmed and lowercased. Normalization happens before the
// pattern check so the stored and validated forms are the same.
func TagsValidator(tags []string) ([]string, error) {
	if len(tags) < MinTags {
		return nil, ErrTooFewTags
	}

	if len(tags) > MaxTags {
		return nil, ErrTooManyTags
	}

	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))

		if t == "" {
			return nil, ErrTagEmpty
		}

		if len(t) > MaxTagLen {
			return nil, ErrTagTooLong
		}

		if !tagPattern.MatchString(t) {
			return nil, ErrTagInvalid
		}

		normalized = append(normalized, t)
	}

	return normalized, nil
}
