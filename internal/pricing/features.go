package pricing

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sorenmh/homeservices-admin/internal/models"
)

// Length limits of feature texts, in characters
const (
	MaxFeatureName     = 100
	MaxFullFeatureText = 500
)

var (
	ErrIndexOutOfRange = errors.New("feature index out of range")
	ErrEmptyText       = errors.New("feature text is required")
	ErrTextTooLong     = errors.New("feature text is too long")
)

func checkText(s string, limit int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	if n := utf8.RuneCountInString(s); n > limit {
		return "", fmt.Errorf("%w: %d characters, at most %d allowed", ErrTextTooLong, n, limit)
	}
	return s, nil
}

func checkIndex(n, i int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, n)
	}
	return nil
}

// without returns a copy of list minus element i
func without[E any](list []E, i int) []E {
	out := make([]E, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// AddFeature appends a feature that is not included by default
func AddFeature(list []models.Feature, name string) ([]models.Feature, error) {
	name, err := checkText(name, MaxFeatureName)
	if err != nil {
		return list, err
	}
	out := make([]models.Feature, 0, len(list)+1)
	out = append(out, list...)
	return append(out, models.Feature{Name: name}), nil
}

// EditFeature renames the feature at i, keeping its included flag
func EditFeature(list []models.Feature, i int, name string) ([]models.Feature, error) {
	if err := checkIndex(len(list), i); err != nil {
		return list, err
	}
	name, err := checkText(name, MaxFeatureName)
	if err != nil {
		return list, err
	}
	out := append([]models.Feature(nil), list...)
	out[i].Name = name
	return out, nil
}

// ToggleFeature flips whether the feature at i is included
func ToggleFeature(list []models.Feature, i int) ([]models.Feature, error) {
	if err := checkIndex(len(list), i); err != nil {
		return list, err
	}
	out := append([]models.Feature(nil), list...)
	out[i].Included = !out[i].Included
	return out, nil
}

// RemoveFeature drops the feature at i
func RemoveFeature(list []models.Feature, i int) ([]models.Feature, error) {
	if err := checkIndex(len(list), i); err != nil {
		return list, err
	}
	return without(list, i), nil
}

// AddFullFeature appends a detail line
func AddFullFeature(list []models.FullFeature, text string) ([]models.FullFeature, error) {
	text, err := checkText(text, MaxFullFeatureText)
	if err != nil {
		return list, err
	}
	out := make([]models.FullFeature, 0, len(list)+1)
	out = append(out, list...)
	return append(out, models.FullFeature{Text: text}), nil
}

// EditFullFeature replaces the detail line at i
func EditFullFeature(list []models.FullFeature, i int, text string) ([]models.FullFeature, error) {
	if err := checkIndex(len(list), i); err != nil {
		return list, err
	}
	text, err := checkText(text, MaxFullFeatureText)
	if err != nil {
		return list, err
	}
	out := append([]models.FullFeature(nil), list...)
	out[i].Text = text
	return out, nil
}

// RemoveFullFeature drops the detail line at i
func RemoveFullFeature(list []models.FullFeature, i int) ([]models.FullFeature, error) {
	if err := checkIndex(len(list), i); err != nil {
		return list, err
	}
	return without(list, i), nil
}
