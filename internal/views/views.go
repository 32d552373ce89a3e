// Package views holds the page state for list and detail pages: the data,
// a loading flag and the error banner shown when a read fails.
package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/services"
)

// AllCategories is the filter value that shows everything
const AllCategories = "all"

// Banner is the fixed message shown when label could not be loaded
func Banner(label string) string {
	return fmt.Sprintf("Failed to load %s. Please try again.", label)
}

// List is the state of a list page
type List[T any] struct {
	Label   string
	Data    []T
	Loading bool
	Error   string

	category func(T) string
	loaded   bool
}

// NewList starts in the loading state. category may be nil for entities without one.
func NewList[T any](label string, category func(T) string) *List[T] {
	return &List[T]{
		Label:    label,
		Data:     []T{},
		Loading:  true,
		category: category,
	}
}

// Load fetches once. Later calls keep the first result.
func (l *List[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) *List[T] {
	if l.loaded {
		return l
	}
	l.loaded = true

	data, err := fetch(ctx)
	l.Loading = false
	if err != nil {
		log.Error().Err(err).Str("label", l.Label).Msg("Failed to load list")
		l.Error = Banner(l.Label)
		l.Data = []T{}
		return l
	}
	if data == nil {
		data = []T{}
	}
	l.Data = data
	return l
}

// FilterByCategory returns the items in category; empty or "all" returns everything
func (l *List[T]) FilterByCategory(category string) []T {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategories || l.category == nil {
		return l.Data
	}

	out := []T{}
	for _, item := range l.Data {
		if l.category(item) == category {
			out = append(out, item)
		}
	}
	return out
}

// Categories lists distinct categories in order of first appearance
func (l *List[T]) Categories() []string {
	if l.category == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, item := range l.Data {
		c := l.category(item)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (l *List[T]) Empty() bool {
	return !l.Loading && l.Error == "" && len(l.Data) == 0
}

// Detail is the state of a detail page
type Detail[T any] struct {
	Label    string
	Item     *T
	Related  []T
	NotFound bool
	Error    string
}

// LoadDetail finds id and, when found, up to n related items. related may be nil.
func LoadDetail[T any](
	ctx context.Context,
	label, id string,
	find func(context.Context, string) (*T, error),
	related func(context.Context, string, int) []T,
	n int,
) *Detail[T] {
	d := &Detail[T]{Label: label, Related: []T{}}

	item, err := find(ctx, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		d.NotFound = true
		return d
	case err != nil:
		log.Error().Err(err).Str("label", label).Str("id", id).Msg("Failed to load detail")
		d.Error = Banner(label)
		return d
	case item == nil:
		d.NotFound = true
		return d
	}

	d.Item = item
	if related != nil && n > 0 {
		d.Related = related(ctx, id, n)
	}
	return d
}
