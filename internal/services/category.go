package services

import (
	"context"
	"fmt"
	"strings"
)

// Categories returns the current category set, seeded with the defaults
// on first use.
func (l *Ledger) Categories(ctx context.Context) ([]string, error) {
	return l.store.Categories(ctx)
}

// AddCategory appends a new category name. Names are compared exactly;
// "Lazer" and "lazer" are distinct.
func (l *Ledger) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("categoria", ReasonRequired)
	}

	categories, err := l.store.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c == name {
			return invalid("categoria", ReasonDuplicate)
		}
	}

	if err := l.store.SaveCategories(ctx, append(categories, name)); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// RemoveCategory drops a category from the set. Existing expenses keep
// their category string; nothing is rewritten.
func (l *Ledger) RemoveCategory(ctx context.Context, name string) error {
	categories, err := l.store.Categories(ctx)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(categories) {
		return nil
	}
	if err := l.store.SaveCategories(ctx, kept); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}
