// Package table holds the in-memory list behind every dashboard table:
// search filtering plus the local patches applied after a write succeeds.
package table

import "strings"

// Column is one rendered column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Schema describes how a table treats its entity.  Key identifies a row,
// Search returns the fields a query is matched against.
type Schema[T any] struct {
	Name    string
	Key     func(T) string
	Search  func(T) []string
	Columns []Column[T]
}

// Row is a rendered row: its key and one string per column.
type Row struct {
	Key   string
	Cells []string
}

// List is an ordered set of items under a schema.  It is not safe for
// concurrent use; each request works on its own copy.
type List[T any] struct {
	schema Schema[T]
	items  []T
}

// New wraps items.  The slice is copied.
func New[T any](schema Schema[T], items []T) *List[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return &List[T]{schema: schema, items: cp}
}

// Schema returns the list's schema.
func (l *List[T]) Schema() Schema[T] { return l.schema }

// Items returns the items in order.
func (l *List[T]) Items() []T { return l.items }

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// Filter returns the items whose search fields contain query, ignoring
// case.  A blank query returns every item.  Order is preserved.
func (l *List[T]) Filter(query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return l.items
	}
	out := make([]T, 0, len(l.items))
	for _, it := range l.items {
		for _, f := range l.schema.Search(it) {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Get finds the item with key.
func (l *List[T]) Get(key string) (T, bool) {
	if i := l.index(key); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Append adds item at the end.
func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

// Replace swaps the item sharing item's key in place.  It reports false
// and leaves the list untouched when no such item exists.
func (l *List[T]) Replace(item T) bool {
	i := l.index(l.schema.Key(item))
	if i < 0 {
		return false
	}
	l.items[i] = item
	return true
}

// Remove drops the item with key and reports whether one was removed.
func (l *List[T]) Remove(key string) bool {
	i := l.index(key)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Headers returns the column headers.
func (l *List[T]) Headers() []string {
	out := make([]string, len(l.schema.Columns))
	for i, c := range l.schema.Columns {
		out[i] = c.Header
	}
	return out
}

// Rows renders items with the schema's columns.
func (l *List[T]) Rows(items []T) []Row {
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = l.Row(it)
	}
	return rows
}

// Row renders a single item.
func (l *List[T]) Row(item T) Row {
	cells := make([]string, len(l.schema.Columns))
	for j, c := range l.schema.Columns {
		cells[j] = c.Value(item)
	}
	return Row{Key: l.schema.Key(item), Cells: cells}
}

func (l *List[T]) index(key string) int {
	for i, it := range l.items {
		if l.schema.Key(it) == key {
			return i
		}
	}
	return -1
}
