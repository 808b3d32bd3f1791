// Package currency holds the currency table and the conversion policy used by
// the booking forms to decide when a line item needs a rate of exchange.
package currency

import (
	"fmt"
	"sort"
	"strings"

	xcurrency "golang.org/x/text/currency"
)

// Code is an ISO-4217 currency tag such as INR or USD.
type Code string

const (
	// INR is the Indian rupee, the default home currency.
	INR Code = "INR"
	// USD is the US dollar.
	USD Code = "USD"
)

// Normalize upper-cases and trims a raw currency tag.
func Normalize(raw string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c == ""
}

func (c Code) String() string {
	return string(c)
}

// Entry describes one recognised currency.
type Entry struct {
	Code   Code   `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Table is the set of currencies offered in the currency selectors.
type Table struct {
	entries map[Code]Entry
}

// DefaultTable returns the table with the two currencies the console ships with.
func DefaultTable() Table {
	return Table{entries: map[Code]Entry{
		INR: {Code: INR, Symbol: "₹", Name: "Indian Rupee"},
		USD: {Code: USD, Symbol: "$", Name: "US Dollar"},
	}}
}

// With returns a copy of the table extended by the given entries. Codes that
// are not valid ISO-4217 units are rejected.
func (t Table) With(entries ...Entry) (Table, error) {
	out := Table{entries: make(map[Code]Entry, len(t.entries)+len(entries))}
	for code, entry := range t.entries {
		out.entries[code] = entry
	}
	for _, entry := range entries {
		code := Normalize(string(entry.Code))
		if _, err := xcurrency.ParseISO(string(code)); err != nil {
			return Table{}, fmt.Errorf("currency: unknown code %q: %w", entry.Code, err)
		}
		entry.Code = code
		if entry.Name == "" {
			entry.Name = string(code)
		}
		out.entries[code] = entry
	}
	return out, nil
}

// Lookup returns the entry for code.
func (t Table) Lookup(code Code) (Entry, bool) {
	entry, ok := t.entries[Normalize(string(code))]
	return entry, ok
}

// Entries lists the table sorted by code.
func (t Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
