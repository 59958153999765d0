package quote

import (
	"fmt"
	"strings"
)

// IdentityKey decides when a remote candidate duplicates an existing quote.
type IdentityKey int

const (
	// KeyText matches on text alone. A remote quote whose text already exists
	// under any category is rejected.
	KeyText IdentityKey = iota
	// KeyTextCategory matches on text and category together.
	KeyTextCategory
)

// ParseIdentityKey accepts "text" or "text+category".
func ParseIdentityKey(s string) (IdentityKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return KeyText, nil
	case "text+category", "text_category", "text-category":
		return KeyTextCategory, nil
	default:
		return KeyText, fmt.Errorf("unknown identity key %q (want text or text+category)", s)
	}
}

func (k IdentityKey) String() string {
	if k == KeyTextCategory {
		return "text+category"
	}
	return "text"
}

// Matches reports whether a and b are the same quote under k.
func (k IdentityKey) Matches(a, b Quote) bool {
	if a.Text != b.Text {
		return false
	}
	return k == KeyText || a.Category == b.Category
}

// Contains reports whether any quote in quotes matches q under k.
func (k IdentityKey) Contains(quotes []Quote, q Quote) bool {
	for _, existing := range quotes {
		if k.Matches(existing, q) {
			return true
		}
	}
	return false
}
