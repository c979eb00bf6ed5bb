package main

import "strings"

// Cart line identifiers are composite strings of the form
// <productId>-<variantSuffix...>: the storefront layers -fresh / -velvet
// (flower freshness) and -standard / -custom (card type) onto the base
// catalog id when a variant is selected. Checkout needs the base id back to
// validate the line against the catalog.

// ExtractProductID recovers the catalog product id from a cart line id.
// A trailing -fresh or -velvet segment is stripped first (each may carry at
// most one further segment); -standard and -custom are terminal and cut the
// id at their position. Unknown suffix patterns pass through unchanged, and
// empty input returns the empty string.
func ExtractProductID(cartLineID string) string {
	if cartLineID == "" {
		return ""
	}
	id := cartLineID
	for _, suffix := range []string{"-fresh", "-velvet"} {
		i := strings.LastIndex(id, suffix)
		if i < 0 {
			continue
		}
		rest := id[i+len(suffix):]
		if rest == "" || (strings.HasPrefix(rest, "-") && !strings.Contains(rest[1:], "-")) {
			id = id[:i]
		}
	}
	for _, suffix := range []string{"-standard", "-custom"} {
		if i := strings.Index(id, suffix); i >= 0 {
			id = id[:i]
		}
	}
	return id
}
