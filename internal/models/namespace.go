package models

import (
	"sort"
	"strings"
)

// NamespaceSeparator separates the segments of a type name
const NamespaceSeparator = "."

// Namespace returns everything before the final segment of a type name.
// "shop.billing.Invoice" -> "shop.billing"; "Invoice" -> "".
func Namespace(typeName string) string {
	if i := strings.LastIndex(typeName, NamespaceSeparator); i >= 0 {
		return typeName[:i]
	}
	return ""
}

// SimpleName returns the final segment of a type name
func SimpleName(typeName string) string {
	if i := strings.LastIndex(typeName, NamespaceSeparator); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}

// IsQualified reports whether a type name carries a namespace
func IsQualified(typeName string) bool {
	return strings.Contains(typeName, NamespaceSeparator)
}

// WithinNamespace reports whether namespace ns equals prefix or lies beneath it.
// Matching is per segment: "shopping" is not within "shop". The empty prefix
// contains every namespace.
func WithinNamespace(ns, prefix string) bool {
	if prefix == "" || ns == prefix {
		return true
	}
	return strings.HasPrefix(ns, prefix+NamespaceSeparator)
}

// NormalizeSet sorts and deduplicates a list of names, dropping empty entries
func NormalizeSet(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
