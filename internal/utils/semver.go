package utils

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CanonicalVersion normalizes a version string to the "vMAJOR.MINOR.PATCH"
// form. The leading "v" is optional. Invalid versions return "".
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return semver.Canonical(version)
}

// CompatibleVersion reports whether a document version can be read by a
// reader supporting the given version: both must be valid and share a major
// version.
func CompatibleVersion(document, supported string) bool {
	doc := CanonicalVersion(document)
	sup := CanonicalVersion(supported)
	if doc == "" || sup == "" {
		return false
	}
	return semver.Major(doc) == semver.Major(sup)
}
