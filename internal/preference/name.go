package preference

import (
	"fmt"
	"strings"

	"viewsync/internal/domain"
)

const viewInfix = "-dataviews-view-"

// Name is the preference a view is stored under: "<namespace>-dataviews-view-<slug>".
func Name(namespace, slug string) (string, error) {
	namespace = strings.TrimSpace(namespace)
	slug = strings.TrimSpace(slug)

	if slug == "" {
		return "", domain.ErrEmptySlug
	}
	if namespace == "" {
		return "", fmt.Errorf("namespace cannot be empty")
	}
	return namespace + viewInfix + slug, nil
}

// ParseName splits a view preference name. ok is false for preferences that
// do not hold a view.
func ParseName(name string) (namespace, slug string, ok bool) {
	namespace, slug, ok = strings.Cut(name, viewInfix)
	if !ok || namespace == "" || slug == "" {
		return "", "", false
	}
	return namespace, slug, true
}

// Prefix selects every view preference of a namespace.
func Prefix(namespace string) string {
	return namespace + viewInfix
}
