package goservice

import (
	"regexp"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// Underscore converts a Go type name such as "billing.ChargeCard" into the
// lowercase, underscored path used for translation scopes ("billing/charge_card").
// Package separators become slashes, acronyms are kept together ("HTTPClient"
// becomes "http_client") and dashes become underscores.
func Underscore(name string) string {
	s := strings.ReplaceAll(name, ".", "/")
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}

// TranslationScope returns the scope status keys of action are looked up in.
// A nil action resolves to the root scope.
func TranslationScope(action Action) string {
	if action == nil {
		return ScopeRoot
	}
	return ScopeRoot + "." + Underscore(ActionName(action))
}

// TranslationKeys returns the primary lookup key for a symbolic status message
// and its fallback chain, from most to least specific:
//
//	actions.<action>.<key>
//	actions.<key>
//	actions.<action>.<type>
//	actions.<type>
//
// Without an action the scoped candidates collapse onto the root ones.
func TranslationKeys(action Action, key Key, typ StatusType) (string, []string) {
	scope := TranslationScope(action)
	primary := scope + "." + string(key)
	rootKey := ScopeRoot + "." + string(key)
	rootType := ScopeRoot + "." + string(typ)

	if action == nil {
		return primary, []string{rootType}
	}
	return primary, []string{rootKey, scope + "." + string(typ), rootType}
}
