package catalog

import (
	"strings"

	"github.com/jacksmith/binder/internal/model"
)

// BuildQuery renders a name query plus filters in the catalog's Lucene-like
// syntax, e.g. `name:pikachu rarity:"Rare Holo"`.
// Single-word queries are left bare so wildcards like "char*" keep working.
func BuildQuery(query string, filters model.SearchFilters) string {
	var parts []string

	if q := strings.TrimSpace(query); q != "" {
		parts = append(parts, term("name", q, false))
	}
	if filters.Rarity != "" {
		parts = append(parts, term("rarity", filters.Rarity, true))
	}
	if filters.Type != "" {
		parts = append(parts, term("types", filters.Type, true))
	}
	if filters.Set != "" {
		parts = append(parts, term("set.name", filters.Set, true))
	}
	if filters.Supertype != "" {
		parts = append(parts, term("supertype", filters.Supertype, true))
	}

	return strings.Join(parts, " ")
}

func term(field, value string, alwaysQuote bool) string {
	value = strings.TrimSpace(value)
	if alwaysQuote || strings.ContainsAny(value, " \t") {
		return field + `:"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	}
	return field + ":" + value
}
