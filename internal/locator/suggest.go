package locator

import (
	"context"
	"sort"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/store"
)

// SuggestPincode lists distinct pin codes starting with prefix. An empty
// prefix lists pin codes without filtering.
func (s *Service) SuggestPincode(ctx context.Context, prefix string) (Suggestions, error) {
	q := store.Query{Field: domain.FieldPinCode}
	if prefix != "" {
		q.Match = store.MatchPrefix
		q.Value = prefix
	}
	return s.suggest(ctx, "pin code suggestions", q)
}

// Suggest lists distinct values of field containing substring.
func (s *Service) Suggest(ctx context.Context, field domain.Field, substring string) (Suggestions, error) {
	q := store.Query{Field: field}
	if substring != "" {
		q.Match = store.MatchContains
		q.Value = substring
	}
	return s.suggest(ctx, string(field)+" suggestions", q)
}

// SuggestField resolves a public field name (state, district, area) and
// delegates to Suggest. Unknown names fail with *domain.InvalidFieldError
// without touching the store.
func (s *Service) SuggestField(ctx context.Context, name, substring string) (Suggestions, error) {
	field, err := domain.ParseSuggestField(name)
	if err != nil {
		return Suggestions{}, err
	}
	return s.Suggest(ctx, field, substring)
}

func (s *Service) suggest(ctx context.Context, op string, q store.Query) (Suggestions, error) {
	values, err := s.store.Values(ctx, q)
	if err != nil {
		return Suggestions{}, &UpstreamError{Op: op, Err: err}
	}
	return Suggestions{Suggestions: distinctSorted(values, SuggestionLimit)}, nil
}

// distinctSorted drops empty values and duplicates, sorts, and keeps the first limit.
func distinctSorted(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
