// Package locator implements the read-only pharmacy search and suggestion
// operations on top of the pharmacy store.
package locator

import (
	"context"
	"fmt"
	"log/slog"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/store"
)

const (
	// StateLimit caps state searches server-side.
	StateLimit = 15
	// SuggestionLimit caps every suggestion list.
	SuggestionLimit = 10
	// DefaultRadiusKm applies when a coordinate search names no radius.
	DefaultRadiusKm = 5.0
)

// PharmacyStore is the subset of store.Store the service reads through.
type PharmacyStore interface {
	Pharmacies(ctx context.Context, q store.Query) ([]domain.Pharmacy, error)
	Values(ctx context.Context, q store.Query) ([]string, error)
}

// SearchResult is the body of every search response. Pharmacies is never nil.
type SearchResult struct {
	Pharmacies []domain.Pharmacy `json:"pharmacies"`
	Message    string            `json:"message,omitempty"`
}

// Suggestions is the body of every suggestion response.
type Suggestions struct {
	Suggestions []string `json:"suggestions"`
}

// Service bundles the store handle shared by all operations.
type Service struct {
	store PharmacyStore
	log   *slog.Logger
}

// New constructs a Service. A nil logger falls back to slog.Default.
func New(s PharmacyStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, log: logger}
}

// ByPincode returns the pharmacies whose pin code equals pincode.
func (s *Service) ByPincode(ctx context.Context, pincode string) (SearchResult, error) {
	if err := check("pincode", pincode, "len=6"); err != nil {
		return SearchResult{}, err
	}
	return s.search(ctx, "search by pin code",
		store.Query{Field: domain.FieldPinCode, Match: store.MatchExact, Value: pincode},
		fmt.Sprintf("No pharmacies found for PIN code %s", pincode))
}

// ByDistrict matches district names containing district, ignoring case.
func (s *Service) ByDistrict(ctx context.Context, district string) (SearchResult, error) {
	if err := check("district_name", district, "min=1"); err != nil {
		return SearchResult{}, err
	}
	return s.search(ctx, "search by district",
		store.Query{Field: domain.FieldDistrict, Match: store.MatchContains, Value: district},
		fmt.Sprintf("No pharmacies found in district %s", district))
}

// ByState matches state names containing state and returns at most StateLimit rows.
func (s *Service) ByState(ctx context.Context, state string) (SearchResult, error) {
	if err := check("state_name", state, "min=1"); err != nil {
		return SearchResult{}, err
	}
	return s.search(ctx, "search by state",
		store.Query{Field: domain.FieldState, Match: store.MatchContains, Value: state, Limit: StateLimit},
		fmt.Sprintf("No pharmacies found in state %s", state))
}

// ByArea matches addresses containing area.
func (s *Service) ByArea(ctx context.Context, area string) (SearchResult, error) {
	if err := check("area", area, "min=1"); err != nil {
		return SearchResult{}, err
	}
	return s.search(ctx, "search by area",
		store.Query{Field: domain.FieldAddress, Match: store.MatchContains, Value: area},
		fmt.Sprintf("No pharmacies found in area %s", area))
}

func (s *Service) search(ctx context.Context, op string, q store.Query, emptyMessage string) (SearchResult, error) {
	pharmacies, err := s.store.Pharmacies(ctx, q)
	if err != nil {
		return SearchResult{}, &UpstreamError{Op: op, Err: err}
	}
	if len(pharmacies) == 0 {
		return SearchResult{Pharmacies: []domain.Pharmacy{}, Message: emptyMessage}, nil
	}
	return SearchResult{Pharmacies: pharmacies}, nil
}
