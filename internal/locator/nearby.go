package locator

import (
	"context"
	"fmt"
	"math"
	"sort"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/geo"
	"pharmalocator/m/internal/observe"
	"pharmalocator/m/internal/store"
)

type ranked struct {
	pharmacy domain.Pharmacy
	distance float64
}

// Nearby returns the pharmacies within radiusKm of (lat, lon), nearest first,
// each with its distance attached. Rows without a usable position are skipped.
// Equal distances keep the store's kendra code order.
func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64) (SearchResult, error) {
	if err := check("radius_km", radiusKm, "gt=0,lte=50"); err != nil {
		return SearchResult{}, err
	}

	pharmacies, err := s.store.Pharmacies(ctx, store.Query{})
	if err != nil {
		return SearchResult{}, &UpstreamError{Op: "search by coordinates", Err: err}
	}
	if len(pharmacies) == 0 {
		return SearchResult{Pharmacies: []domain.Pharmacy{}, Message: "No pharmacies found with valid coordinates"}, nil
	}

	target := geo.Point{Lat: lat, Lon: lon}
	box := geo.BoundingBox(target, radiusKm)

	var (
		hits    []ranked
		skipped int
	)
	for _, p := range pharmacies {
		plat, plon, ok := p.Position()
		if !ok {
			skipped++
			continue
		}
		pos := geo.Point{Lat: plat, Lon: plon}
		if !box.Contains(pos) {
			continue
		}
		d := geo.Distance(target, pos)
		if !(d <= radiusKm) {
			continue
		}
		hits = append(hits, ranked{pharmacy: p, distance: d})
	}
	observe.InvalidCoordinates.Add(float64(skipped))
	s.log.Debug("coordinate search scanned store",
		"rows", len(pharmacies), "skipped", skipped, "matched", len(hits), "radius_km", radiusKm)

	if len(hits) == 0 {
		return SearchResult{
			Pharmacies: []domain.Pharmacy{},
			Message:    fmt.Sprintf("No pharmacies found within %gkm of your location", radiusKm),
		}, nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	out := make([]domain.Pharmacy, len(hits))
	for i, h := range hits {
		rounded := math.Round(h.distance*100) / 100
		h.pharmacy.Distance = &rounded
		out[i] = h.pharmacy
	}
	return SearchResult{Pharmacies: out}, nil
}
