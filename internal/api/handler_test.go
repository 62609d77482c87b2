package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/locator"
	"pharmalocator/m/internal/store"
	"pharmalocator/m/internal/storetest"
)

type countingStore struct {
	calls int
	err   error
}

func (c *countingStore) Pharmacies(context.Context, store.Query) ([]domain.Pharmacy, error) {
	c.calls++
	return nil, c.err
}

func (c *countingStore) Values(context.Context, store.Query) ([]string, error) {
	c.calls++
	return nil, c.err
}

type searchBody struct {
	Pharmacies []map[string]any `json:"pharmacies"`
	Message    string           `json:"message"`
}

func newTestServer(t *testing.T, s locator.PharmacyStore, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(locator.New(s, nil), nil, opts).Router())
	t.Cleanup(srv.Close)
	return srv
}

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServer(t, store.New(storetest.Open(t, storetest.Fixtures()...), time.Second), Options{})
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := fixtureServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv, "/health", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSearchByPincode(t *testing.T) {
	srv := fixtureServer(t)

	var body searchBody
	require.Equal(t, http.StatusOK, get(t, srv, "/search/by-pincode?pincode=560001", &body))
	require.Len(t, body.Pharmacies, 1)
	assert.Equal(t, "PMBJK001", body.Pharmacies[0]["Kendra Code"])
	assert.Equal(t, "12 MG Road, Bengaluru", body.Pharmacies[0]["Address"])
	assert.NotContains(t, body.Pharmacies[0], "distance")

	body = searchBody{}
	require.Equal(t, http.StatusOK, get(t, srv, "/search/by-pincode?pincode=999999", &body))
	assert.Empty(t, body.Pharmacies)
	assert.Equal(t, "No pharmacies found for PIN code 999999", body.Message)
}

func TestSearchByPincode_RejectsWrongLength(t *testing.T) {
	fake := &countingStore{}
	srv := newTestServer(t, fake, Options{})

	for _, path := range []string{
		"/search/by-pincode?pincode=56000",
		"/search/by-pincode?pincode=5600011",
		"/search/by-pincode",
	} {
		var body map[string]string
		assert.Equal(t, http.StatusBadRequest, get(t, srv, path, &body), path)
		assert.NotEmpty(t, body["detail"])
	}
	assert.Zero(t, fake.calls)
}

func TestTextSearchRoutes(t *testing.T) {
	srv := fixtureServer(t)

	cases := []struct {
		path  string
		count int
	}{
		{"/search/by-district?district_name=urban", 3},
		{"/search/by-state?state_name=Karnataka", 5},
		{"/search/by-area?area=Anna%20Salai", 1},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			var body searchBody
			require.Equal(t, http.StatusOK, get(t, srv, tc.path, &body))
			assert.Len(t, body.Pharmacies, tc.count)
		})
	}

	for _, path := range []string{"/search/by-district", "/search/by-state?state_name=", "/search/by-area"} {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, path, nil), path)
	}
}

func TestSearchByCoordinates(t *testing.T) {
	srv := fixtureServer(t)

	var body searchBody
	require.Equal(t, http.StatusOK, get(t, srv, "/search/by-coordinates?latitude=12.9716&longitude=77.5946&radius_km=10", &body))
	require.Len(t, body.Pharmacies, 2)
	assert.Equal(t, "PMBJK001", body.Pharmacies[0]["Kendra Code"])
	assert.Equal(t, "PMBJK006", body.Pharmacies[1]["Kendra Code"])
	assert.InDelta(t, 1.1, body.Pharmacies[0]["distance"], 0.1)

	// Default radius of 5 km excludes Koramangala.
	body = searchBody{}
	require.Equal(t, http.StatusOK, get(t, srv, "/search/by-coordinates?latitude=12.9716&longitude=77.5946", &body))
	require.Len(t, body.Pharmacies, 1)

	body = searchBody{}
	require.Equal(t, http.StatusOK, get(t, srv, "/search/by-coordinates?latitude=28.61&longitude=77.20&radius_km=1", &body))
	assert.Empty(t, body.Pharmacies)
	assert.Equal(t, "No pharmacies found within 1km of your location", body.Message)
}

func TestSearchByCoordinates_BadParams(t *testing.T) {
	fake := &countingStore{}
	srv := newTestServer(t, fake, Options{})

	for _, path := range []string{
		"/search/by-coordinates?longitude=77.59",
		"/search/by-coordinates?latitude=north&longitude=77.59",
		"/search/by-coordinates?latitude=12.97&longitude=77.59&radius_km=0",
		"/search/by-coordinates?latitude=12.97&longitude=77.59&radius_km=51",
		"/search/by-coordinates?latitude=12.97&longitude=77.59&radius_km=",
	} {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, path, nil), path)
	}
	assert.Zero(t, fake.calls)
}

func TestSuggestionRoutes(t *testing.T) {
	srv := fixtureServer(t)

	cases := []struct {
		path string
		want []string
	}{
		{"/suggestions/pincode?query=560", []string{"560001", "560002", "560034"}},
		{"/suggestions/state", []string{"Karnataka", "Tamil Nadu"}},
		{"/suggestions/district?query=kol", []string{"Kolar"}},
		{"/suggest/pincode?input=6", []string{"600001"}},
		{"/suggest/district?input=chen", []string{"Chennai"}},
		{"/suggest/state?input=", []string{"Karnataka", "Tamil Nadu"}},
		{"/suggest/area?input=kolar", []string{"Clock Tower Road, Kolar"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			var body locator.Suggestions
			require.Equal(t, http.StatusOK, get(t, srv, tc.path, &body))
			assert.Equal(t, tc.want, body.Suggestions)
		})
	}

	var empty map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/suggest/state?input=zzz", &empty))
	assert.Equal(t, []any{}, empty["suggestions"])
}

func TestFieldSuggestions_InvalidField(t *testing.T) {
	fake := &countingStore{}
	srv := newTestServer(t, fake, Options{})

	var body map[string]string
	require.Equal(t, http.StatusBadRequest, get(t, srv, "/suggestions/city?query=x", &body))
	assert.Equal(t, "Invalid field. Must be one of: area, district, state", body["detail"])
	assert.Zero(t, fake.calls)
}

func TestSuggest_RequiresInput(t *testing.T) {
	fake := &countingStore{}
	srv := newTestServer(t, fake, Options{})

	for _, path := range []string{"/suggest/pincode", "/suggest/district", "/suggest/state", "/suggest/area"} {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, path, nil), path)
	}
	assert.Zero(t, fake.calls)
}

func TestUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &countingStore{err: errors.New("relation \"pharmacies\" does not exist")}, Options{})

	for _, path := range []string{
		"/search/by-pincode?pincode=560001",
		"/search/by-coordinates?latitude=1&longitude=1",
		"/suggestions/area",
		"/suggest/pincode?input=5",
	} {
		var body map[string]string
		assert.Equal(t, http.StatusInternalServerError, get(t, srv, path, &body), path)
		assert.Contains(t, body["detail"], `relation "pharmacies" does not exist`)
	}
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, store.New(storetest.Open(t, storetest.Fixtures()...), time.Second), Options{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, get(t, srv, "/suggest/state?input=k", nil))
	assert.Equal(t, http.StatusOK, get(t, srv, "/suggest/state?input=k", nil))
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv, "/suggest/state?input=k", nil))
	assert.Equal(t, http.StatusOK, get(t, srv, "/health", nil), "health is not rate limited")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &countingStore{}, Options{AllowedOrigins: []string{"https://app.example"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/search/by-area?area=x", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
