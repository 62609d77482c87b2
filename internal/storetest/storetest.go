// Package storetest opens throwaway SQLite pharmacy stores for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pharmalocator/m/domain"
	"pharmalocator/m/internal/database"
)

const schema = `CREATE TABLE IF NOT EXISTS pharmacies (
    "Kendra Code" TEXT,
    "Name" TEXT,
    "Contact" TEXT,
    "State Name" TEXT,
    "District Name" TEXT,
    "Pin Code" TEXT,
    "Address" TEXT,
    "Latitude" TEXT,
    "Longitude" TEXT
);`

// Rec is a compact fixture row. Empty strings are stored as NULL.
type Rec struct {
	Code, Name, Contact, State, District, Pin, Address, Lat, Lon string
}

// Pharmacy converts r to the record the store returns for it.
func (r Rec) Pharmacy() domain.Pharmacy {
	return domain.Pharmacy{
		KendraCode:   nullable(r.Code),
		Name:         nullable(r.Name),
		Contact:      nullable(r.Contact),
		StateName:    nullable(r.State),
		DistrictName: nullable(r.District),
		PinCode:      nullable(r.Pin),
		Address:      nullable(r.Address),
		Latitude:     nullable(r.Lat),
		Longitude:    nullable(r.Lon),
	}
}

// Fixtures is a small Karnataka/Tamil Nadu data set shared by tests.
func Fixtures() []Rec {
	return []Rec{
		{Code: "PMBJK001", Name: "Jan Aushadhi MG Road", Contact: "9800000001", State: "Karnataka", District: "Bengaluru Urban", Pin: "560001", Address: "12 MG Road, Bengaluru", Lat: "12.98", Lon: "77.60"},
		{Code: "PMBJK002", Name: "Jan Aushadhi Kolar", Contact: "9800000002", State: "Karnataka", District: "Kolar", Pin: "563101", Address: "Clock Tower Road, Kolar", Lat: "13.5", Lon: "78.0"},
		{Code: "PMBJK003", Name: "Jan Aushadhi Mysuru", State: "Karnataka", District: "Mysuru", Pin: "570001", Address: "Sayyaji Rao Road, Mysuru"},
		{Code: "PMBJK004", Name: "Jan Aushadhi Brigade Road", State: "Karnataka", District: "Bengaluru Urban", Pin: "560002", Address: "Brigade Road, Bengaluru", Lat: "n/a", Lon: "77.61"},
		{Code: "PMBJK005", Name: "Jan Aushadhi Anna Salai", State: "Tamil Nadu", District: "Chennai", Pin: "600001", Address: "Anna Salai, Chennai", Lat: "13.08", Lon: "80.27"},
		{Code: "PMBJK006", Name: "Jan Aushadhi Koramangala", State: "Karnataka", District: "Bengaluru Urban", Pin: "560034", Address: "80 Feet Road, Koramangala, Bengaluru", Lat: " 12.9352 ", Lon: "77.6245"},
	}
}

// Open returns an in-memory store connected through the gateway, seeded with rows.
func Open(t testing.TB, rows ...Rec) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), "sqlite://:memory:", "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	Seed(t, db, rows...)
	return db
}

// Seed creates the pharmacies table in db if needed and inserts rows.
func Seed(t testing.TB, db *sqlx.DB, rows ...Rec) {
	t.Helper()
	db.MustExec(schema)
	Insert(t, db, rows...)
}

// Insert adds rows to an open store.
func Insert(t testing.TB, db *sqlx.DB, rows ...Rec) {
	t.Helper()
	tx, err := db.Beginx()
	require.NoError(t, err)
	stmt, err := tx.Preparex(`INSERT INTO pharmacies ("Kendra Code", "Name", "Contact", "State Name", "District Name", "Pin Code", "Address", "Latitude", "Longitude") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	require.NoError(t, err)
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(nullable(r.Code), nullable(r.Name), nullable(r.Contact), nullable(r.State), nullable(r.District), nullable(r.Pin), nullable(r.Address), nullable(r.Lat), nullable(r.Lon))
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())
}

func nullable(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
