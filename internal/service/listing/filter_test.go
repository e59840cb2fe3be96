package listing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
	"logistics-console/internal/service/listing"
)

var bogota = time.FixedZone("COT", -5*3600)

func TestFilterCarriers_StatusCaseInsensitive(t *testing.T) {
	carriers := []domain.Carrier{
		{ID: 1, Status: "Disponible"},
		{ID: 2, Status: "En Ruta"},
	}

	got := listing.FilterCarriers(carriers, listing.CarrierFilter{Status: "disponible"})
	require.Equal(t, []domain.Carrier{{ID: 1, Status: "Disponible"}}, got)

	require.Len(t, listing.FilterCarriers(carriers, listing.CarrierFilter{Status: "all"}), 2)
}

func TestFilterCarriers_Search(t *testing.T) {
	carriers := []domain.Carrier{
		{ID: 1, Name: "Pedro Pérez", CurrentCity: "Cali", Vehicle: domain.Vehicle{Type: "Camión", Plate: "ABC123"}},
		{ID: 2, Name: "Lucía", CurrentCity: "Bogotá", Vehicle: domain.Vehicle{Type: "Moto", Plate: "XYZ9"}},
	}

	cases := []struct {
		q    string
		want []int64
	}{
		{"pedro", []int64{1}},
		{"BOGOTÁ", []int64{2}},
		{"moto", []int64{2}},
		{"abc", []int64{1}},
		{"", []int64{1, 2}},
		{"nadie", nil},
	}
	for _, tc := range cases {
		got := listing.FilterCarriers(carriers, listing.CarrierFilter{Search: tc.q})
		var ids []int64
		for _, c := range got {
			ids = append(ids, c.ID)
		}
		require.Equal(t, tc.want, ids, "query %q", tc.q)
	}
}

func TestOrderFilter_Yesterday(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, bogota)
	orders := []domain.Order{
		{ID: 1, CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, bogota)},
		{ID: 2, CreatedAt: time.Date(2025, 3, 9, 23, 59, 0, 0, bogota)},
		{ID: 3, CreatedAt: time.Date(2025, 3, 9, 0, 1, 0, 0, bogota)},
		{ID: 4, CreatedAt: time.Date(2025, 3, 8, 12, 0, 0, 0, bogota)},
		// 2025-03-10 03:00 UTC is still 2025-03-09 in Bogotá.
		{ID: 5, CreatedAt: time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)},
	}

	got := listing.FilterOrders(orders, listing.OrderFilter{Date: listing.DateYesterday}, now)
	var ids []int64
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	require.Equal(t, []int64{2, 3, 5}, ids)
}

func TestDateBucket_Match(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		bucket  listing.DateBucket
		created time.Time
		want    bool
	}{
		{"all keeps zero time", listing.DateAll, time.Time{}, true},
		{"zero time never matches a bucket", listing.DateToday, time.Time{}, false},
		{"today", listing.DateToday, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), true},
		{"today rejects yesterday", listing.DateToday, time.Date(2025, 3, 30, 23, 0, 0, 0, time.UTC), false},
		{"last week boundary inclusive", listing.DateLastWeek, time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC), true},
		{"last week excludes older", listing.DateLastWeek, time.Date(2025, 3, 24, 11, 59, 0, 0, time.UTC), false},
		{"last month is one calendar month", listing.DateLastMonth, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), true},
		{"last month excludes february", listing.DateLastMonth, time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.bucket.Match(tc.created, now))
		})
	}
}

func TestOrderFilter_Conjunction(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{ID: 11, Status: "Pendiente", TrackingCode: "TRK-AAA", Package: domain.Package{Type: "Documento"}, CreatedAt: now},
		{ID: 12, Status: "En tránsito", TrackingCode: "TRK-BBB", Package: domain.Package{Type: "documento"}, CreatedAt: now},
		{ID: 13, Status: "pendiente", Recipient: domain.Recipient{Name: "Ana Gómez"}, Package: domain.Package{Type: "frágil"}, CreatedAt: now},
	}

	f := listing.OrderFilter{Status: "PENDIENTE", PackageType: "documento"}
	got := listing.FilterOrders(orders, f, now)
	require.Len(t, got, 1)
	require.Equal(t, int64(11), got[0].ID)

	got = listing.FilterOrders(orders, listing.OrderFilter{Search: "gómez"}, now)
	require.Len(t, got, 1)
	require.Equal(t, int64(13), got[0].ID)

	got = listing.FilterOrders(orders, listing.OrderFilter{Search: "12"}, now)
	require.Len(t, got, 1)
	require.Equal(t, int64(12), got[0].ID)
}

func TestParseDateBucket(t *testing.T) {
	b, err := listing.ParseDateBucket("")
	require.NoError(t, err)
	require.Equal(t, listing.DateAll, b)

	b, err = listing.ParseDateBucket("lastWeek")
	require.NoError(t, err)
	require.Equal(t, listing.DateLastWeek, b)

	_, err = listing.ParseDateBucket("decade")
	require.ErrorIs(t, err, apperr.ErrInvalid)
}
