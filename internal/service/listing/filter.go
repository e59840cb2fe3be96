package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"logistics-console/internal/apperr"
	"logistics-console/internal/domain"
)

// FilterAll disables a status or package-type filter.
const FilterAll = "all"

// DateBucket selects orders by creation date relative to now.
type DateBucket string

// Date buckets.
const (
	DateAll       DateBucket = "all"
	DateToday     DateBucket = "today"
	DateYesterday DateBucket = "yesterday"
	DateLastWeek  DateBucket = "lastWeek"
	DateLastMonth DateBucket = "lastMonth"
)

// ParseDateBucket accepts the bucket names; empty means all.
func ParseDateBucket(s string) (DateBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DateAll, nil
	case "today":
		return DateToday, nil
	case "yesterday":
		return DateYesterday, nil
	case "lastweek", "last_week", "week":
		return DateLastWeek, nil
	case "lastmonth", "last_month", "month":
		return DateLastMonth, nil
	default:
		return "", fmt.Errorf("%w: date filter %q", apperr.ErrInvalid, s)
	}
}

// Match reports whether created falls in the bucket, evaluated at now in now's location.
// A zero creation time only matches DateAll.
func (b DateBucket) Match(created, now time.Time) bool {
	if b == DateAll || b == "" {
		return true
	}
	if created.IsZero() {
		return false
	}
	created = created.In(now.Location())
	switch b {
	case DateToday:
		return sameDay(created, now)
	case DateYesterday:
		return sameDay(created, now.AddDate(0, 0, -1))
	case DateLastWeek:
		return !created.Before(now.AddDate(0, 0, -7))
	case DateLastMonth:
		return !created.Before(now.AddDate(0, -1, 0))
	default:
		return false
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, FilterAll)
}

func containsFold(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	return lo.SomeBy(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), q)
	})
}

// OrderFilter is the conjunction of search, status, date and package-type filters.
type OrderFilter struct {
	Search      string
	Status      string
	Date        DateBucket
	PackageType string
}

// Match reports whether o passes every filter.
func (f OrderFilter) Match(o domain.Order, now time.Time) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if !containsFold(q,
		strconv.FormatInt(o.ID, 10),
		o.TrackingCode,
		o.Recipient.Name,
		o.Recipient.Phone,
		o.OriginAddress,
		o.DestinationAddress,
	) {
		return false
	}
	if !isAll(f.Status) && domain.NormalizeStatus(o.Status) != domain.NormalizeStatus(f.Status) {
		return false
	}
	if !isAll(f.PackageType) && domain.NormalizeStatus(o.Package.Type) != domain.NormalizeStatus(f.PackageType) {
		return false
	}
	return f.Date.Match(o.CreatedAt, now)
}

// FilterOrders returns the orders matching f, keeping their order.
func FilterOrders(orders []domain.Order, f OrderFilter, now time.Time) []domain.Order {
	return lo.Filter(orders, func(o domain.Order, _ int) bool { return f.Match(o, now) })
}

// CarrierFilter is the conjunction of search and status filters.
type CarrierFilter struct {
	Search string
	Status string
}

// Match reports whether c passes every filter.
func (f CarrierFilter) Match(c domain.Carrier) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if !containsFold(q,
		strconv.FormatInt(c.ID, 10),
		c.Name,
		c.Vehicle.Type,
		c.CurrentCity,
		c.Vehicle.Plate,
	) {
		return false
	}
	return isAll(f.Status) || domain.NormalizeStatus(c.Status) == domain.NormalizeStatus(f.Status)
}

// FilterCarriers returns the carriers matching f, keeping their order.
func FilterCarriers(carriers []domain.Carrier, f CarrierFilter) []domain.Carrier {
	return lo.Filter(carriers, func(c domain.Carrier, _ int) bool { return f.Match(c) })
}

// PackageTypes are the package types offered by the create and filter forms.
var PackageTypes = []string{
	"documento",
	"paquete pequeño",
	"paquete mediano",
	"paquete grande",
	"frágil",
}
