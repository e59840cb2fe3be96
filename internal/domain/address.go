package domain

import (
	"fmt"
	"strings"
)

// NotAvailable is displayed for missing values.
const NotAvailable = "No disponible"

const country = "Colombia"

// ExtractCityAndDepartment returns "City, Department" out of a full address of
// the form "street, number, City, Department, Colombia".
// Without the country suffix the last two parts are used; short addresses are
// returned unchanged.
func ExtractCityAndDepartment(full string) string {
	if full == "" {
		return NotAvailable
	}
	parts := strings.Split(full, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 {
		return full
	}

	dept := -2
	for i, p := range parts {
		if strings.EqualFold(p, country) {
			dept = i - 1
			break
		}
	}
	city := dept - 1
	if dept > 0 && city >= 0 {
		return parts[city] + ", " + parts[dept]
	}
	return parts[len(parts)-2] + ", " + parts[len(parts)-1]
}

// BuildFullAddress composes the address string stored by the backend.
func BuildFullAddress(street, city, department string) string {
	return fmt.Sprintf("%s, %s, %s, %s", street, city, department, country)
}
