package geo

import (
	"slices"
	"strings"
)

// Department is one entry of the reference dataset.
type Department struct {
	Name   string   `json:"departamento"`
	Cities []string `json:"ciudades"`
}

// Catalog is the department/city reference dataset.
type Catalog struct {
	Departments []Department
}

// DepartmentNames returns the department names in dataset order.
func (c Catalog) DepartmentNames() []string {
	out := make([]string, 0, len(c.Departments))
	for _, d := range c.Departments {
		out = append(out, d.Name)
	}
	return out
}

// Cities returns the cities of department, matched exactly.
func (c Catalog) Cities(department string) ([]string, bool) {
	for _, d := range c.Departments {
		if d.Name == department {
			return d.Cities, true
		}
	}
	return nil, false
}

// HasCity reports whether city belongs to department.
func (c Catalog) HasCity(department, city string) bool {
	cities, ok := c.Cities(department)
	return ok && slices.Contains(cities, city)
}

// Empty reports whether the catalog holds no departments.
func (c Catalog) Empty() bool { return len(c.Departments) == 0 }

// Search returns the departments whose name contains q, case-insensitively.
func (c Catalog) Search(q string) []Department {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return c.Departments
	}
	var out []Department
	for _, d := range c.Departments {
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out
}
