package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FilterKind is how a raw query-string filter value is interpreted
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
	FilterUUID
)

// FilterField maps an equality filter to its column
type FilterField struct {
	Column string
	Kind   FilterKind
}

// EntitySchema declares which fields of an entity can be searched, filtered,
// sorted and expanded from the query string.
type EntitySchema struct {
	Name          string
	SearchColumns []string
	SortColumns   map[string]string
	DefaultSort   string
	Filters       map[string]FilterField
	// DateColumn receives startDate, endDate and year
	DateColumn string
	Expandable []string
}

var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks the schema is internally consistent
func (s *EntitySchema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema has no name")
	}
	if _, ok := s.SortColumns[s.DefaultSort]; !ok {
		return fmt.Errorf("%s: default sort %q is not sortable", s.Name, s.DefaultSort)
	}
	for _, col := range s.SearchColumns {
		if !columnPattern.MatchString(col) {
			return fmt.Errorf("%s: bad search column %q", s.Name, col)
		}
	}
	for field, col := range s.SortColumns {
		if !columnPattern.MatchString(col) {
			return fmt.Errorf("%s: bad sort column %q for %s", s.Name, col, field)
		}
	}
	for field, f := range s.Filters {
		if !columnPattern.MatchString(f.Column) {
			return fmt.Errorf("%s: bad filter column %q for %s", s.Name, f.Column, field)
		}
	}
	if s.DateColumn != "" && !columnPattern.MatchString(s.DateColumn) {
		return fmt.Errorf("%s: bad date column %q", s.Name, s.DateColumn)
	}
	seen := make(map[string]bool, len(s.Expandable))
	for _, e := range s.Expandable {
		if seen[e] {
			return fmt.Errorf("%s: duplicate expandable field %q", s.Name, e)
		}
		seen[e] = true
	}
	return nil
}

// ParseFilter converts a raw query value for filter name
func (s *EntitySchema) ParseFilter(name, raw string) (interface{}, error) {
	f, ok := s.Filters[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", name)
	}
	switch f.Kind {
	case FilterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("must be true or false")
		}
		return b, nil
	case FilterUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("must be a valid UUID")
		}
		return id, nil
	default:
		return raw, nil
	}
}

// Expansions returns the requested expansions the schema allows
func (s *EntitySchema) Expansions(include string) map[string]bool {
	allowed := make(map[string]bool, len(s.Expandable))
	for _, e := range s.Expandable {
		allowed[e] = true
	}
	out := make(map[string]bool)
	for _, part := range strings.Split(include, ",") {
		part = strings.TrimSpace(part)
		if allowed[part] {
			out[part] = true
		}
	}
	return out
}

// orderClause resolves sortBy/sortOrder against the whitelist. Ties break on id.
func (s *EntitySchema) orderClause(sortBy string, order SortOrder) string {
	column, ok := s.SortColumns[sortBy]
	if !ok {
		column = s.SortColumns[s.DefaultSort]
	}
	dir := "DESC"
	if order == SortOrderAsc {
		dir = "ASC"
	}
	return column + " " + dir + ", id ASC"
}

var timestampSorts = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func sorts(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields)+len(timestampSorts))
	for k, v := range timestampSorts {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

var (
	ClientSchema = &EntitySchema{
		Name:          "clients",
		SearchColumns: []string{"name", "email", "phone", "company"},
		SortColumns:   sorts(map[string]string{"name": "name", "company": "company", "email": "email"}),
		DefaultSort:   "createdAt",
		DateColumn:    "created_at",
	}

	CrewSchema = &EntitySchema{
		Name:          "crews",
		SearchColumns: []string{"name", "username"},
		SortColumns:   sorts(map[string]string{"name": "name", "username": "username"}),
		DefaultSort:   "createdAt",
		Filters:       map[string]FilterField{"isActive": {Column: "is_active", Kind: FilterBool}},
		DateColumn:    "created_at",
	}

	VehicleSchema = &EntitySchema{
		Name:          "vehicles",
		SearchColumns: []string{"name", "registration_number"},
		SortColumns: sorts(map[string]string{
			"name":               "name",
			"registrationNumber": "registration_number",
			"year":               "year",
			"insuranceExpiry":    "insurance_expiry",
			"serviceDueDate":     "service_due_date",
		}),
		DefaultSort: "createdAt",
		Filters: map[string]FilterField{
			"type":   {Column: "type"},
			"status": {Column: "status"},
		},
		DateColumn: "created_at",
	}

	InstrumentSchema = &EntitySchema{
		Name:          "instruments",
		SearchColumns: []string{"name", "serial_number"},
		SortColumns: sorts(map[string]string{
			"name":           "name",
			"serialNumber":   "serial_number",
			"lastServicedOn": "last_serviced_on",
		}),
		DefaultSort: "createdAt",
		Filters: map[string]FilterField{
			"type":   {Column: "type"},
			"status": {Column: "status"},
		},
		DateColumn: "created_at",
	}

	SiteSchema = &EntitySchema{
		Name:          "sites",
		SearchColumns: []string{"name", "address", "city"},
		SortColumns: sorts(map[string]string{
			"name":      "name",
			"city":      "city",
			"status":    "status",
			"startDate": "start_date",
			"endDate":   "end_date",
		}),
		DefaultSort: "startDate",
		Filters: map[string]FilterField{
			"status":    {Column: "status"},
			"clientId":  {Column: "client_id", Kind: FilterUUID},
			"vehicleId": {Column: "vehicle_id", Kind: FilterUUID},
		},
		DateColumn: "start_date",
		Expandable: []string{"client", "vehicle", "bill", "crews", "instruments"},
	}

	BillSchema = &EntitySchema{
		Name:          "bills",
		SearchColumns: []string{"bill_number"},
		SortColumns: sorts(map[string]string{
			"billNumber":    "bill_number",
			"billDate":      "bill_date",
			"totalAmount":   "total_amount",
			"paymentStatus": "payment_status",
		}),
		DefaultSort: "billDate",
		Filters: map[string]FilterField{
			"customerId":    {Column: "customer_id", Kind: FilterUUID},
			"paymentStatus": {Column: "payment_status"},
		},
		DateColumn: "bill_date",
	}

	ExpenseSchema = &EntitySchema{
		Name:          "expenses",
		SearchColumns: []string{"description"},
		SortColumns: sorts(map[string]string{
			"expenseDate": "expense_date",
			"amount":      "amount",
			"type":        "type",
		}),
		DefaultSort: "expenseDate",
		Filters: map[string]FilterField{
			"type":   {Column: "type"},
			"siteId": {Column: "site_id", Kind: FilterUUID},
			"crewId": {Column: "crew_id", Kind: FilterUUID},
		},
		DateColumn: "expense_date",
	}

	EnquirySchema = &EntitySchema{
		Name:          "enquiries",
		SearchColumns: []string{"subject", "message"},
		SortColumns: sorts(map[string]string{
			"subject":      "subject",
			"status":       "status",
			"followUpDate": "follow_up_date",
		}),
		DefaultSort: "createdAt",
		Filters:     map[string]FilterField{"status": {Column: "status"}},
		DateColumn:  "follow_up_date",
	}
)

// Schemas returns every entity schema
func Schemas() []*EntitySchema {
	return []*EntitySchema{
		ClientSchema, CrewSchema, VehicleSchema, InstrumentSchema,
		SiteSchema, BillSchema, ExpenseSchema, EnquirySchema,
	}
}

// ValidateSchemas validates every entity schema; run once at startup
func ValidateSchemas() error {
	for _, s := range Schemas() {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
