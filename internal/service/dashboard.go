package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Chart bucket sizes
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
	GroupByYear  = "year"
)

// PeriodAll disables the date window
const PeriodAll = "all"

type periodSpec struct {
	years, months, days int
	groupBy             string
}

var periods = map[string]periodSpec{
	"7days":   {days: 7, groupBy: GroupByDay},
	"30days":  {days: 30, groupBy: GroupByDay},
	"90days":  {days: 90, groupBy: GroupByWeek},
	"6months": {months: 6, groupBy: GroupByMonth},
	"1year":   {years: 1, groupBy: GroupByMonth},
	PeriodAll: {groupBy: GroupByMonth},
}

var groupings = map[string]bool{
	GroupByDay:   true,
	GroupByWeek:  true,
	GroupByMonth: true,
	GroupByYear:  true,
}

// ResolvePeriod returns the window start for period ending at now, or nil
// for "all", together with the bucket size the period charts by default.
func ResolvePeriod(period string, now time.Time) (*time.Time, string, error) {
	window, ok := periods[period]
	if !ok {
		return nil, "", newValidationError("period", "Must be one of: 7days 30days 90days 6months 1year all")
	}
	if period == PeriodAll {
		return nil, window.groupBy, nil
	}
	start := now.UTC().AddDate(-window.years, -window.months, -window.days)
	return &start, window.groupBy, nil
}

// BucketKey names the chart bucket t falls in. Weeks follow ISO 8601 and
// are keyed by ISO year, so keys sort chronologically.
func BucketKey(t time.Time, groupBy string) string {
	t = t.UTC()
	switch groupBy {
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	case GroupByYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// within reports whether t falls in [start, end]. A nil start means no
// window at all, so future-dated records count too.
func within(t time.Time, start *time.Time, end time.Time) bool {
	if start == nil {
		return true
	}
	return !t.Before(*start) && !t.After(end)
}

type revenueBucket struct {
	revenue   decimal.Decimal
	expenses  decimal.Decimal
	billCount int
}

// RevenueSeries buckets bill totals and expense amounts dated inside
// [start, end], or all of them when start is nil, and returns the buckets in ascending key order with totals.
func RevenueSeries(bills []domain.Bill, expenses []domain.Expense, groupBy string, start *time.Time, end time.Time) ([]domain.RevenuePointDTO, domain.RevenueTotalsDTO) {
	buckets := make(map[string]*revenueBucket)
	bucket := func(key string) *revenueBucket {
		b, ok := buckets[key]
		if !ok {
			b = &revenueBucket{}
			buckets[key] = b
		}
		return b
	}

	for _, bill := range bills {
		if !within(bill.BillDate, start, end) {
			continue
		}
		b := bucket(BucketKey(bill.BillDate, groupBy))
		b.revenue = b.revenue.Add(decimal.NewFromFloat(bill.TotalAmount))
		b.billCount++
	}
	for _, expense := range expenses {
		if !within(expense.ExpenseDate, start, end) {
			continue
		}
		b := bucket(BucketKey(expense.ExpenseDate, groupBy))
		b.expenses = b.expenses.Add(decimal.NewFromFloat(expense.Amount))
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]domain.RevenuePointDTO, 0, len(keys))
	var revenue, spent decimal.Decimal
	billCount := 0
	for _, k := range keys {
		b := buckets[k]
		points = append(points, domain.RevenuePointDTO{
			Date:      k,
			Revenue:   b.revenue.InexactFloat64(),
			Expenses:  b.expenses.InexactFloat64(),
			Profit:    b.revenue.Sub(b.expenses).InexactFloat64(),
			BillCount: b.billCount,
		})
		revenue = revenue.Add(b.revenue)
		spent = spent.Add(b.expenses)
		billCount += b.billCount
	}

	return points, domain.RevenueTotalsDTO{
		Revenue:   revenue.InexactFloat64(),
		Expenses:  spent.InexactFloat64(),
		Profit:    revenue.Sub(spent).InexactFloat64(),
		BillCount: billCount,
	}
}

// percentOf returns part/total*100 rounded to places, or 0 when total is zero
func percentOf(part, total decimal.Decimal, places int32) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(total).Round(places).InexactFloat64()
}

// SiteStatusDistribution counts sites per status in workflow order. Only
// statuses with at least one site are listed.
func SiteStatusDistribution(sites []domain.Site) domain.SiteStatusDistributionDTO {
	counts := make(map[domain.SiteStatus]int)
	for _, site := range sites {
		counts[site.Status]++
	}

	order := append([]domain.SiteStatus{}, domain.SiteStatuses...)
	known := make(map[domain.SiteStatus]bool, len(order))
	for _, st := range order {
		known[st] = true
	}
	var extra []domain.SiteStatus
	for st := range counts {
		if !known[st] {
			extra = append(extra, st)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order = append(order, extra...)

	total := decimal.NewFromInt(int64(len(sites)))
	statuses := make([]domain.SiteStatusCountDTO, 0, len(counts))
	for _, st := range order {
		n := counts[st]
		if n == 0 {
			continue
		}
		statuses = append(statuses, domain.SiteStatusCountDTO{
			Status:     string(st),
			Count:      n,
			Percentage: percentOf(decimal.NewFromInt(int64(n)), total, 1),
		})
	}
	return domain.SiteStatusDistributionDTO{Total: len(sites), Statuses: statuses}
}

var expenseTypeOrder = []domain.ExpenseType{
	domain.ExpenseTypeFuel,
	domain.ExpenseTypeFood,
	domain.ExpenseTypeSalary,
	domain.ExpenseTypeOthers,
}

// ExpenseBreakdown sums expenses per type with each type's share of the total
func ExpenseBreakdown(expenses []domain.Expense) ([]domain.ExpenseTypeTotalDTO, float64) {
	amounts := make(map[domain.ExpenseType]decimal.Decimal)
	counts := make(map[domain.ExpenseType]int)
	total := decimal.Zero
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		amounts[e.Type] = amounts[e.Type].Add(amount)
		counts[e.Type]++
		total = total.Add(amount)
	}

	var extra []domain.ExpenseType
	for t := range counts {
		if !containsType(expenseTypeOrder, t) {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	order := append(append([]domain.ExpenseType{}, expenseTypeOrder...), extra...)

	byType := make([]domain.ExpenseTypeTotalDTO, 0, len(counts))
	for _, t := range order {
		if counts[t] == 0 {
			continue
		}
		byType = append(byType, domain.ExpenseTypeTotalDTO{
			Type:       string(t),
			Amount:     amounts[t].InexactFloat64(),
			Percentage: percentOf(amounts[t], total, 2),
			Count:      counts[t],
		})
	}
	return byType, total.InexactFloat64()
}

func containsType(types []domain.ExpenseType, t domain.ExpenseType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// clientSummary is the project and revenue rollup for one client
type clientSummary struct {
	totalProjects     int
	activeProjects    int
	completedProjects int
	totalRevenue      decimal.Decimal
	paidAmount        decimal.Decimal
}

func (c clientSummary) pendingAmount() decimal.Decimal {
	return c.totalRevenue.Sub(c.paidAmount)
}

// summarizeClient rolls up one client's sites and bills
func summarizeClient(sites []domain.Site, bills []domain.Bill) clientSummary {
	var s clientSummary
	s.totalProjects = len(sites)
	for _, site := range sites {
		if site.Status == domain.SiteStatusProjectCompleted {
			s.completedProjects++
		} else {
			s.activeProjects++
		}
	}
	for _, bill := range bills {
		amount := decimal.NewFromFloat(bill.TotalAmount)
		s.totalRevenue = s.totalRevenue.Add(amount)
		if bill.PaymentStatus == domain.PaymentStatusPaid {
			s.paidAmount = s.paidAmount.Add(amount)
		}
	}
	return s
}

// Top client orderings
const (
	TopClientsByRevenue  = "revenue"
	TopClientsByProjects = "projects"
)

// DefaultTopClients is the number of clients returned when no limit is given
const DefaultTopClients = 10

// TopClients ranks clients by total revenue or project count. Sites and
// bills are matched to clients in memory.
func TopClients(clients []domain.Client, sites []domain.Site, bills []domain.Bill, sortBy string, limit int) []domain.TopClientDTO {
	if limit <= 0 {
		limit = DefaultTopClients
	}

	sitesByClient := make(map[uuid.UUID][]domain.Site)
	for _, site := range sites {
		if site.ClientID != nil {
			sitesByClient[*site.ClientID] = append(sitesByClient[*site.ClientID], site)
		}
	}
	billsByClient := make(map[uuid.UUID][]domain.Bill)
	for _, bill := range bills {
		billsByClient[bill.CustomerID] = append(billsByClient[bill.CustomerID], bill)
	}

	type ranked struct {
		dto     domain.TopClientDTO
		revenue decimal.Decimal
	}
	rows := make([]ranked, len(clients))
	for i, c := range clients {
		s := summarizeClient(sitesByClient[c.ID], billsByClient[c.ID])
		rows[i] = ranked{
			revenue: s.totalRevenue,
			dto: domain.TopClientDTO{
				ID:                c.ID,
				Name:              c.Name,
				Company:           c.Company,
				TotalProjects:     s.totalProjects,
				CompletedProjects: s.completedProjects,
				ActiveProjects:    s.activeProjects,
				TotalRevenue:      s.totalRevenue.InexactFloat64(),
				PaidAmount:        s.paidAmount.InexactFloat64(),
				PendingAmount:     s.pendingAmount().InexactFloat64(),
			},
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if sortBy == TopClientsByProjects {
			return rows[i].dto.TotalProjects > rows[j].dto.TotalProjects
		}
		return rows[i].revenue.GreaterThan(rows[j].revenue)
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]domain.TopClientDTO, len(rows))
	for i, r := range rows {
		out[i] = r.dto
	}
	return out
}
