package service

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/shopspring/decimal"
)

// BillTotals are the amounts derived from a bill's items and GST rates
type BillTotals struct {
	Subtotal       decimal.Decimal
	TotalTaxAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// CalculateBillTotals sums item amounts and applies GST. Item amounts are
// authoritative; rates are not multiplied out. Tax is not rounded.
func CalculateBillTotals(items []domain.BillItem, isGSTBill bool, stateGST, centralGST float64) BillTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Amount))
	}

	tax := decimal.Zero
	if isGSTBill {
		rate := decimal.NewFromFloat(stateGST).Add(decimal.NewFromFloat(centralGST))
		tax = subtotal.Mul(rate).Div(hundred)
	}

	return BillTotals{
		Subtotal:       subtotal,
		TotalTaxAmount: tax,
		TotalAmount:    subtotal.Add(tax),
	}
}

// applyBillTotals recomputes the derived amounts on bill from its items
func applyBillTotals(bill *domain.Bill) {
	totals := CalculateBillTotals(bill.Items, bill.IsGSTBill, bill.StateGST, bill.CentralGST)
	bill.Subtotal = totals.Subtotal.InexactFloat64()
	bill.TotalTaxAmount = totals.TotalTaxAmount.InexactFloat64()
	bill.TotalAmount = totals.TotalAmount.InexactFloat64()
}

// NextBillNumber suggests the number after latest. It is "1" when there is
// no latest number or latest is not numeric.
func NextBillNumber(latest string) string {
	v, err := strconv.ParseUint(strings.TrimSpace(latest), 10, 64)
	if err != nil {
		return "1"
	}
	return strconv.FormatUint(v+1, 10)
}

// itemSiteIDs returns the distinct site ids of items in first-seen order
func itemSiteIDs(items []domain.BillItem) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if seen[item.SiteID] {
			continue
		}
		seen[item.SiteID] = true
		ids = append(ids, item.SiteID)
	}
	return ids
}

// diffIDs returns the ids only in before and the ids only in after
func diffIDs(before, after []uuid.UUID) (removed, added []uuid.UUID) {
	inBefore := make(map[uuid.UUID]bool, len(before))
	for _, id := range before {
		inBefore[id] = true
	}
	inAfter := make(map[uuid.UUID]bool, len(after))
	for _, id := range after {
		inAfter[id] = true
	}
	for _, id := range before {
		if !inAfter[id] {
			removed = append(removed, id)
		}
	}
	for _, id := range after {
		if !inBefore[id] {
			added = append(added, id)
		}
	}
	return removed, added
}

// dedupeIDs drops repeated ids, keeping first-seen order
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
