package installments

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/warp/billboard-engine/generic"
)

// =============================================================================
// GROUPING - Runs of equal consecutive installments
// =============================================================================

// PaymentGroup is a maximal run of consecutive installments with equal
// amounts (within 0.01).
type PaymentGroup struct {
	Amount      decimal.Decimal
	Count       int
	StartIndex  int
	PaymentType generic.PaymentType
	FirstDue    generic.Date
	LastDue     generic.Date
}

// GroupRepeatingPayments merges consecutive equal amounts, preserving order.
func GroupRepeatingPayments(list []generic.Installment) []PaymentGroup {
	var groups []PaymentGroup
	for i, inst := range list {
		if n := len(groups); n > 0 &&
			generic.WithinTolerance(groups[n-1].Amount, inst.Amount, generic.EqualAmountTolerance) {
			groups[n-1].Count++
			groups[n-1].LastDue = inst.DueDate
			continue
		}
		groups = append(groups, PaymentGroup{
			Amount:      inst.Amount,
			Count:       1,
			StartIndex:  i,
			PaymentType: inst.PaymentType,
			FirstDue:    inst.DueDate,
			LastDue:     inst.DueDate,
		})
	}
	return groups
}

// FormatAmount renders an amount with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

// =============================================================================
// SUMMARY TEXT
// =============================================================================

// GeneratePaymentSummaryText renders the groups compactly, e.g.
// "دفعة واحدة بقيمة 1,000.00 د.ل، 3 دفعات × 3,000.00 د.ل".
func GeneratePaymentSummaryText(list []generic.Installment, currency string) string {
	groups := GroupRepeatingPayments(list)
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		amount := withCurrency(FormatAmount(g.Amount), currency)
		if g.Count == 1 {
			parts = append(parts, "دفعة واحدة بقيمة "+amount)
			continue
		}
		parts = append(parts, fmt.Sprintf("%d دفعات × %s", g.Count, amount))
	}
	return strings.Join(parts, "، ")
}

// =============================================================================
// CONTRACT CLAUSE
// =============================================================================

var ordinals = []string{"الأولى", "الثانية", "الثالثة"}

// individualClauseLimit is the largest schedule spelled out one by one.
const individualClauseLimit = 3

// GeneratePaymentsClauseText renders the payment clause of a contract.
// Up to three installments are spelled out individually; longer schedules
// read as a first payment followed by the recurring groups.
func GeneratePaymentsClauseText(list []generic.Installment, currency string) string {
	if len(list) == 0 {
		return ""
	}

	total := withCurrency(FormatAmount(generic.SumAmounts(list)), currency)
	head := fmt.Sprintf("يلتزم الطرف الثاني بسداد قيمة العقد البالغة %s على النحو التالي: ", total)

	if len(list) <= individualClauseLimit {
		parts := make([]string, len(list))
		for i, inst := range list {
			parts[i] = fmt.Sprintf("الدفعة %s بقيمة %s %s",
				ordinals[i], withCurrency(FormatAmount(inst.Amount), currency), dueClause(inst))
		}
		return head + strings.Join(parts, "، ") + "."
	}

	first := list[0]
	rest := list[1:]
	parts := []string{fmt.Sprintf("الدفعة الأولى بقيمة %s %s",
		withCurrency(FormatAmount(first.Amount), currency), dueClause(first))}

	cadence := DetectCadence(rest)
	for _, g := range GroupRepeatingPayments(rest) {
		amount := withCurrency(FormatAmount(g.Amount), currency)
		if g.Count == 1 {
			parts = append(parts, fmt.Sprintf("دفعة بقيمة %s تستحق بتاريخ %s", amount, g.FirstDue))
			continue
		}
		words := []string{fmt.Sprintf("%d دفعات", g.Count)}
		if cadence != "" {
			words = append(words, cadence)
		}
		words = append(words, "بقيمة "+amount, "ابتداءً من "+g.FirstDue.String())
		parts = append(parts, strings.Join(words, " "))
	}
	return head + strings.Join(parts, "، ثم ") + "."
}

// DetectCadence names how often the recurring installments fall due. An
// explicit payment type on the first recurring installment wins; otherwise
// the month gap between the first two due dates decides.
func DetectCadence(recurring []generic.Installment) string {
	if len(recurring) == 0 {
		return ""
	}
	switch recurring[0].PaymentType {
	case generic.PaymentMonthly:
		return "شهرياً"
	case generic.PaymentBimonthly:
		return "كل شهرين"
	case generic.PaymentQuarterly:
		return "ربع سنوي"
	case generic.PaymentFourMonthly:
		return "كل أربعة أشهر"
	case generic.PaymentUnset:
	default:
		return ""
	}

	if len(recurring) < 2 {
		return ""
	}
	switch gap := generic.MonthsBetween(recurring[0].DueDate, recurring[1].DueDate); {
	case gap == 1:
		return "شهرياً"
	case gap == 2:
		return "كل شهرين"
	case gap == 3:
		return "ربع سنوي"
	case gap == 6:
		return "نصف سنوي"
	case gap == 12:
		return "سنوياً"
	case gap > 0:
		return fmt.Sprintf("كل %d أشهر", gap)
	default:
		return ""
	}
}

func dueClause(inst generic.Installment) string {
	switch inst.PaymentType {
	case generic.PaymentOnSigning:
		return "عند التوقيع"
	case generic.PaymentOnInstallation:
		return "عند التركيب"
	case generic.PaymentOnContractEnd:
		return "في نهاية العقد"
	}
	return "تستحق بتاريخ " + inst.DueDate.String()
}

func withCurrency(amount, currency string) string {
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}
