package installments

import (
	"fmt"
	"strings"

	"github.com/warp/billboard-engine/generic"
)

// Interval is the cadence of recurring installments after a first payment.
type Interval int

const (
	IntervalMonth Interval = iota + 1
	IntervalTwoMonths
	IntervalThreeMonths
	IntervalFourMonths
)

var intervalNames = map[string]Interval{
	"month":   IntervalMonth,
	"2months": IntervalTwoMonths,
	"3months": IntervalThreeMonths,
	"4months": IntervalFourMonths,
}

// ParseInterval accepts "month", "2months", "3months" and "4months".
func ParseInterval(s string) (Interval, error) {
	if iv, ok := intervalNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return iv, nil
	}
	return 0, fmt.Errorf("%w: %q", generic.ErrInvalidInterval, s)
}

// Months is the gap between two recurring due dates.
func (iv Interval) Months() int { return int(iv) }

// PaymentType is the cadence every recurring installment is labeled with.
func (iv Interval) PaymentType() generic.PaymentType {
	switch iv {
	case IntervalMonth:
		return generic.PaymentMonthly
	case IntervalTwoMonths:
		return generic.PaymentBimonthly
	case IntervalThreeMonths:
		return generic.PaymentQuarterly
	case IntervalFourMonths:
		return generic.PaymentFourMonthly
	}
	return generic.PaymentUnset
}

func (iv Interval) String() string {
	for name, v := range intervalNames {
		if v == iv {
			return name
		}
	}
	return ""
}

// FirstPaymentKind says how the first payment figure is interpreted.
type FirstPaymentKind int

const (
	FirstPaymentAmount FirstPaymentKind = iota
	FirstPaymentPercent
)

// ParseFirstPaymentKind accepts "amount" (the default) and "percent".
func ParseFirstPaymentKind(s string) FirstPaymentKind {
	if strings.EqualFold(strings.TrimSpace(s), "percent") {
		return FirstPaymentPercent
	}
	return FirstPaymentAmount
}
