package installments

import "github.com/warp/billboard-engine/generic"

// installationLeadDays is how long after the start an "on installation"
// payment falls due.
const installationLeadDays = 7

// DueDate applies the due-date rule for a payment type. index is the
// zero-based position within the recurring series; start is the contract
// start unless startOverride is set.
//
//	on signing        start
//	monthly           start + (index+1) months
//	bimonthly         start + (index+1)*2 months
//	quarterly         start + (index+1)*3 months
//	on installation   start + 7 days
//	on contract end   contract end date
//	anything else     start
func DueDate(period generic.Period, pt generic.PaymentType, index int, startOverride *generic.Date) generic.Date {
	start := period.Start
	if startOverride != nil && !startOverride.IsZero() {
		start = *startOverride
	}

	switch pt {
	case generic.PaymentOnSigning:
		return start
	case generic.PaymentMonthly:
		return start.AddMonths(index + 1)
	case generic.PaymentBimonthly:
		return start.AddMonths((index + 1) * 2)
	case generic.PaymentQuarterly:
		return start.AddMonths((index + 1) * 3)
	case generic.PaymentOnInstallation:
		return start.AddDays(installationLeadDays)
	case generic.PaymentOnContractEnd:
		return period.End
	default:
		return start
	}
}
