package domain

import "strings"

// ClassifyCashMovement categorizes a class-5 movement by inspecting the
// counter-account codes of its entry: a class-2 counter-account means
// INVESTING, a class-1 (excluding "13") or "16" counter-account means
// FINANCING, anything else OPERATING.
func ClassifyCashMovement(counterCodes []string) CashFlowCategory {
	for _, code := range counterCodes {
		if strings.HasPrefix(code, "2") {
			return CashFlowInvesting
		}
	}
	for _, code := range counterCodes {
		if strings.HasPrefix(code, "16") {
			return CashFlowFinancing
		}
		if strings.HasPrefix(code, "1") && !strings.HasPrefix(code, "13") {
			return CashFlowFinancing
		}
	}
	return CashFlowOperating
}

// EquityComponentOf maps a class-1 account code to its equity-statement
// component.
func EquityComponentOf(code string) EquityComponent {
	switch {
	case strings.HasPrefix(code, "10"):
		return EquityCapital
	case strings.HasPrefix(code, "11"):
		return EquityReserves
	case strings.HasPrefix(code, "12"):
		return EquityRetainedEarnings
	case strings.HasPrefix(code, "13"):
		return EquityNetResult
	default:
		return EquityOther
	}
}
