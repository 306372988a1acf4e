package domain

import "strings"

// YooKassaOutcome maps a YooKassa payment status to a settlement outcome.
// waiting_for_capture never settles because payments are created with capture=true.
func YooKassaOutcome(status string) SettlementOutcome {
	switch strings.ToLower(status) {
	case "succeeded":
		return OutcomeSucceeded
	case "canceled":
		return OutcomeFailed
	default:
		return OutcomePending
	}
}

// ExnodeOutcome maps an Exnode invoice status to a settlement outcome.
func ExnodeOutcome(status string) SettlementOutcome {
	switch strings.ToUpper(status) {
	case "SUCCESS":
		return OutcomeSucceeded
	case "EXPIRED", "ERROR":
		return OutcomeFailed
	default:
		// CREATED, PAYMENT, ACCEPTED, PARTIALLYPAID
		return OutcomePending
	}
}
