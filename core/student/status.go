package student

// StatusAny is the wildcard used in the transition table.
const StatusAny ApplicationStatus = "*"

type Transition struct {
	From ApplicationStatus
	To   ApplicationStatus
}

// Transitions is the allowed-move table for the application pipeline.
// The single wildcard entry encodes the product decision that a card may be
// dragged from any column to any other column; tightening the pipeline later
// (e.g. forbidding VisaGranted -> Lead) is a data change here, not new code.
var Transitions = []Transition{
	{From: StatusAny, To: StatusAny},
}

// partnerGated lists target statuses that require a bound partner before the
// transition may commit. Commission tracking needs a partner on file by the
// time an application is "submitted" or "successful".
var partnerGated = map[ApplicationStatus]bool{
	StatusApplied:     true,
	StatusVisaGranted: true,
}

func ValidStatus(s ApplicationStatus) bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether the pipeline allows moving from one status
// to another, per the Transitions table.
func CanTransition(from, to ApplicationStatus) bool {
	if !ValidStatus(to) {
		return false
	}
	for _, t := range Transitions {
		if (t.From == StatusAny || t.From == from) && (t.To == StatusAny || t.To == to) {
			return true
		}
	}
	return false
}

// RequiresPartner reports whether a transition into target is gated on a
// bound partner.
func RequiresPartner(target ApplicationStatus) bool {
	return partnerGated[target]
}
