// README: Trip state machine; the transition table is the single
// legality authority for every status change.
package trip

// AllowedTransitions represents the trip state flow (diagram) as code.
// completed and cancelled are terminal; no edge re-enters draft and
// self-loops are not legal.
var AllowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
