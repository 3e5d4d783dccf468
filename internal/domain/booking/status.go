package booking

// allowedTransitions maps a target status to the statuses it may be reached
// from. completed and cancelled are terminal.
var allowedTransitions = map[Status][]Status{
	StatusConfirmed: {StatusPending},
	StatusCompleted: {StatusConfirmed},
	StatusCancelled: {StatusPending, StatusConfirmed},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// transitionSources returns the statuses from which `to` is reachable.
// Used to build compare-and-set updates that validate the stored status
// atomically with the write.
func transitionSources(to Status) []string {
	sources := allowedTransitions[to]
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		out = append(out, string(s))
	}
	return out
}
