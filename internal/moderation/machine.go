// Package moderation implements the review lifecycle: visitors submit
// reviews into the pending queue and operators approve, reject or delete
// them. Only approved reviews are publicly visible.
package moderation

import (
	"fmt"

	"perfumery/internal/models"
)

type Event string

const (
	EventSubmit  Event = "submit"
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventDelete  Event = "delete"
)

// RequiresOperator reports whether only an authenticated operator may
// trigger e.
func (e Event) RequiresOperator() bool {
	return e != EventSubmit
}

// transitions maps (from, event) to the resulting state. The empty state is
// "no record yet" for submit and "removed" for delete.
var transitions = map[models.ReviewStatus]map[Event]models.ReviewStatus{
	"": {
		EventSubmit: models.ReviewPending,
	},
	models.ReviewPending: {
		EventApprove: models.ReviewApproved,
		EventReject:  models.ReviewRejected,
		EventDelete:  "",
	},
	models.ReviewApproved: {
		EventApprove: models.ReviewApproved,
		EventReject:  models.ReviewRejected,
		EventDelete:  "",
	},
	models.ReviewRejected: {
		EventApprove: models.ReviewApproved,
		EventReject:  models.ReviewRejected,
		EventDelete:  "",
	},
}

// Transition returns the state reached by applying e in state from.
// Re-applying approve or reject to a review already in that state is
// allowed and leaves it unchanged.
func Transition(from models.ReviewStatus, e Event) (models.ReviewStatus, error) {
	events, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("unknown review status %q", from)
	}
	to, ok := events[e]
	if !ok {
		return "", fmt.Errorf("cannot %s a review in state %q", e, from)
	}
	return to, nil
}

// operatorTransition is Transition restricted to operator events.
func operatorTransition(from models.ReviewStatus, e Event) (models.ReviewStatus, error) {
	if !e.RequiresOperator() {
		return "", fmt.Errorf("%s is not an operator action", e)
	}
	return Transition(from, e)
}
