package statemachine

import (
	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
)

// Actor kinds that may drive transitions. The access layer resolves which
// kinds a caller holds (vendor owner of the order, its driver, admin) before
// asking for a transition.
const (
	ActorVendor = "vendor"
	ActorDriver = "driver"
	ActorAdmin  = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition. Anything
// not enumerated here is rejected, never clamped.
var validTransitions = []Transition{
	// Vendor moves the order through the kitchen
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorVendor},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: ActorVendor},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorVendor},
	// Driver takes over once the order is ready
	{From: models.StatusReady, To: models.StatusPickedUp, Actor: ActorDriver},
	{From: models.StatusPickedUp, To: models.StatusDelivered, Actor: ActorDriver},
	// Vendor or admin can cancel any non-terminal order before pickup
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorVendor},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorVendor},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorVendor},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorVendor},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether any of the caller's actor kinds may move the
// order from one state to another. Terminal states fail up front, including a
// re-request of the same terminal status.
func CanTransition(from, to models.OrderStatus, actors ...string) error {
	if IsTerminal(from) {
		return apperr.InvalidStatef("order is already %s", from)
	}
	for _, actor := range actors {
		if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
			return nil
		}
	}
	return apperr.InvalidStatef(
		"transition %s → %s is not allowed; valid next states from %s: %s",
		from, to, from, describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
