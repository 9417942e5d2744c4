package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"yourrest-api/models"
)

// ErrInvalidTransition is returned for any edge not in the transition table
var ErrInvalidTransition = errors.New("invalid transition")

// Actor identifies who may trigger a transition
type Actor string

const (
	ActorSystem   Actor = "system"
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
)

// Transition defines a valid state change and who can perform it.
// An empty From is the pseudo-state before the order exists.
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Order creation
	{From: "", To: models.StatusPending, Actor: ActorSystem},
	// Admin moves the order forward
	{From: models.StatusPending, To: models.StatusInProgress, Actor: ActorAdmin},
	{From: models.StatusInProgress, To: models.StatusDelivered, Actor: ActorAdmin},
	// Customer can cancel until delivery
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusInProgress, To: models.StatusCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

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

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for actor '%s'; valid transitions from %s are: %s",
		ErrInvalidTransition, label(from), label(to), actor, label(from), describeValidFrom(from))
}

// NextForward returns the single forward step an admin may take, if any.
func NextForward(status models.OrderStatus) (models.OrderStatus, bool) {
	for _, t := range validTransitions {
		if t.From == status && t.Actor == ActorAdmin {
			return t.To, true
		}
	}
	return "", false
}

// CustomerCanCancel reports whether the Cancel action is offered for the status.
func CustomerCanCancel(status models.OrderStatus) bool {
	return transitionMap[transitionKey{From: status, To: models.StatusCancelled, Actor: ActorCustomer}]
}

// CustomerActions lists the statuses a customer may move an order to from status.
func CustomerActions(status models.OrderStatus) []models.OrderStatus {
	out := []models.OrderStatus{}
	for _, t := range validTransitions {
		if t.From == status && t.Actor == ActorCustomer {
			out = append(out, t.To)
		}
	}
	return out
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func label(s models.OrderStatus) string {
	if s == "" {
		return "(none)"
	}
	return string(s)
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
