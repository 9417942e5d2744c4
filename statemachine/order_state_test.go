package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yourrest-api/models"
)

func TestCanTransition_AllowedEdges(t *testing.T) {
	assert.NoError(t, CanTransition("", models.StatusPending, ActorSystem))
	assert.NoError(t, CanTransition(models.StatusPending, models.StatusInProgress, ActorAdmin))
	assert.NoError(t, CanTransition(models.StatusInProgress, models.StatusDelivered, ActorAdmin))
	assert.NoError(t, CanTransition(models.StatusPending, models.StatusCancelled, ActorCustomer))
	assert.NoError(t, CanTransition(models.StatusInProgress, models.StatusCancelled, ActorCustomer))
}

func TestCanTransition_RejectsSkippingAhead(t *testing.T) {
	for _, actor := range []Actor{ActorSystem, ActorAdmin, ActorCustomer} {
		err := CanTransition(models.StatusPending, models.StatusDelivered, actor)
		assert.ErrorIs(t, err, ErrInvalidTransition, "actor %s", actor)
	}
}

func TestCanTransition_WrongActor(t *testing.T) {
	assert.ErrorIs(t, CanTransition(models.StatusPending, models.StatusInProgress, ActorCustomer), ErrInvalidTransition)
	assert.ErrorIs(t, CanTransition(models.StatusPending, models.StatusCancelled, ActorAdmin), ErrInvalidTransition)
}

func TestCanTransition_TerminalStates(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		for _, to := range models.AllStatuses {
			for _, actor := range []Actor{ActorSystem, ActorAdmin, ActorCustomer} {
				assert.Error(t, CanTransition(from, to, actor))
			}
		}
		assert.True(t, IsTerminal(from))
	}
	err := CanTransition(models.StatusDelivered, models.StatusCancelled, ActorCustomer)
	assert.Contains(t, err.Error(), "terminal state")
}

func TestNextForward(t *testing.T) {
	next, ok := NextForward(models.StatusPending)
	assert.True(t, ok)
	assert.Equal(t, models.StatusInProgress, next)

	next, ok = NextForward(models.StatusInProgress)
	assert.True(t, ok)
	assert.Equal(t, models.StatusDelivered, next)

	_, ok = NextForward(models.StatusDelivered)
	assert.False(t, ok)
	_, ok = NextForward(models.StatusCancelled)
	assert.False(t, ok)
}

func TestCustomerCanCancel(t *testing.T) {
	assert.True(t, CustomerCanCancel(models.StatusPending))
	assert.True(t, CustomerCanCancel(models.StatusInProgress))
	assert.False(t, CustomerCanCancel(models.StatusDelivered))
	assert.False(t, CustomerCanCancel(models.StatusCancelled))
}

func TestCustomerActions(t *testing.T) {
	assert.Equal(t, []models.OrderStatus{models.StatusCancelled}, CustomerActions(models.StatusPending))
	assert.Equal(t, []models.OrderStatus{models.StatusCancelled}, CustomerActions(models.StatusInProgress))
	assert.Equal(t, []models.OrderStatus{}, CustomerActions(models.StatusDelivered))
	assert.Equal(t, []models.OrderStatus{}, CustomerActions(models.StatusCancelled))
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.Equal(t, []models.OrderStatus{models.StatusInProgress, models.StatusCancelled}, ValidTransitionsFrom(models.StatusPending))
	assert.Empty(t, ValidTransitionsFrom(models.StatusDelivered))
}

func TestGetAllTransitions_ReturnsCopy(t *testing.T) {
	all := GetAllTransitions()
	assert.Len(t, all, 5)
	all[0].To = models.StatusDelivered
	assert.Equal(t, models.StatusPending, GetAllTransitions()[0].To)
}
