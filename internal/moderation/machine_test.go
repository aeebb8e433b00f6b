package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfumery/internal/models"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from models.ReviewStatus
		e    Event
		to   models.ReviewStatus
	}{
		{"", EventSubmit, models.ReviewPending},
		{models.ReviewPending, EventApprove, models.ReviewApproved},
		{models.ReviewPending, EventReject, models.ReviewRejected},
		{models.ReviewApproved, EventReject, models.ReviewRejected},
		{models.ReviewRejected, EventApprove, models.ReviewApproved},
		{models.ReviewApproved, EventApprove, models.ReviewApproved},
		{models.ReviewRejected, EventReject, models.ReviewRejected},
		{models.ReviewPending, EventDelete, ""},
		{models.ReviewApproved, EventDelete, ""},
		{models.ReviewRejected, EventDelete, ""},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.e)
		require.NoError(t, err, "%q --%s-->", tc.from, tc.e)
		assert.Equal(t, tc.to, got, "%q --%s-->", tc.from, tc.e)
	}
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	_, err := Transition(models.ReviewPending, EventSubmit)
	assert.Error(t, err)

	_, err = Transition("", EventApprove)
	assert.Error(t, err)

	_, err = Transition(models.ReviewStatus("archived"), EventApprove)
	assert.Error(t, err)
}

func TestOnlySubmitIsOpenToVisitors(t *testing.T) {
	assert.False(t, EventSubmit.RequiresOperator())
	for _, e := range []Event{EventApprove, EventReject, EventDelete} {
		assert.True(t, e.RequiresOperator(), string(e))
	}
}

func TestOperatorTransitionRefusesVisitorEvents(t *testing.T) {
	_, err := operatorTransition("", EventSubmit)
	assert.Error(t, err)

	to, err := operatorTransition(models.ReviewPending, EventApprove)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, to)

	to, err = operatorTransition(models.ReviewApproved, EventDelete)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatus(""), to)
}

func TestServiceRejectsSubmitAsModeration(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.apply(context.Background(), primitive.NewObjectID(), EventSubmit)
	assert.Error(t, err)
}
