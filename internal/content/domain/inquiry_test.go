package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to InquiryStatus
		ok       bool
	}{
		{StatusNew, StatusContacted, true},
		{StatusNew, StatusClosed, true},
		{StatusNew, StatusConverted, false},
		{StatusContacted, StatusConverted, true},
		{StatusContacted, StatusClosed, true},
		{StatusContacted, StatusNew, false},
		{StatusConverted, StatusContacted, false},
		{StatusConverted, StatusClosed, false},
		{StatusClosed, StatusNew, false},
		{StatusContacted, StatusContacted, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestInquiryTransition_RespondOnce(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	q := &Inquiry{Status: StatusNew}

	require.NoError(t, q.Transition(StatusContacted, t0))
	require.NotNil(t, q.RespondedAt)
	assert.Equal(t, t0, *q.RespondedAt)

	// staying on contacted keeps the first stamp
	require.NoError(t, q.Transition(StatusContacted, t0.Add(time.Hour)))
	assert.Equal(t, t0, *q.RespondedAt)

	require.NoError(t, q.Transition(StatusConverted, t0.Add(2*time.Hour)))
	assert.Equal(t, t0, *q.RespondedAt)

	// re-entering contacted from converted is not part of the lifecycle
	err := q.Transition(StatusContacted, t0.Add(3*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConverted, q.Status)
	assert.Equal(t, t0, *q.RespondedAt)
}

func TestInquiryTransition_ClosedFromNewLeavesRespondedAtUnset(t *testing.T) {
	q := &Inquiry{Status: StatusNew}
	require.NoError(t, q.Transition(StatusClosed, time.Now()))
	assert.Nil(t, q.RespondedAt)
	assert.True(t, q.Status.Terminal())
}

func TestInquiryTransition_UnknownStatus(t *testing.T) {
	q := &Inquiry{Status: StatusNew}
	assert.ErrorIs(t, q.Transition("archived", time.Now()), ErrInvalidStatus)
}

func TestParseInquiryStatus(t *testing.T) {
	st, err := ParseInquiryStatus(" Contacted ")
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, st)

	_, err = ParseInquiryStatus("pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInquiryStatsAdd(t *testing.T) {
	var s InquiryStats
	s.Add(StatusNew, 3)
	s.Add(StatusClosed, 2)
	s.Add("bogus", 1)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.New)
	assert.Equal(t, 2, s.Closed)
}
