package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryStatusTransitions(t *testing.T) {
	cases := []struct {
		from EntryStatus
		to   EntryStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestAbsenceTypeDeductible(t *testing.T) {
	assert.True(t, AbsenceIllness.Deductible())
	assert.True(t, AbsenceUnpaidLeave.Deductible())
	assert.True(t, AbsenceOther.Deductible())
	assert.False(t, AbsencePaidLeave.Deductible())
}

func TestAbsenceCovers(t *testing.T) {
	absence := AbsenceRecord{
		Date:         time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		DurationDays: 3, // Feb 3, 4, 5
	}

	assert.False(t, absence.Covers(time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, absence.Covers(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, absence.Covers(time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)))
	assert.True(t, absence.Covers(time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, absence.Covers(time.Date(2025, 2, 6, 0, 0, 0, 0, time.UTC)))
}

func TestCreateTimeEntryRequestValidate(t *testing.T) {
	end := "17:00"
	valid := CreateTimeEntryRequest{
		ContractID: "con-1",
		Date:       "2025-02-03",
		StartTime:  "9:00",
		EndTime:    &end,
	}
	assert.NoError(t, valid.Validate())

	bad := CreateTimeEntryRequest{Date: "03/02/2025", StartTime: "25:00"}
	err := bad.Validate()
	assert.Error(t, err)
}

func TestCreateAbsenceRequestValidate(t *testing.T) {
	valid := CreateAbsenceRequest{
		ContractID:   "con-1",
		Type:         string(AbsenceIllness),
		Date:         "2025-02-03",
		DurationDays: 1,
	}
	assert.NoError(t, valid.Validate())

	bad := CreateAbsenceRequest{
		ContractID:   "con-1",
		Type:         "vacation",
		Date:         "2025-02-03",
		DurationDays: 0,
	}
	assert.Error(t, bad.Validate())
}
