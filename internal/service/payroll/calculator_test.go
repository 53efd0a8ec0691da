package payroll

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	timesheetService "github.com/talenthr/payroll-backend-go/internal/service/timesheet"
)

func testCalculator(holidays ...time.Time) *Calculator {
	normalizer := timesheetService.NewNormalizer(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewCalculator(normalizer, holidays)
}

func strPtr(s string) *string { return &s }

func approvedEntry(date time.Time, start, end string, breakHours float64) timesheet.TimeEntry {
	return timesheet.TimeEntry{
		Date:       date,
		StartTime:  start,
		EndTime:    strPtr(end),
		BreakHours: breakHours,
		Status:     timesheet.StatusApproved,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestParseBaseSalary(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "3035", want: "3035"},
		{input: "3035.50", want: "3035.50"},
		{input: "3 035,50", want: "3035.50"},
		{input: "3 035,50 EUR", want: "3035.50"},
		{input: "1.234.567,89", want: "1234567.89"},
		{input: "1,234.56", want: "1234.56"},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-100", wantErr: true},
	}
	for _, c := range cases {
		got, err := ParseBaseSalary(c.input)
		if c.wantErr {
			assert.ErrorIs(t, err, payroll.ErrInvalidSalary, "input %q", c.input)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assertDecimal(t, c.want, got)
	}
}

func TestCalculateWorkedMonth(t *testing.T) {
	calc := testCalculator()

	// 3033.40 / 151.67 gives a 20.00 hourly rate
	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "3 033,40 EUR",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	entries := []timesheet.TimeEntry{
		// 9h: one hour of overtime
		approvedEntry(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), "08:00", "18:00", 1),
		// 6h: one missing hour against the 7h floor
		approvedEntry(time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC), "09:00", "16:00", 1),
		// 8h: a plain standard day
		approvedEntry(time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), "08:00", "17:00", 1),
		// exactly 7h: sits on the floor, no penalty
		approvedEntry(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC), "08:00", "16:00", 1),
	}
	// Paid leave covering the whole month keeps the remaining working days
	// from counting as unjustified.
	absences := []timesheet.AbsenceRecord{{
		Type:         timesheet.AbsencePaidLeave,
		Date:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationDays: 31,
		Status:       timesheet.StatusApproved,
	}}

	result, err := calc.Calculate(CalculationInput{
		Contract: c,
		Entries:  entries,
		Absences: absences,
		Month:    1,
		Year:     2025,
	})
	require.NoError(t, err)

	assertDecimal(t, "20", result.HourlyRate)
	assert.InDelta(t, 29, result.NormalHours, 1e-9)
	assert.InDelta(t, 1, result.OvertimeHours, 1e-9)
	assert.InDelta(t, 30, result.TotalHours, 1e-9)
	assert.Equal(t, 31, result.PaidLeaveDays)
	assert.Equal(t, 0, result.UnjustifiedDays)

	// gross = 29*20 + 1*20*1.25 - 1*20 = 585
	assertDecimal(t, "25", result.OvertimePay)
	assertDecimal(t, "585", result.GrossPay)
	assertDecimal(t, "134.55", result.SocialContributions)
	assertDecimal(t, "450.45", result.NetPay)

	require.Len(t, result.Deductions, 1)
	assertDecimal(t, "20", result.Deductions[0].Amount)
}

func TestCalculateUnjustifiedDays(t *testing.T) {
	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "2200",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	in := CalculationInput{Contract: c, Month: 2, Year: 2025}

	t.Run("empty month deducts every working day", func(t *testing.T) {
		result, err := testCalculator().Calculate(in)
		require.NoError(t, err)

		// February 2025 has 20 working days; the deduction exceeds the
		// earned pay and gross clamps at zero.
		assert.Equal(t, 20, result.UnjustifiedDays)
		assert.Len(t, result.Deductions, 20)
		assertDecimal(t, "0", result.GrossPay)
		assertDecimal(t, "0", result.NetPay)
	})

	t.Run("public holidays are not unjustified", func(t *testing.T) {
		holiday := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
		result, err := testCalculator(holiday).Calculate(in)
		require.NoError(t, err)

		assert.Equal(t, 19, result.UnjustifiedDays)
	})

	t.Run("one more uncovered day deducts exactly one day rate", func(t *testing.T) {
		bonuses := []payroll.BonusLine{{Label: "signing", Amount: decimal.NewFromInt(5000)}}
		leave := func(days int) []timesheet.AbsenceRecord {
			return []timesheet.AbsenceRecord{{
				Type:         timesheet.AbsencePaidLeave,
				Date:         time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
				DurationDays: days,
				Status:       timesheet.StatusApproved,
			}}
		}

		covered, err := testCalculator().Calculate(CalculationInput{
			Contract: c, Absences: leave(28), Bonuses: bonuses, Month: 2, Year: 2025,
		})
		require.NoError(t, err)
		// Leave through Feb 27 leaves Friday the 28th uncovered.
		short, err := testCalculator().Calculate(CalculationInput{
			Contract: c, Absences: leave(27), Bonuses: bonuses, Month: 2, Year: 2025,
		})
		require.NoError(t, err)

		assert.Equal(t, 0, covered.UnjustifiedDays)
		assert.Equal(t, 1, short.UnjustifiedDays)
		require.Len(t, short.Deductions, 1)
		assertDecimal(t, "100", short.Deductions[0].Amount)
		assertDecimal(t, "100", covered.GrossPay.Sub(short.GrossPay))
	})

	t.Run("days before the contract start are not unjustified", func(t *testing.T) {
		midMonth := c
		midMonth.StartDate = time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC)
		result, err := testCalculator().Calculate(CalculationInput{Contract: midMonth, Month: 2, Year: 2025})
		require.NoError(t, err)

		assert.Equal(t, 10, result.UnjustifiedDays)
	})
}

func TestCalculateAbsencesAndBonuses(t *testing.T) {
	calc := testCalculator()

	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "2200", // 100 per working day
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	absences := []timesheet.AbsenceRecord{
		{
			Type:         timesheet.AbsenceIllness,
			Date:         time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			DurationDays: 2,
			Status:       timesheet.StatusApproved,
		},
		{
			Type:         timesheet.AbsencePaidLeave,
			Date:         time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			DurationDays: 28,
			Status:       timesheet.StatusApproved,
		},
	}
	bonuses := []payroll.BonusLine{{Label: "performance", Amount: decimal.NewFromInt(1000)}}

	result, err := calc.Calculate(CalculationInput{
		Contract: c,
		Absences: absences,
		Bonuses:  bonuses,
		Month:    2,
		Year:     2025,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.UnjustifiedDays)
	assert.Equal(t, 28, result.PaidLeaveDays)

	// gross = 1000 bonus - 2 illness days at 100 = 800
	require.Len(t, result.Deductions, 1)
	assertDecimal(t, "200", result.Deductions[0].Amount)
	assertDecimal(t, "800", result.GrossPay)
	assertDecimal(t, "184", result.SocialContributions)
	assertDecimal(t, "616", result.NetPay)

	require.Len(t, result.Absences, 2)
	assertDecimal(t, "200", result.Absences[0].Deduction)
	assertDecimal(t, "0", result.Absences[1].Deduction)
}

func TestCalculateCrossMonthAbsence(t *testing.T) {
	calc := testCalculator()

	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "2200", // 100 per working day
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	// Jan 20 plus 20 days runs through Feb 8: 12 calendar days belong to
	// January and 8 to February.
	absences := []timesheet.AbsenceRecord{{
		Type:         timesheet.AbsenceIllness,
		Date:         time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		DurationDays: 20,
		Status:       timesheet.StatusApproved,
	}}

	jan, err := calc.Calculate(CalculationInput{Contract: c, Absences: absences, Month: 1, Year: 2025})
	require.NoError(t, err)
	feb, err := calc.Calculate(CalculationInput{Contract: c, Absences: absences, Month: 2, Year: 2025})
	require.NoError(t, err)

	require.Len(t, jan.Absences, 1)
	require.Len(t, feb.Absences, 1)
	assertDecimal(t, "1200", jan.Absences[0].Deduction)
	assertDecimal(t, "800", feb.Absences[0].Deduction)
	// The two closings together charge the 20-day span exactly once.
	assertDecimal(t, "2000", jan.Absences[0].Deduction.Add(feb.Absences[0].Deduction))

	// The February tail still covers Feb 3-7 against unjustified days.
	assert.Equal(t, 15, feb.UnjustifiedDays)
}

func TestCalculateRejectsOutOfContractRecords(t *testing.T) {
	calc := testCalculator()

	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "2200",
		StartDate:  time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	entries := []timesheet.TimeEntry{
		approvedEntry(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "09:00", "17:00", 1),
	}

	_, err := calc.Calculate(CalculationInput{Contract: c, Entries: entries, Month: 2, Year: 2025})
	assert.ErrorIs(t, err, timesheet.ErrDateOutOfContract)
}

func TestCalculateRejectsUnusableSalary(t *testing.T) {
	calc := testCalculator()

	c := contract.Contract{
		EmployeeID: "emp-1",
		BaseSalary: "n/a",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := calc.Calculate(CalculationInput{Contract: c, Month: 1, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrInvalidSalary)
}
