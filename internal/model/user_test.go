package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVacationAccrual(t *testing.T) {
	cases := map[int]int{
		0:  12,
		1:  14,
		2:  16,
		3:  18,
		4:  20,
		9:  20,
		10: 22,
		14: 22,
		15: 22,
		19: 22,
		20: 24,
		24: 24,
		25: 26,
		30: 28,
	}
	for tenure, expected := range cases {
		assert.Equal(t, expected, VacationAccrual(tenure), "tenure %d", tenure)
	}
}

func TestVacationAccrualNeverDecreases(t *testing.T) {
	prev := VacationAccrual(0)
	for tenure := 1; tenure <= 50; tenure++ {
		current := VacationAccrual(tenure)
		assert.GreaterOrEqual(t, current, prev, "tenure %d", tenure)
		prev = current
	}
}

func TestTenureYears(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	hire := time.Date(2020, 8, 30, 0, 0, 0, 0, time.UTC)
	u := &User{FechaIngreso: &hire}
	assert.Equal(t, 6, u.TenureYears(now))

	recent := now.AddDate(0, -6, 0)
	u = &User{FechaIngreso: &recent}
	assert.Equal(t, 0, u.TenureYears(now))

	u = &User{}
	assert.Equal(t, 0, u.TenureYears(now))

	future := now.AddDate(1, 0, 0)
	u = &User{FechaIngreso: &future}
	assert.Equal(t, 0, u.TenureYears(now))
}

func TestAvailableVacationDays(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	hire := now.AddDate(-3, 0, -10)

	u := &User{
		FechaIngreso:             &hire,
		DiasVacacionesTomados:    5,
		DiasVacacionesAnteriores: 2,
	}

	// 3 full years: 18 by law, +2 carried over, -5 taken.
	assert.Equal(t, 18, u.VacationDaysPerYear(now))
	assert.Equal(t, 15, u.AvailableVacationDays(now))
}

func TestValidRole(t *testing.T) {
	for _, r := range AllRoles {
		assert.True(t, ValidRole(r))
	}
	assert.False(t, ValidRole("GERENTE"))
	assert.False(t, ValidRole(""))
}
