// Package autosave evaluates the automatic savings schedule of goals.
//
// This file implements the Strategy Pattern for auto-save dueness checking.
// Each frequency type (weekly, biweekly, monthly, quarterly) has its own
// strategy that encapsulates the logic for determining if a saving is due.
package autosave

import (
	"fmt"
	"time"

	"finanzas/internal/core"
)

// DuenessChecker is the strategy interface for checking if a goal's
// auto-save is due. Each implementation encapsulates the algorithm for a
// specific frequency type.
type DuenessChecker interface {
	// IsDue returns true if the auto-save should run given the last saving
	// time and the current time. A zero lastSave means the schedule has
	// never run and is always due.
	IsDue(lastSave, now time.Time, dayOfMonth int) bool
}

// WeeklyChecker implements DuenessChecker for weekly auto-saves.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last save.
func (WeeklyChecker) IsDue(lastSave, now time.Time, _ int) bool {
	if lastSave.IsZero() {
		return true
	}
	return daysSince(lastSave, now) >= 7
}

// BiweeklyChecker implements DuenessChecker for biweekly auto-saves.
type BiweeklyChecker struct{}

// IsDue returns true if 14 or more days have passed since the last save.
func (BiweeklyChecker) IsDue(lastSave, now time.Time, _ int) bool {
	if lastSave.IsZero() {
		return true
	}
	return daysSince(lastSave, now) >= 14
}

// MonthlyChecker implements DuenessChecker for monthly auto-saves.
//
// The schedule fires only on the configured day of the month, and only when
// at least 28 days have passed since the last save. A day number that does
// not come around within 28 days of the previous save in a given month will
// skip that month; this matches the behavior users already rely on.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastSave, now time.Time, dayOfMonth int) bool {
	if lastSave.IsZero() {
		return true
	}
	return now.Day() == dayOfMonth && daysSince(lastSave, now) >= 28
}

// QuarterlyChecker implements DuenessChecker for quarterly auto-saves.
type QuarterlyChecker struct{}

// IsDue returns true if 90 or more days have passed since the last save.
func (QuarterlyChecker) IsDue(lastSave, now time.Time, _ int) bool {
	if lastSave.IsZero() {
		return true
	}
	return daysSince(lastSave, now) >= 90
}

func daysSince(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// duenessStrategies maps auto-save frequencies to their checkers.
var duenessStrategies = map[core.AutoSaveFrequency]DuenessChecker{
	core.AutoSaveWeekly:    WeeklyChecker{},
	core.AutoSaveBiweekly:  BiweeklyChecker{},
	core.AutoSaveMonthly:   MonthlyChecker{},
	core.AutoSaveQuarterly: QuarterlyChecker{},
}

// GetDuenessChecker returns the dueness checker for an auto-save frequency.
// Returns an error for AutoSaveNone and unknown frequencies.
func GetDuenessChecker(frequency core.AutoSaveFrequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown auto-save frequency: %s", frequency)
	}
	return checker, nil
}
