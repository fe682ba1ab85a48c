package services

import "time"

const dateKeyLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC. All engine math works on
// whole days; wall-clock components from client payloads are discarded here.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey is the canonical map key for a calendar day.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// NightsBetween counts charged nights in [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
}
