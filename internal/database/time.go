package database

import "time"

// timeLayout is the canonical SQLite datetime form. Values are stored in UTC
// so that lexicographic comparison in SQL matches chronological order. Reads
// scan straight into time.Time; the driver parses DATETIME columns as UTC.
const timeLayout = "2006-01-02 15:04:05"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
