package domain

// WorkingHours holds a coach's global availability configuration. Times are
// stored exactly as entered in the dashboard ("9:00 AM"); parsing happens in
// the schedule package when slots are generated.
type WorkingHours struct {
	StartTime           string   `bson:"startTime" json:"startTime"`
	EndTime             string   `bson:"endTime" json:"endTime"`
	WorkingDays         []string `bson:"workingDays" json:"workingDays"` // Weekday names, e.g. "Monday"
	SlotIntervalMinutes int      `bson:"slotIntervalMinutes" json:"slotIntervalMinutes"`
}

// CustomDayOverride replaces the global start/end times for one weekday.
// A present-but-disabled override marks that weekday as a non-working day,
// regardless of the global WorkingDays set.
type CustomDayOverride struct {
	Enabled   bool   `bson:"enabled" json:"enabled"`
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
}
