package journal

import "time"

// WeekBounds returns the Monday-to-Sunday week containing date. The returned
// start is the Monday on or before date at midnight, and end is start plus
// six days, so start <= date <= end always holds.
func WeekBounds(date time.Time) (start, end time.Time) {
	d := DateOf(date)
	dow := int(d.Weekday())
	if dow == 0 {
		dow = 7 // time.Sunday is 0; ISO counts Monday=1..Sunday=7
	}
	start = d.AddDate(0, 0, -(dow - 1))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// PreviousWeekBounds returns the seven-day window immediately before the week
// containing date: previous start = start - 7 days, previous end = start - 1.
func PreviousWeekBounds(date time.Time) (start, end time.Time) {
	cur, _ := WeekBounds(date)
	return cur.AddDate(0, 0, -7), cur.AddDate(0, 0, -1)
}
