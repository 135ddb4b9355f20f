package clock

import "time"

const DateLayout = "2006-01-02"

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

func System() Clock {
	return time.Now
}

func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

func (c Clock) Today() time.Time {
	return DateOf(c())
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
