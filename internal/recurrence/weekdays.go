package recurrence

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// DayNames are the short weekday names indexed Monday first.
var DayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Weekdays is a set of weekday indices, 0 = Monday through 6 = Sunday.
type Weekdays uint8

// Workdays is Monday through Friday, the span of a daily rule.
const Workdays Weekdays = 0b0011111

// NewWeekdays builds a set from day indices. Indices outside 0..6 are ignored.
func NewWeekdays(days ...int) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.With(d)
	}
	return w
}

// ParseWeekdays reads the comma separated form ("0,2,4"). Blank entries are
// skipped; anything that is not an index in 0..6 is an error.
func ParseWeekdays(s string) (Weekdays, error) {
	var w Weekdays
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			return 0, fmt.Errorf("invalid weekday %q", part)
		}
		w = w.With(d)
	}
	return w, nil
}

func (w Weekdays) Has(d int) bool {
	return d >= 0 && d <= 6 && w&(1<<d) != 0
}

func (w Weekdays) With(d int) Weekdays {
	if d < 0 || d > 6 {
		return w
	}
	return w | 1<<d
}

func (w Weekdays) Without(d int) Weekdays {
	if d < 0 || d > 6 {
		return w
	}
	return w &^ (1 << d)
}

func (w Weekdays) Empty() bool {
	return w&0x7f == 0
}

// Days returns the members in ascending order.
func (w Weekdays) Days() []int {
	var days []int
	for d := 0; d < 7; d++ {
		if w.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (w Weekdays) String() string {
	days := w.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (w Weekdays) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekdays) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekdays(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Scan implements sql.Scanner.
func (w *Weekdays) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*w = 0
		return nil
	case string:
		return w.UnmarshalText([]byte(v))
	case []byte:
		return w.UnmarshalText(v)
	default:
		return fmt.Errorf("scan weekdays: unsupported type %T", value)
	}
}

// Value implements driver.Valuer.
func (w Weekdays) Value() (driver.Value, error) {
	return w.String(), nil
}

// GormDataType keeps the set in the comma separated text column.
func (Weekdays) GormDataType() string {
	return "string"
}
