package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that days cover [start-01-01, end-12-31] exactly once, in
// order, and that every day carries a valid season, a name and a rank.
func Validate(days []Day, start, end int) error {
	var errs []error

	want := date(start, time.January, 1)
	last := date(end, time.December, 31)

	for _, d := range days {
		switch {
		case d.Date.Before(want):
			errs = append(errs, fmt.Errorf("%s: duplicate or out of order", FormatDate(d.Date)))
			continue
		case d.Date.After(want):
			errs = append(errs, fmt.Errorf("missing %s through %s", FormatDate(want), FormatDate(d.Date.AddDate(0, 0, -1))))
		}
		if !d.Season.IsValid() {
			errs = append(errs, fmt.Errorf("%s: invalid season %q", FormatDate(d.Date), d.Season))
		}
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s: missing name", FormatDate(d.Date)))
		}
		if d.Rank == "" {
			errs = append(errs, fmt.Errorf("%s: missing rank", FormatDate(d.Date)))
		}
		want = d.Date.AddDate(0, 0, 1)
	}

	if !want.After(last) {
		errs = append(errs, fmt.Errorf("missing %s through %s", FormatDate(want), FormatDate(last)))
	}

	return errors.Join(errs...)
}
