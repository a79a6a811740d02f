package service

import (
	"sort"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

type CalendarDay struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	InMonth bool   `json:"in_month"`
	Today   bool   `json:"today"`
	Count   int    `json:"count"`
}

type CalendarMonth struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	TimeZone string          `json:"timezone"`
	Weeks    [][]CalendarDay `json:"weeks"`
}

// CalendarMonthView lays out the month as Sunday-first weeks, padded with the
// neighbouring months' days, each cell carrying its post count in loc.
func CalendarMonthView(posts []*models.ScheduledPost, year int, month time.Month, loc *time.Location, now time.Time) *CalendarMonth {
	if loc == nil {
		loc = time.UTC
	}
	counts := GroupByDateKey(posts, loc)
	today := DateKey(now, loc)

	// Civil dates are walked in UTC so DST never shifts a cell.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	view := &CalendarMonth{Year: year, Month: month, TimeZone: loc.String()}
	for day := start; !day.After(last) || day.Weekday() != time.Sunday; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Sunday {
			view.Weeks = append(view.Weeks, make([]CalendarDay, 0, 7))
		}
		key := day.Format(DateKeyLayout)
		w := len(view.Weeks) - 1
		view.Weeks[w] = append(view.Weeks[w], CalendarDay{
			Date:    key,
			Day:     day.Day(),
			InMonth: day.Month() == month,
			Today:   key == today,
			Count:   counts[key],
		})
	}
	return view
}

// DayView returns the posts on date in loc, ordered by instant then id.
func DayView(posts []*models.ScheduledPost, date time.Time, loc *time.Location) []*models.ScheduledPost {
	day := FilterByDate(posts, date, loc)
	SortByInstant(day)
	return day
}

func SortByInstant(posts []*models.ScheduledPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].ScheduledTime.Equal(posts[j].ScheduledTime) {
			return posts[i].ScheduledTime.Before(posts[j].ScheduledTime)
		}
		return posts[i].ID < posts[j].ID
	})
}

type ListSummary struct {
	Scheduled int                     `json:"scheduled"`
	Completed int                     `json:"completed"`
	Failed    int                     `json:"failed"`
	Posts     []*models.ScheduledPost `json:"posts"`
}

// SummarizeList counts posts per derived status for the list view.
func SummarizeList(posts []*models.ScheduledPost) *ListSummary {
	sorted := make([]*models.ScheduledPost, len(posts))
	copy(sorted, posts)
	SortByInstant(sorted)

	return &ListSummary{
		Scheduled: len(FilterByStatus(posts, models.PostStatusScheduled)),
		Completed: len(FilterByStatus(posts, models.PostStatusPublished)),
		Failed:    len(FilterByStatus(posts, models.PostStatusFailed)),
		Posts:     sorted,
	}
}
