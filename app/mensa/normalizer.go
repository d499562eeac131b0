package mensa

import (
	"sort"
	"strings"
	"time"
)

// Substitutions for UTF-8 text that was mis-decoded as Latin-1 somewhere
// upstream. The feed delivers these byte sequences verbatim, so they are
// repaired before display rather than left to the consumer.
var characterFixups = strings.NewReplacer(
	"Ã¤", "ä",
	"Ã¼", "ü",
	"Ã¶", "ö",
	"ÃŸ", "ß",
	"Ã„", "Ä",
	"Ãœ", "Ü",
	"Ã–", "Ö",
)

var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

// Normalizer annotates raw feed days with today/tomorrow relevance, repairs
// character artifacts, and reduces the week window to the two relevant days.
// The clock is injectable so day classification is deterministic in tests.
type Normalizer struct {
	now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerAt pins the normalizer's clock; used by tests.
func NewNormalizerAt(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Run produces the normalized menu from the parser's raw output. Running it
// twice over the same raw input yields identical results.
func (n *Normalizer) Run(mensaName string, rawDays []Day) Menu {
	today := n.now().In(time.Local)
	tomorrow := today.AddDate(0, 0, 1)
	todayKey := today.Format("2006-01-02")
	tomorrowKey := tomorrow.Format("2006-01-02")

	var kept []Day
	for _, day := range rawDays {
		annotated := day
		annotated.Items = fixupItems(day.Items)

		if date, ok := parseFeedDate(day.Date); ok {
			key := date.Format("2006-01-02")
			annotated.DateISO = key
			annotated.Weekday = germanWeekdays[date.Weekday()]
			annotated.IsToday = key == todayKey
			annotated.IsTomorrow = key == tomorrowKey
		}
		// Unparseable dates keep the raw string and are never relevant

		if annotated.IsToday || annotated.IsTomorrow {
			kept = append(kept, annotated)
		}
	}

	// Today first, then tomorrow; ties preserve source order
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].IsToday && !kept[j].IsToday
	})

	if kept == nil {
		kept = []Day{}
	}

	return Menu{
		MensaName: characterFixups.Replace(mensaName),
		Days:      kept,
	}
}

func fixupItems(items []Item) []Item {
	fixed := make([]Item, len(items))
	for i, item := range items {
		item.Name = characterFixups.Replace(item.Name)
		fixed[i] = item
	}
	return fixed
}

// parseFeedDate parses the feed's day.month.year dates. Two- and four-digit
// years both occur in the wild.
func parseFeedDate(s string) (time.Time, bool) {
	for _, layout := range []string{"02.01.2006", "02.01.06"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
