package mensa

import (
	"reflect"
	"testing"
	"time"
)

// fixedNow pins the clock to Tuesday, 3 June 2025.
func fixedNow() time.Time {
	return time.Date(2025, 6, 3, 11, 30, 0, 0, time.Local)
}

func threeDayFeed() []Day {
	return []Day{
		{Date: "02.06.2025", Items: []Item{{Name: "Gestern"}}},
		{Date: "03.06.2025", Items: []Item{{Name: "Suppe"}, {Name: "Salat"}}},
		{Date: "04.06.2025", Items: []Item{{Name: "Morgen"}}},
	}
}

func TestNormalizeKeepsTodayAndTomorrow(t *testing.T) {
	menu := NewNormalizerAt(fixedNow).Run("Testmensa", threeDayFeed())

	if len(menu.Days) != 2 {
		t.Fatalf("Expected 2 days, got: %d", len(menu.Days))
	}
	if !menu.Days[0].IsToday {
		t.Error("Expected first day to be today")
	}
	if !menu.Days[1].IsTomorrow {
		t.Error("Expected second day to be tomorrow")
	}
	if len(menu.Days[0].Items) != 2 {
		t.Errorf("Expected 2 items on today, got: %d", len(menu.Days[0].Items))
	}
	if menu.Days[0].DateISO != "2025-06-03" {
		t.Errorf("Expected ISO date '2025-06-03', got: %s", menu.Days[0].DateISO)
	}
	if menu.Days[0].Weekday != "Dienstag" {
		t.Errorf("Expected weekday 'Dienstag', got: %s", menu.Days[0].Weekday)
	}
	if menu.Days[1].Weekday != "Mittwoch" {
		t.Errorf("Expected weekday 'Mittwoch', got: %s", menu.Days[1].Weekday)
	}
}

func TestNormalizeSortsTodayFirst(t *testing.T) {
	// Tomorrow listed before today in the source
	days := []Day{
		{Date: "04.06.2025"},
		{Date: "03.06.2025"},
	}

	menu := NewNormalizerAt(fixedNow).Run("Testmensa", days)

	if len(menu.Days) != 2 {
		t.Fatalf("Expected 2 days, got: %d", len(menu.Days))
	}
	if !menu.Days[0].IsToday || !menu.Days[1].IsTomorrow {
		t.Error("Expected today to sort before tomorrow")
	}
}

func TestNormalizeAtMostOneTodayAndTomorrow(t *testing.T) {
	menu := NewNormalizerAt(fixedNow).Run("Testmensa", threeDayFeed())

	todayCount, tomorrowCount := 0, 0
	for _, day := range menu.Days {
		if day.IsToday {
			todayCount++
		}
		if day.IsTomorrow {
			tomorrowCount++
		}
	}

	if todayCount > 1 {
		t.Errorf("Expected at most one today, got: %d", todayCount)
	}
	if tomorrowCount > 1 {
		t.Errorf("Expected at most one tomorrow, got: %d", tomorrowCount)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	normalizer := NewNormalizerAt(fixedNow)

	first := normalizer.Run("Testmensa", threeDayFeed())
	second := normalizer.Run("Testmensa", threeDayFeed())

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected normalization to be idempotent")
	}
}

func TestNormalizeEmptyWindow(t *testing.T) {
	days := []Day{
		{Date: "10.06.2025"},
		{Date: "11.06.2025"},
	}

	menu := NewNormalizerAt(fixedNow).Run("Testmensa", days)

	if menu.Days == nil {
		t.Fatal("Expected empty day list, got nil")
	}
	if len(menu.Days) != 0 {
		t.Errorf("Expected 0 days outside the relevance window, got: %d", len(menu.Days))
	}
}

func TestNormalizeUnparseableDate(t *testing.T) {
	days := []Day{
		{Date: "not-a-date"},
		{Date: "03.06.2025"},
	}

	menu := NewNormalizerAt(fixedNow).Run("Testmensa", days)

	// The broken day is neither today nor tomorrow and thus filtered out
	if len(menu.Days) != 1 {
		t.Fatalf("Expected 1 day, got: %d", len(menu.Days))
	}
	if menu.Days[0].Date != "03.06.2025" {
		t.Errorf("Expected the parseable day to survive, got: %s", menu.Days[0].Date)
	}
}

func TestNormalizeTwoDigitYear(t *testing.T) {
	days := []Day{{Date: "03.06.25"}}

	menu := NewNormalizerAt(fixedNow).Run("Testmensa", days)

	if len(menu.Days) != 1 {
		t.Fatalf("Expected 2-digit year to parse, got %d days", len(menu.Days))
	}
	if !menu.Days[0].IsToday {
		t.Error("Expected 03.06.25 to be classified as today")
	}
}

func TestNormalizeFixesCharacterArtifacts(t *testing.T) {
	days := []Day{
		{Date: "03.06.2025", Items: []Item{{Name: "KÃ¤sespÃ¤tzle mit RÃ¶stzwiebeln"}}},
	}

	menu := NewNormalizerAt(fixedNow).Run("Mensa RempartstraÃŸe", days)

	if menu.MensaName != "Mensa Rempartstraße" {
		t.Errorf("Expected fixed mensa name, got: %s", menu.MensaName)
	}
	if got := menu.Days[0].Items[0].Name; got != "Käsespätzle mit Röstzwiebeln" {
		t.Errorf("Expected fixed item name, got: %s", got)
	}
}
