package service

import (
	"fmt"
	"strings"

	"Yatra-App/internal/domain/model"
)

const icsTimestampLayout = "20060102T150405"
const icsDateLayout = "20060102"

// BuildICS 旅程をiCalendar形式のテキストに変換する。
// セグメント1つにつき1つのVEVENTを出力する
func BuildICS(plan *model.Itinerary) string {
	var b strings.Builder
	writeLine := func(line string) {
		// RFC 5545に合わせてCRLFで区切る
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//Yatra-App//Itinerary//EN")
	writeLine("CALSCALE:GREGORIAN")

	events := CalendarEvents(plan)
	for i, event := range events {
		writeLine("BEGIN:VEVENT")
		writeLine(fmt.Sprintf("UID:%s-%d@yatra-app", sanitizeUID(plan.Trip.Title), i))
		if event.AllDay {
			writeLine("DTSTART;VALUE=DATE:" + event.Start.Format(icsDateLayout))
			writeLine("DTEND;VALUE=DATE:" + event.End.Format(icsDateLayout))
		} else {
			writeLine("DTSTART:" + event.Start.Format(icsTimestampLayout))
			writeLine("DTEND:" + event.End.Format(icsTimestampLayout))
		}
		writeLine("SUMMARY:" + escapeICSText(event.Summary))
		if event.Location != "" {
			writeLine("LOCATION:" + escapeICSText(event.Location))
		}
		writeLine("END:VEVENT")
	}

	writeLine("END:VCALENDAR")
	return b.String()
}

// escapeICSText iCalendarのテキスト値をエスケープする
func escapeICSText(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(text)
}

func sanitizeUID(title string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, title)
	return strings.Trim(sanitized, "-")
}
