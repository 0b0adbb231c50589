package fine

import (
	"fmt"

	"golang.org/x/text/language"
)

// phrases is the vocabulary one locale uses to render a Breakdown. The
// formatter only ever concatenates these, it never falls back to another
// locale's words: the rendered text is part of the API contract.
type phrases struct {
	daySingular  string
	dayPlural    string
	hourSingular string
	hourPlural   string
	hourAbbrev   string
	connector    string
	lessThanHour string
}

var locales = map[language.Tag]phrases{
	language.BrazilianPortuguese: {
		daySingular:  "dia",
		dayPlural:    "dias",
		hourSingular: "hora",
		hourPlural:   "horas",
		hourAbbrev:   "h",
		connector:    "e",
		lessThanHour: "Menos de 1 hora",
	},
	language.AmericanEnglish: {
		daySingular:  "day",
		dayPlural:    "days",
		hourSingular: "hour",
		hourPlural:   "hours",
		hourAbbrev:   "h",
		connector:    "and",
		lessThanHour: "Less than 1 hour",
	},
}

// Locale renders remaining/overdue durations in one language.
type Locale struct {
	tag language.Tag
	p   phrases
}

// LocaleFor returns the Locale for tag. Unsupported tags are an error, not
// a fallback to some default language.
func LocaleFor(tag language.Tag) (Locale, error) {
	p, ok := locales[tag]
	if !ok {
		return Locale{}, fmt.Errorf("unsupported locale %q", tag)
	}
	return Locale{tag: tag, p: p}, nil
}

func (l Locale) Tag() language.Tag { return l.tag }

// FormatRemaining renders a day/hour pair as a phrase:
//
//	5,20 -> "5 dias e 20h"
//	1,6  -> "1 dia e 6h"
//	0,15 -> "15 horas"
//	0,1  -> "1 hora"
//	0,0  -> "Menos de 1 hora"
func (l Locale) FormatRemaining(days, hours int) string {
	switch {
	case days > 0:
		dayWord := l.p.dayPlural
		if days == 1 {
			dayWord = l.p.daySingular
		}
		return fmt.Sprintf("%d %s %s %d%s", days, dayWord, l.p.connector, hours, l.p.hourAbbrev)
	case hours > 0:
		hourWord := l.p.hourPlural
		if hours == 1 {
			hourWord = l.p.hourSingular
		}
		return fmt.Sprintf("%d %s", hours, hourWord)
	default:
		return l.p.lessThanHour
	}
}
