package policy

import "time"

// fridaySaturdayWeekendCountries — страны с выходными пятница/суббота
// (Ближний Восток).
var fridaySaturdayWeekendCountries = map[string]bool{
	"AE": true,
	"SA": true,
	"KW": true,
	"QA": true,
	"BH": true,
	"OM": true,
	"JO": true,
	"EG": true,
}

// IsWeekend проверяет, выходной ли день недели для данной страны.
// Дефолтный набор — суббота/воскресенье.
func IsWeekend(day time.Weekday, countryCode string) bool {
	if fridaySaturdayWeekendCountries[countryCode] {
		return day == time.Friday || day == time.Saturday
	}
	return day == time.Saturday || day == time.Sunday
}

// holidaysByCountry — государственные праздники по странам, 2025–2026.
// Ключ — дата в формате YYYY-MM-DD локальной timezone кампании.
var holidaysByCountry = map[string][]string{
	"US": {
		"2025-01-01", // New Year's Day
		"2025-01-20", // MLK Day
		"2025-02-17", // Presidents Day
		"2025-05-26", // Memorial Day
		"2025-07-04", // Independence Day
		"2025-09-01", // Labor Day
		"2025-11-27", // Thanksgiving
		"2025-12-25", // Christmas
		"2026-01-01", // New Year's Day
	},
	"CA": {
		"2025-01-01", // New Year's Day
		"2025-02-17", // Family Day
		"2025-04-18", // Good Friday
		"2025-05-19", // Victoria Day
		"2025-07-01", // Canada Day
		"2025-09-01", // Labour Day
		"2025-10-13", // Thanksgiving
		"2025-12-25", // Christmas
		"2025-12-26", // Boxing Day
		"2026-01-01", // New Year's Day
	},
	"GB": {
		"2025-01-01", // New Year's Day
		"2025-04-18", // Good Friday
		"2025-04-21", // Easter Monday
		"2025-05-05", // Early May Bank Holiday
		"2025-05-26", // Spring Bank Holiday
		"2025-08-25", // Summer Bank Holiday
		"2025-12-25", // Christmas
		"2025-12-26", // Boxing Day
		"2026-01-01", // New Year's Day
	},
	"DE": {
		"2025-01-01", // Neujahr
		"2025-04-18", // Karfreitag
		"2025-04-21", // Ostermontag
		"2025-05-01", // Tag der Arbeit
		"2025-05-29", // Christi Himmelfahrt
		"2025-06-09", // Pfingstmontag
		"2025-10-03", // Tag der Deutschen Einheit
		"2025-12-25", // Weihnachten
		"2025-12-26", // Zweiter Weihnachtstag
		"2026-01-01", // Neujahr
	},
	"FR": {
		"2025-01-01", // Jour de l'An
		"2025-04-21", // Lundi de Pâques
		"2025-05-01", // Fête du Travail
		"2025-05-08", // Victoire 1945
		"2025-05-29", // Ascension
		"2025-06-09", // Lundi de Pentecôte
		"2025-07-14", // Fête Nationale
		"2025-08-15", // Assomption
		"2025-11-01", // Toussaint
		"2025-11-11", // Armistice
		"2025-12-25", // Noël
		"2026-01-01", // Jour de l'An
	},
	"NL": {
		"2025-01-01", // Nieuwjaarsdag
		"2025-04-18", // Goede Vrijdag
		"2025-04-21", // Tweede Paasdag
		"2025-04-27", // Koningsdag
		"2025-05-05", // Bevrijdingsdag
		"2025-05-29", // Hemelvaartsdag
		"2025-06-09", // Tweede Pinksterdag
		"2025-12-25", // Eerste Kerstdag
		"2025-12-26", // Tweede Kerstdag
		"2026-01-01", // Nieuwjaarsdag
	},
	"AU": {
		"2025-01-01", // New Year's Day
		"2025-01-27", // Australia Day (observed)
		"2025-04-18", // Good Friday
		"2025-04-21", // Easter Monday
		"2025-04-25", // Anzac Day
		"2025-06-09", // Queen's Birthday
		"2025-12-25", // Christmas
		"2025-12-26", // Boxing Day
		"2026-01-01", // New Year's Day
	},
	"SG": {
		"2025-01-01", // New Year's Day
		"2025-01-29", // Chinese New Year
		"2025-01-30", // Chinese New Year Day 2
		"2025-04-18", // Good Friday
		"2025-05-01", // Labour Day
		"2025-05-12", // Vesak Day
		"2025-06-07", // Hari Raya Haji
		"2025-08-09", // National Day
		"2025-10-20", // Deepavali
		"2025-12-25", // Christmas
		"2026-01-01", // New Year's Day
	},
	"AE": {
		"2025-01-01", // New Year's Day
		"2025-03-30", // Eid al-Fitr
		"2025-03-31", // Eid al-Fitr
		"2025-04-01", // Eid al-Fitr
		"2025-06-05", // Arafat Day
		"2025-06-06", // Eid al-Adha
		"2025-06-07", // Eid al-Adha
		"2025-06-26", // Islamic New Year
		"2025-09-04", // Prophet's Birthday
		"2025-12-01", // Commemoration Day
		"2025-12-02", // National Day
		"2025-12-03", // National Day
		"2026-01-01", // New Year's Day
	},
	"SA": {
		"2025-02-22", // Founding Day
		"2025-03-30", // Eid al-Fitr
		"2025-03-31", // Eid al-Fitr
		"2025-04-01", // Eid al-Fitr
		"2025-06-05", // Arafat Day
		"2025-06-06", // Eid al-Adha
		"2025-06-07", // Eid al-Adha
		"2025-09-23", // National Day
	},
	// Fallback — только действительно глобальные праздники.
	"INTL": {
		"2025-01-01", // New Year's Day
		"2025-12-25", // Christmas
		"2025-12-26", // Boxing Day
		"2026-01-01", // New Year's Day
	},
}

// HolidaysForCountry возвращает календарь праздников страны.
// Неизвестный код страны — INTL fallback.
func HolidaysForCountry(countryCode string) []string {
	if h, ok := holidaysByCountry[countryCode]; ok {
		return h
	}
	return holidaysByCountry["INTL"]
}

// IsHoliday проверяет, приходится ли локальная дата на праздник страны.
func IsHoliday(local time.Time, countryCode string) bool {
	dateStr := local.Format("2006-01-02")
	for _, h := range HolidaysForCountry(countryCode) {
		if h == dateStr {
			return true
		}
	}
	return false
}
