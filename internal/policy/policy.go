package policy

import (
	"fmt"
	"time"

	"github.com/shaiso/Cadence/internal/domain"
)

// Дефолты расписания при незаполненных настройках кампании.
const (
	DefaultTimezone          = "UTC"
	DefaultWorkingHoursStart = 8
	DefaultWorkingHoursEnd   = 18
	DefaultCountryCode       = "US"
)

// Коды блокировки для метрик.
const (
	BlockWeekend      = "weekend"
	BlockHoliday      = "holiday"
	BlockWorkingHours = "working_hours"
)

// Decision — результат проверки расписания.
//
// Блокировка — ожидаемое состояние, а не ошибка: Reason предназначен
// для операционного лога, Code — для метрик.
type Decision struct {
	Allowed bool
	Reason  string
	Code    string
}

// Settings — нормализованные настройки расписания с применёнными дефолтами.
type Settings struct {
	Location          *time.Location
	WorkingHoursStart int
	WorkingHoursEnd   int
	SkipWeekends      bool
	SkipHolidays      bool
	CountryCode       string
}

// Normalize применяет дефолты к настройкам кампании: UTC, 08:00–18:00,
// выходные и праздники пропускаются, страна US. Невалидная timezone
// заменяется на UTC, а не возвращается ошибкой — кампания с битой
// настройкой должна продолжать обрабатываться консервативно.
func Normalize(s domain.ScheduleSettings) Settings {
	loc := time.UTC
	if s.Timezone != "" {
		if l, err := time.LoadLocation(s.Timezone); err == nil {
			loc = l
		}
	}

	start := DefaultWorkingHoursStart
	if s.WorkingHoursStart != nil {
		start = *s.WorkingHoursStart
	}
	end := DefaultWorkingHoursEnd
	if s.WorkingHoursEnd != nil {
		end = *s.WorkingHoursEnd
	}

	skipWeekends := true
	if s.SkipWeekends != nil {
		skipWeekends = *s.SkipWeekends
	}
	skipHolidays := true
	if s.SkipHolidays != nil {
		skipHolidays = *s.SkipHolidays
	}

	country := s.CountryCode
	if country == "" {
		country = DefaultCountryCode
	}

	return Settings{
		Location:          loc,
		WorkingHoursStart: start,
		WorkingHoursEnd:   end,
		SkipWeekends:      skipWeekends,
		SkipHolidays:      skipHolidays,
		CountryCode:       country,
	}
}

// Evaluate проверяет, разрешена ли отправка в момент now по настройкам
// кампании. Чистая функция: время приходит параметром, часы — [start, end).
func Evaluate(s domain.ScheduleSettings, now time.Time) Decision {
	n := Normalize(s)
	local := now.In(n.Location)

	if n.SkipWeekends && IsWeekend(local.Weekday(), n.CountryCode) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("weekend (%s, %s)", local.Weekday(), n.CountryCode),
			Code:    BlockWeekend,
		}
	}

	if n.SkipHolidays && IsHoliday(local, n.CountryCode) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("holiday (%s, %s)", local.Format("2006-01-02"), n.CountryCode),
			Code:    BlockHoliday,
		}
	}

	if h := local.Hour(); h < n.WorkingHoursStart || h >= n.WorkingHoursEnd {
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("outside working hours (%02d:00, window %02d:00-%02d:00)",
				h, n.WorkingHoursStart, n.WorkingHoursEnd),
			Code: BlockWorkingHours,
		}
	}

	return Decision{Allowed: true}
}

// NextOpen возвращает ближайший момент не раньше from, в который
// Evaluate разрешит отправку: начало рабочего дня следующего
// подходящего дня, либо сам from, если он уже внутри окна.
//
// Используется sequence advancer'ом для сдвига запланированного времени
// из закрытого окна. Ограничение в 366 итераций защищает от зацикливания
// на вырожденных настройках (пустое рабочее окно).
func NextOpen(s domain.ScheduleSettings, from time.Time) time.Time {
	n := Normalize(s)
	if n.WorkingHoursStart >= n.WorkingHoursEnd {
		return from
	}

	local := from.In(n.Location)
	for i := 0; i < 366; i++ {
		if n.SkipWeekends && IsWeekend(local.Weekday(), n.CountryCode) ||
			n.SkipHolidays && IsHoliday(local, n.CountryCode) {
			local = startOfNextDay(local, n.WorkingHoursStart)
			continue
		}
		if local.Hour() < n.WorkingHoursStart {
			local = time.Date(local.Year(), local.Month(), local.Day(),
				n.WorkingHoursStart, 0, 0, 0, local.Location())
			continue
		}
		if local.Hour() >= n.WorkingHoursEnd {
			local = startOfNextDay(local, n.WorkingHoursStart)
			continue
		}
		return local
	}
	return local
}

func startOfNextDay(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, hour, 0, 0, 0, t.Location())
}
