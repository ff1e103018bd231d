// Package policy реализует проверку расписания кампании.
//
// Чистые функции без побочных эффектов: настройки и текущий момент
// приходят параметрами, результат — Decision с причиной блокировки.
//
// Правила (в порядке проверки):
//   - выходные дни страны (сб/вс; на Ближнем Востоке — пт/сб)
//   - государственные праздники страны (calendar.go, 2025–2026)
//   - рабочие часы [start, end) в локальной timezone кампании
//
// Незаполненные настройки получают дефолты: UTC, 08:00–18:00,
// выходные и праздники пропускаются, страна US.
//
// Использование:
//
//	d := policy.Evaluate(campaign.Settings, time.Now())
//	if !d.Allowed {
//	    logger.Info("campaign skipped", "reason", d.Reason)
//	}
package policy
