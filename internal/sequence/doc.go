// Package sequence реализует продвижение каденции после успешной отправки.
//
// Advancer определяет следующий шаг с непустым шаблоном (пустые шаги
// пропускаются), выбирает случайную задержку из расширяющегося
// диапазона шага и сдвигает результат в ближайшее открытое окно
// расписания кампании. Если шагов не осталось, каденция prospect'а
// отмечается завершённой.
//
// Диапазоны задержек (в днях): follow-up 1 — 2–4, follow-up 2 — 3–6,
// follow-up 3 — 4–7, follow-up 4 — 5–8, goodbye — 6–10. Задержка
// выбирается с точностью до минуты независимо для каждого prospect'а.
package sequence
