// Package scheduler реализует цикл планирования отправок.
//
// Scheduler обходит executable кампании, проверяет расписание
// (eligibility policy), захватывает due элементы очереди атомарным
// conditional update и передаёт их на доставку.
//
// Структура:
//   - scheduler.go — основная логика (Tick, processCampaign, accountGate)
//   - cron.go      — каденция обхода (SCHED_CRON) и итеративный Run
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Campaigns:  campaignRepo,
//	    Queue:      queueRepo,
//	    Accounts:   accountRepo,
//	    Dispatcher: dispatcher, // publish в MQ либо inline worker
//	    Logger:     logger,
//	})
//
//	schedule, _ := scheduler.SweepSchedule()
//	sched.Run(ctx, schedule)
//
// Конкурентность:
//
// Несколько экземпляров scheduler могут работать одновременно без
// внешней координации: единственный разделяемый ресурс — таблица
// send_queue, и весь арбитраж сводится к атомарному claim
// (UPDATE ... WHERE status='pending'). Проигранный claim — штатный
// исход, а не ошибка. Leader election через pg_try_advisory_lock
// в main.go остаётся опциональной оптимизацией, снижающей холостые
// проходы.
package scheduler
