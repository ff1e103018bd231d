// Package cli реализует инструмент командной строки Cadence.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Cadence API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления кампаниями и просмотра очереди
// отправки.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Cadence API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	campaigns, err := client.ListCampaigns()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: cadence campaign list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - campaign: list, show, pause, resume, prospects
//   - queue: list, stats
//   - account: list, show
//
// Каждая группа создаётся через фабричную функцию (NewCampaignCmd и
// т.д.), принимающую clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
