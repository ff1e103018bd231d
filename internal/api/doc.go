// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (репозитории, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - campaign_handler.go — обработчики для /campaigns
//   - prospect_handler.go — обработчики для prospects кампании
//   - queue_handler.go    — обработчики для очереди отправки
//   - account_handler.go  — обработчики для /accounts
//
// API предоставляет REST endpoints для управления кампаниями,
// prospects, очередью отправки и аккаунтами workspace.
package api
