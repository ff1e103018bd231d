// Package provider — HTTP клиент внешнего messaging-провайдера.
//
// Структура:
//   - client.go — вызовы API (профили, приглашения, direct messages)
//   - errors.go — классификация ошибок permanent/transient
//   - vanity.go — извлечение vanity идентификатора из URL профиля
//
// Endpoints:
//   - GET  /api/v1/users/{vanity}            — резолв vanity → провайдерский профиль
//   - GET  /api/v1/users/profile             — профиль по canonical id
//   - POST /api/v1/users/invite              — connection request (JSON)
//   - POST /api/v1/chats                     — direct message (multipart/form-data)
//
// Permanent и transient отказы провайдер различает содержимым ответа,
// а не кодом: см. errors.go.
package provider
