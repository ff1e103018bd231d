// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений в очереди
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - send.task — захваченный элемент очереди готов к доставке
//
// Exchanges:
//   - cadence.sends — задания доставки
//   - cadence.dlq   — dead letter queue
//
// Семантика at-least-once: worker обязан быть идемпотентным и перед
// доставкой перечитывать статус элемента очереди.
package mq
