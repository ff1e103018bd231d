// Package worker реализует доставку сообщений из очереди отправки.
//
// Worker потребляет задания send.task из RabbitMQ (плюс polling
// fallback, возвращающий застрявшие processing элементы в pending),
// резолвит получателя в canonical id провайдера, выполняет pre-send
// проверки для connection request и доставляет сообщение через
// внешний API.
//
// Исходы доставки:
//   - успех: элемент → sent, каденция prospect'а продвигается,
//     sequence advancer планирует следующий шаг
//   - permanent ошибка: элемент и prospect терминально failed,
//     повторов нет
//   - transient ошибка: элемент возвращается в pending со сдвинутым
//     scheduled_for; после MaxAttempts попыток — терминальный failed
//
// Все исходы персистятся в БД внутри обработчика; nack с requeue
// получают только сбои самой обработки.
package worker
