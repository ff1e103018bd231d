package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Cadence/internal/domain"
	"github.com/shaiso/Cadence/internal/mq"
	"github.com/shaiso/Cadence/internal/provider"
	"github.com/shaiso/Cadence/internal/repo"
	"github.com/shaiso/Cadence/internal/telemetry"
)

// Deliver доставляет одно сообщение из очереди.
//
// Элемент перезагружается из БД и обрабатывается только в статусе
// processing: at-least-once доставка из RabbitMQ делает повторные
// вызовы безопасными no-op'ами. Исходы доставки (sent, failed,
// transient retry) персистятся в БД здесь же; ошибка возвращается
// только при сбое самой обработки (недоступная БД и т.п.) — такое
// сообщение будет перепоставлено в очередь.
func (w *Worker) Deliver(ctx context.Context, payload mq.SendTaskPayload) error {
	now := time.Now()

	item, err := w.queue.GetByID(ctx, payload.QueueItemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("load queue item: %w", err)
	}
	if item.Status != domain.QueueStatusProcessing {
		return ErrItemNotProcessing
	}

	logger := telemetry.WithItemID(w.logger, item.ID.String()).With(
		"campaign_id", item.CampaignID,
		"prospect_id", item.ProspectID,
		"message_type", item.MessageType,
	)

	prospect, err := w.prospects.GetByID(ctx, item.ProspectID)
	if err != nil {
		return fmt.Errorf("load prospect: %w", err)
	}

	// Каденция могла остановиться между claim и доставкой (ответ,
	// terminal статус) — отправка отменяется
	if prospect.Status.IsTerminal() {
		logger.Info("cadence stopped, cancelling send", "prospect_status", prospect.Status)
		if err := w.queue.MarkFailed(ctx, item.ID, ErrCadenceStopped.Error()); err != nil {
			return fmt.Errorf("mark cancelled item failed: %w", err)
		}
		return nil
	}

	providerID, err := w.resolveRecipient(ctx, logger, item, prospect)
	if err != nil {
		if provider.IsTransient(err) {
			return w.handleTransient(ctx, logger, item, err)
		}
		logger.Warn("identity resolution failed", "error", err)
		return w.failBoth(ctx, item, prospect, fmt.Sprintf("%s: %s", ErrResolutionFailed, err))
	}

	// Pre-send проверки для connection request: состояние связи у
	// провайдера важнее нашего локального статуса
	if item.MessageType == domain.MessageTypeConnectionRequest {
		done, err := w.checkInviteState(ctx, logger, item, prospect, providerID, now)
		if err != nil || done {
			return err
		}
	}

	if err := w.send(ctx, item, providerID); err != nil {
		if provider.IsTransient(err) {
			return w.handleTransient(ctx, logger, item, err)
		}
		logger.Warn("delivery failed permanently", "error", err)
		return w.failBoth(ctx, item, prospect, err.Error())
	}

	return w.finishSent(ctx, logger, item, prospect, now)
}

// resolveRecipient резолвит получателя в canonical provider id.
//
// Порядок: canonical id на самом элементе → закэшированный id
// prospect'а → резолв vanity через провайдера (с кэшированием
// результата на prospect'е).
func (w *Worker) resolveRecipient(ctx context.Context, logger *slog.Logger, item *domain.SendQueueItem, prospect *domain.Prospect) (string, error) {
	if domain.IsCanonicalID(item.TargetID) {
		return item.TargetID, nil
	}
	if prospect.HasCanonicalID() {
		return prospect.ProviderID, nil
	}

	source := prospect.ProfileURL
	if source == "" {
		source = item.TargetID
	}
	vanity, err := provider.ExtractVanity(source)
	if err != nil {
		return "", err
	}

	profile, err := w.provider.GetProfileByVanity(ctx, item.AccountID, vanity)
	if err != nil {
		return "", err
	}
	if profile.ProviderID == "" {
		return "", fmt.Errorf("profile %q has no provider id", vanity)
	}

	// Кэшируем, чтобы следующие шаги каденции не ходили за профилем.
	// Ошибка кэширования не фатальна — доставка важнее
	if err := w.prospects.SetProviderID(ctx, prospect.ID, profile.ProviderID); err != nil {
		logger.Warn("failed to cache provider id", "error", err)
	} else {
		prospect.ProviderID = profile.ProviderID
	}

	logger.Debug("resolved recipient", "vanity", vanity, "provider_id", profile.ProviderID)
	return profile.ProviderID, nil
}

// checkInviteState проверяет состояние связи перед connection request.
// Возвращает done=true, если элемент уже доведён до терминального
// статуса и отправка не нужна.
func (w *Worker) checkInviteState(ctx context.Context, logger *slog.Logger, item *domain.SendQueueItem, prospect *domain.Prospect, providerID string, now time.Time) (bool, error) {
	profile, err := w.provider.GetProfileByProviderID(ctx, item.AccountID, providerID)
	if err != nil {
		if provider.IsTransient(err) {
			return true, w.handleTransient(ctx, logger, item, err)
		}
		logger.Warn("pre-send profile check failed", "error", err)
		return true, w.failBoth(ctx, item, prospect, err.Error())
	}

	switch {
	case profile.NetworkDistance == provider.NetworkDistanceFirstDegree:
		// Уже в контактах — приглашение не имеет смысла
		logger.Warn("prospect is already a 1st degree connection")
		return true, w.failBoth(ctx, item, prospect, "already a 1st degree connection")

	case profile.Invitation != nil && profile.Invitation.Status == provider.InvitationStatusWithdrawn:
		// Отозванное приглашение нельзя отправить повторно
		logger.Warn("invitation was withdrawn earlier")
		return true, w.failBoth(ctx, item, prospect, "invitation previously withdrawn")

	case profile.Invitation != nil && profile.Invitation.Status == provider.InvitationStatusPending:
		// Приглашение уже висит у провайдера — считаем отправленным
		logger.Info("invitation already pending, marking sent without re-sending")
		return true, w.finishSent(ctx, logger, item, prospect, now)
	}

	return false, nil
}

// send выполняет внешний вызов провайдера для данного типа сообщения.
func (w *Worker) send(ctx context.Context, item *domain.SendQueueItem, providerID string) error {
	if item.MessageType == domain.MessageTypeConnectionRequest {
		return w.provider.SendInvitation(ctx, item.AccountID, providerID, item.Message)
	}
	return w.provider.SendMessage(ctx, item.AccountID, providerID, item.Message)
}

// finishSent фиксирует успешную доставку: элемент → sent, каденция
// prospect'а продвигается, планируется следующий шаг.
func (w *Worker) finishSent(ctx context.Context, logger *slog.Logger, item *domain.SendQueueItem, prospect *domain.Prospect, now time.Time) error {
	if err := w.queue.MarkSent(ctx, item.ID, now); err != nil {
		return fmt.Errorf("mark item sent: %w", err)
	}
	telemetry.SendsTotal.WithLabelValues("sent").Inc()

	if err := w.prospects.Advance(ctx, prospect.ID, item.MessageType, now); err != nil {
		// Элемент уже sent — продвижение каденции не откатывает доставку
		logger.Warn("failed to advance prospect cadence", "error", err)
		return nil
	}
	prospect.Advance(item.MessageType, now)

	if w.advancer != nil && w.campaigns != nil {
		campaign, err := w.campaigns.GetByID(ctx, item.CampaignID)
		if err != nil {
			logger.Warn("failed to load campaign for next step", "error", err)
			return nil
		}
		if err := w.advancer.Advance(ctx, campaign, prospect, item, now); err != nil {
			logger.Warn("failed to schedule next cadence step", "error", err)
			return nil
		}
	}

	logger.Info("message delivered", "attempts", item.Attempts+1)
	return nil
}

// handleTransient обрабатывает transient-ошибку доставки: элемент
// возвращается в pending со сдвинутым scheduled_for, пока не исчерпан
// потолок попыток — после него ошибка становится терминальной.
func (w *Worker) handleTransient(ctx context.Context, logger *slog.Logger, item *domain.SendQueueItem, cause error) error {
	attempt := item.Attempts + 1

	if attempt >= MaxAttempts {
		logger.Warn("delivery attempts exhausted",
			"attempts", attempt,
			"error", cause,
		)
		telemetry.SendsTotal.WithLabelValues("failed_permanent").Inc()
		if err := w.queue.MarkFailed(ctx, item.ID, fmt.Sprintf("%s: %s", ErrRetryExhausted, cause)); err != nil {
			return fmt.Errorf("mark exhausted item failed: %w", err)
		}
		return nil
	}

	nextAttempt := time.Now().Add(retryDelay)
	logger.Warn("transient delivery error, scheduling retry",
		"attempt", attempt,
		"next_attempt", nextAttempt,
		"error", cause,
	)
	telemetry.SendsTotal.WithLabelValues("failed_transient").Inc()

	if err := w.queue.ReleaseForRetry(ctx, item.ID, cause.Error(), nextAttempt); err != nil {
		return fmt.Errorf("release item for retry: %w", err)
	}
	return nil
}

// failBoth терминально проваливает элемент очереди и каденцию prospect'а.
func (w *Worker) failBoth(ctx context.Context, item *domain.SendQueueItem, prospect *domain.Prospect, reason string) error {
	telemetry.SendsTotal.WithLabelValues("failed_permanent").Inc()

	if err := w.queue.MarkFailed(ctx, item.ID, reason); err != nil {
		return fmt.Errorf("mark item failed: %w", err)
	}
	if err := w.prospects.UpdateStatus(ctx, prospect.ID, domain.ProspectStatusFailed, reason); err != nil {
		return fmt.Errorf("mark prospect failed: %w", err)
	}
	return nil
}
