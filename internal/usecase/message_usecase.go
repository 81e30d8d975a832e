package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/jitter"
	"github.com/probagno/go-backend/pkg/logger"
	"github.com/probagno/go-backend/pkg/validator"
)

// RetryPolicy задаёт повторы вставки сообщения при временных ошибках хранилища.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// MessageUseCase принимает сообщения с сайта и отдаёт их администратору.
type MessageUseCase struct {
	repo   MessageRepository
	retry  RetryPolicy
	logger logger.Logger
	now    func() time.Time
}

func NewMessageUC(repo MessageRepository, retry RetryPolicy, logger logger.Logger, clock func() time.Time) *MessageUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &MessageUseCase{
		repo:   repo,
		retry:  retry,
		logger: logger,
		now:    clock,
	}
}

// Submit валидирует сообщение и сохраняет его, повторяя вставку с экспоненциальной задержкой.
func (m *MessageUseCase) Submit(ctx context.Context, req *SubmitMessageReq) (*domain.ContactMessage, error) {
	const op = "MessageUseCase.Submit"

	normalizeMessageReq(req)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, e.Wrap(op, fmt.Errorf("%w: %s", e.ErrValidation, validator.Summary(errs)))
	}

	msg := domain.NewContactMessage(
		uuid.NewString(),
		req.Name,
		req.Email,
		req.Phone,
		req.Subject,
		req.Message,
		m.now().UTC(),
	)

	var lastErr error
	for attempt := 0; attempt <= m.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := jitter.ExponentialBackoff(m.retry.BaseDelay, m.retry.MaxDelay, attempt-1, jitter.DefaultJitter)
			m.logger.Warnf("Retrying contact message insert, attempt %d after %v: %v", attempt, delay, lastErr)
			if err := jitter.Sleep(ctx, delay); err != nil {
				return nil, e.Wrap(op, err)
			}
		}

		saved, err := m.repo.Create(ctx, msg)
		if err == nil {
			m.logger.Infof("Contact message stored: id=%s", saved.ID)
			return saved, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, e.Wrap(op, err)
		}
		lastErr = err
	}

	m.logger.Errorf(lastErr, "Failed to store contact message after %d retries", m.retry.MaxRetries)
	return nil, e.Wrap(op, lastErr)
}

// List возвращает сообщения от новых к старым с фильтром по статусу и поиском по имени, email и теме.
func (m *MessageUseCase) List(ctx context.Context, filter MessageFilter) ([]domain.ContactMessage, error) {
	const op = "MessageUseCase.List"

	all, err := m.repo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	matcher := newTextMatcher(filter.Search)

	out := make([]domain.ContactMessage, 0, len(all))
	for _, msg := range all {
		switch filter.Status {
		case MessageStatusUnread:
			if msg.IsRead {
				continue
			}
		case MessageStatusRead:
			if !msg.IsRead {
				continue
			}
		}
		if !matcher.Match(msg.Name, msg.Email, msg.Subject) {
			continue
		}
		out = append(out, msg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MessageUseCase) MarkRead(ctx context.Context, id string) error {
	const op = "MessageUseCase.MarkRead"

	found, err := m.repo.MarkRead(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !found {
		return e.Wrap(op, e.ErrMessageNotFound)
	}
	return nil
}

func (m *MessageUseCase) Delete(ctx context.Context, id string) error {
	const op = "MessageUseCase.Delete"

	found, err := m.repo.Delete(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}
	if !found {
		return e.Wrap(op, e.ErrMessageNotFound)
	}
	return nil
}

func normalizeMessageReq(req *SubmitMessageReq) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			req.Phone = nil
		} else {
			req.Phone = &phone
		}
	}
}
