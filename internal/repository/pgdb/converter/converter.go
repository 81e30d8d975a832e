package converter

import "github.com/probagno/go-backend/internal/domain"

// MessageConverter преобразует ContactMessage между domain и моделью PostgreSQL.
type MessageConverter interface {
	ToModel(entity *domain.ContactMessage) *MessageModel
	ToEntity(model *MessageModel) *domain.ContactMessage
	ToArrEntity(models []MessageModel) []domain.ContactMessage
}

type messageConverter struct{}

func NewMessageConverter() MessageConverter {
	return messageConverter{}
}

func (messageConverter) ToModel(entity *domain.ContactMessage) *MessageModel {
	if entity == nil {
		return nil
	}
	return &MessageModel{
		ID:        entity.ID,
		Name:      entity.Name,
		Email:     entity.Email,
		Phone:     copyString(entity.Phone),
		Subject:   entity.Subject,
		Message:   entity.Message,
		IsRead:    entity.IsRead,
		CreatedAt: entity.CreatedAt,
	}
}

func (messageConverter) ToEntity(model *MessageModel) *domain.ContactMessage {
	if model == nil {
		return nil
	}
	msg := domain.NewContactMessage(
		model.ID,
		model.Name,
		model.Email,
		copyString(model.Phone),
		model.Subject,
		model.Message,
		model.CreatedAt,
	)
	msg.IsRead = model.IsRead
	return msg
}

func (c messageConverter) ToArrEntity(models []MessageModel) []domain.ContactMessage {
	out := make([]domain.ContactMessage, 0, len(models))
	for i := range models {
		out = append(out, *c.ToEntity(&models[i]))
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
