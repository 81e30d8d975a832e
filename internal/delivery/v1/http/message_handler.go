package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/probagno/go-backend/internal/usecase"
	"github.com/probagno/go-backend/pkg/logger"
)

type MessageHandler struct {
	messages usecase.MessageUC
	logger   logger.Logger
}

func NewMessageHandler(messages usecase.MessageUC, logger logger.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// submitMessage
//
//	@Summary	Отправка сообщения через форму обратной связи
//	@Tags		contact
//	@Accept		json
//	@Produce	json
//	@Param		message	body		usecase.SubmitMessageReq	true	"Сообщение"
//	@Success	201		{object}	domain.ContactMessage
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router		/contact [post]
func (m *MessageHandler) submitMessage(w http.ResponseWriter, r *http.Request) {
	var req usecase.SubmitMessageReq
	if err := decodeJSON(w, r, &req); err != nil {
		m.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	msg, err := m.messages.Submit(r.Context(), &req)
	if err != nil {
		m.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, msg)
}

// listMessages
//
//	@Summary	Сообщения обратной связи
//	@Tags		admin
//	@Produce	json
//	@Param		q		query	string	false	"Поиск по имени, email и теме"
//	@Param		status	query	string	false	"all | unread | read"
//	@Success	200		{array}	domain.ContactMessage
//	@Router		/admin/messages [get]
func (m *MessageHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	messages, err := m.messages.List(r.Context(), usecase.NewMessageFilter(q.Get("q"), q.Get("status")))
	if err != nil {
		m.logger.Errorf(err, "Failed to list contact messages")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, messages)
}

// markMessageRead
//
//	@Summary	Пометить сообщение прочитанным
//	@Tags		admin
//	@Param		id	path	string	true	"ID сообщения"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/messages/{id}/read [patch]
func (m *MessageHandler) markMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := m.messages.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		m.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deleteMessage
//
//	@Summary	Удаление сообщения
//	@Tags		admin
//	@Param		id	path	string	true	"ID сообщения"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Router		/admin/messages/{id} [delete]
func (m *MessageHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := m.messages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		m.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
