package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/internal/repository/pgdb/converter"
	"github.com/probagno/go-backend/pkg/e"
)

const messageColumns = `id::text, name, email, phone, subject, message, is_read, created_at`

// MessageRepo реализует репозиторий сообщений обратной связи поверх PostgreSQL.
type MessageRepo struct {
	pool *pgxpool.Pool
	conv converter.MessageConverter
}

func NewMessageRepo(pool *pgxpool.Pool, conv converter.MessageConverter) *MessageRepo {
	return &MessageRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет сообщение. Повторная вставка того же id не создаёт дубль.
func (m *MessageRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	model := m.conv.ToModel(msg)

	query := `
		INSERT INTO contact_messages (id, name, email, phone, subject, message, is_read, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING ` + messageColumns

	rows, err := m.pool.Query(ctx, query,
		model.ID, model.Name, model.Email, model.Phone,
		model.Subject, model.Message, model.IsRead, model.CreatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[converter.MessageModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return m.conv.ToEntity(&saved), nil
}

// List возвращает все сообщения от новых к старым.
func (m *MessageRepo) List(ctx context.Context) ([]domain.ContactMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM contact_messages ORDER BY created_at DESC`

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToStructByPos[converter.MessageModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return m.conv.ToArrEntity(models), nil
}

// MarkRead помечает сообщение прочитанным. false — сообщения с таким id нет.
func (m *MessageRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	tag, err := m.pool.Exec(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id::text = $1`, id)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected() > 0, nil
}

func (m *MessageRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := m.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id::text = $1`, id)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected() > 0, nil
}
