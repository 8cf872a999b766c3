package repository

import (
	"context"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/database/postgres"
	"skillbridge/internal/domain/message"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresMessageRepository struct {
	db database.DB
}

var _ message.Repository = (*PostgresMessageRepository)(nil)

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func messageSelect() string {
	return `SELECT m.id, m.conversation, m.sender_id, m.recipient_id, m.content, m.message_type,
			m.related_skill_id, COALESCE(sk.title, ''), m.is_edited, m.edited_at, m.is_deleted,
			m.deleted_at, m.created_at, m.updated_at,
			` + summaryColumns("su") + `,
			` + summaryColumns("ru") + `
		 FROM messages m
		 JOIN users su ON su.id = m.sender_id
		 JOIN users ru ON ru.id = m.recipient_id
		 LEFT JOIN skills sk ON sk.id = m.related_skill_id`
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m message.Message) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO messages (id, conversation, sender_id, recipient_id, content, message_type,
			related_skill_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		m.ID, m.Conversation, m.SenderID, m.RecipientID, m.Content, string(m.Type),
		m.RelatedSkillID, m.CreatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err, fkMessageRelatedSkill) {
			return skill.ErrNotFound
		}
		if postgres.IsForeignKeyViolation(err, "") {
			return user.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	conn := database.Conn(ctx, r.db)
	m, err := scanMessage(conn.QueryRow(ctx, messageSelect()+` WHERE m.id = $1`, id))
	if err != nil {
		return message.Message{}, err
	}
	out := []message.Message{m}
	if err := r.attachDetails(ctx, conn, out); err != nil {
		return message.Message{}, err
	}
	return out[0], nil
}

func (r *PostgresMessageRepository) UpdateContent(ctx context.Context, m message.Message) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE messages
		 SET content = $2, is_edited = $3, edited_at = $4, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted`,
		m.ID, m.Content, m.IsEdited, m.EditedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return message.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE messages
		 SET is_deleted = TRUE, deleted_at = $2, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted`,
		id, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return message.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) ListConversation(ctx context.Context, conversation string, limit, offset int) ([]message.Message, int, error) {
	limit, offset = normalizePage(limit, offset, 50, 200)
	conn := database.Conn(ctx, r.db)

	total, err := scanCount(conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation = $1 AND NOT is_deleted`, conversation))
	if err != nil {
		return nil, 0, err
	}

	rows, err := conn.Query(ctx,
		messageSelect()+`
		 WHERE m.conversation = $1 AND NOT m.is_deleted
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT $2 OFFSET $3`,
		conversation, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	page := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		page = append(page, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.attachDetails(ctx, conn, page); err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// attachDetails loads read receipts and reactions for msgs in two queries.
func (r *PostgresMessageRepository) attachDetails(ctx context.Context, conn database.Executor, msgs []message.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(msgs))
	index := make(map[uuid.UUID]int, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
		index[m.ID] = i
		msgs[i].ReadBy = []message.ReadReceipt{}
		msgs[i].Reactions = []message.Reaction{}
	}

	rows, err := conn.Query(ctx,
		`SELECT message_id, user_id, read_at FROM message_reads
		 WHERE message_id = ANY ($1) ORDER BY read_at ASC`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			id uuid.UUID
			rr message.ReadReceipt
		)
		if err := rows.Scan(&id, &rr.UserID, &rr.ReadAt); err != nil {
			rows.Close()
			return err
		}
		i := index[id]
		msgs[i].ReadBy = append(msgs[i].ReadBy, rr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = conn.Query(ctx,
		`SELECT message_id, user_id, emoji, reacted_at FROM message_reactions
		 WHERE message_id = ANY ($1) ORDER BY reacted_at ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id uuid.UUID
			re message.Reaction
		)
		if err := rows.Scan(&id, &re.UserID, &re.Emoji, &re.Date); err != nil {
			return err
		}
		i := index[id]
		msgs[i].Reactions = append(msgs[i].Reactions, re)
	}
	return rows.Err()
}

func (r *PostgresMessageRepository) MarkConversationRead(ctx context.Context, conversation string, userID uuid.UUID, at time.Time) (int64, error) {
	return database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO message_reads (message_id, user_id, read_at)
		 SELECT m.id, $2, $3
		 FROM messages m
		 WHERE m.conversation = $1 AND m.recipient_id = $2 AND NOT m.is_deleted
		 ON CONFLICT (message_id, user_id) DO NOTHING`,
		conversation, userID, at,
	)
}

func (r *PostgresMessageRepository) Conversations(ctx context.Context, userID uuid.UUID) ([]message.ConversationSummary, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx,
		`WITH latest AS (
			SELECT DISTINCT ON (m.conversation)
				m.conversation, m.sender_id, m.recipient_id, m.content, m.created_at
			FROM messages m
			WHERE (m.sender_id = $1 OR m.recipient_id = $1) AND NOT m.is_deleted
			ORDER BY m.conversation, m.created_at DESC, m.id DESC
		)
		SELECT l.conversation, l.content, l.created_at, l.sender_id = $1,
			(SELECT COUNT(*) FROM messages x
			 WHERE x.conversation = l.conversation AND x.recipient_id = $1 AND NOT x.is_deleted
			   AND NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = x.id AND mr.user_id = $1)),
			`+summaryColumns("o")+`
		FROM latest l
		JOIN users o ON o.id = CASE WHEN l.sender_id = $1 THEN l.recipient_id ELSE l.sender_id END
		ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.ConversationSummary, 0)
	for rows.Next() {
		var cs message.ConversationSummary
		dest := append([]any{&cs.ConversationID, &cs.LastContent, &cs.LastAt, &cs.LastIsOwn, &cs.UnreadCount},
			summaryDest(&cs.Participant)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) UpsertReaction(ctx context.Context, messageID uuid.UUID, re message.Reaction) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`INSERT INTO message_reactions (message_id, user_id, emoji, reacted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (message_id, user_id) DO UPDATE SET emoji = EXCLUDED.emoji, reacted_at = EXCLUDED.reacted_at`,
		messageID, re.UserID, re.Emoji, re.Date,
	)
	return err
}

func (r *PostgresMessageRepository) DeleteReaction(ctx context.Context, messageID, userID uuid.UUID) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx,
		`DELETE FROM message_reactions WHERE message_id = $1 AND user_id = $2`, messageID, userID)
	return err
}

func scanMessage(row database.Row) (message.Message, error) {
	var (
		m     message.Message
		typ   string
		s, rc user.Summary
	)
	dest := []any{
		&m.ID, &m.Conversation, &m.SenderID, &m.RecipientID, &m.Content, &typ,
		&m.RelatedSkillID, &m.RelatedSkillName, &m.IsEdited, &m.EditedAt, &m.IsDeleted,
		&m.DeletedAt, &m.CreatedAt, &m.UpdatedAt,
	}
	dest = append(dest, summaryDest(&s)...)
	dest = append(dest, summaryDest(&rc)...)
	if err := row.Scan(dest...); err != nil {
		if postgres.IsNoRows(err) {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, err
	}
	m.Type = message.Type(typ)
	m.Sender = &s
	m.Recipient = &rc
	return m, nil
}
