package repository

import (
	"context"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartclinic-server/internal/models"
)

// MaxHistorySize caps a session history listing.
const MaxHistorySize = 100

// ChatRepository is the append-only conversation log.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// lastSeq is shared by every repository in the process.
var lastSeq atomic.Int64

// nextSeq returns a strictly increasing value that tracks wall-clock nanoseconds.
func nextSeq() int64 {
	for {
		prev := lastSeq.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if lastSeq.CompareAndSwap(prev, next) {
			return next
		}
	}
}

func (r *ChatRepository) Append(ctx context.Context, turn *models.ChatTurn) error {
	turn.Seq = nextSeq()
	return translate(r.db.WithContext(ctx).Create(turn).Error)
}

// Recent returns the newest limit turns of a session owned by userID, oldest first.
func (r *ChatRepository) Recent(ctx context.Context, sessionID, userID string, limit int) ([]models.ChatTurn, error) {
	turns := []models.ChatTurn{}
	if limit <= 0 {
		return turns, nil
	}
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order(byTimestamp(true)).
		Order(bySeq(true)).
		Limit(limit).
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// History returns up to MaxHistorySize turns of a session owned by userID, oldest first.
func (r *ChatRepository) History(ctx context.Context, sessionID, userID string) ([]models.ChatTurn, error) {
	turns := []models.ChatTurn{}
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order(byTimestamp(false)).
		Order(bySeq(false)).
		Limit(MaxHistorySize).
		Find(&turns).Error
	return turns, err
}

// byTimestamp quotes the column; "timestamp" is a keyword in several dialects.
func byTimestamp(desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: desc}
}

func bySeq(desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: "seq"}, Desc: desc}
}
