package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ArchiveRepo handles MongoDB operations for completed interviews.
// The archive is best-effort history for the results page; the live
// session store stays authoritative until eviction.
type ArchiveRepo interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	ListByDomain(ctx context.Context, domainKey string, limit int64) ([]*model.Session, error)
}

type archiveRepo struct {
	interviews *mongo.Collection
}

// NewArchiveRepo creates a new archive repository
func NewArchiveRepo(db *mongo.Database) ArchiveRepo {
	return &archiveRepo{
		interviews: db.Collection("interviews"),
	}
}

func (r *archiveRepo) Save(ctx context.Context, session *model.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.interviews.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

func (r *archiveRepo) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.interviews.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *archiveRepo) ListByDomain(ctx context.Context, domainKey string, limit int64) ([]*model.Session, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.M{"startTime": -1})
	cursor, err := r.interviews.Find(ctx, bson.M{"domain": domainKey}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
