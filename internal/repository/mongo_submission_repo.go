package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"exhibitsurvey/internal/model"
)

type mongoSubmissionRepo struct {
	db *mongo.Database
}

// NewMongoSubmissionRepo appends each row as a document to the collection
// named after its survey type. Answers are top-level fields in definition
// order.
func NewMongoSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &mongoSubmissionRepo{db: db}
}

func (r *mongoSubmissionRepo) Append(ctx context.Context, row model.Row) error {
	if row.SurveyType == "" {
		return ErrEmptyRow
	}
	if _, err := r.db.Collection(row.SurveyType).InsertOne(ctx, toDocument(row)); err != nil {
		return fmt.Errorf("insert submission into %s: %w", row.SurveyType, err)
	}
	return nil
}

func toDocument(row model.Row) bson.D {
	doc := make(bson.D, 0, len(row.Pairs)+2)
	doc = append(doc,
		bson.E{Key: "_id", Value: uuid.NewString()},
		bson.E{Key: "submittedAt", Value: row.SubmittedAt.UTC()},
	)
	for _, p := range row.Pairs {
		doc = append(doc, bson.E{Key: p.Key, Value: p.Value})
	}
	return doc
}
