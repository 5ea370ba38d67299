package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jobmate-backend/internal/orchestrate"
)

// MongoConfig holds MongoDB connection settings for the report store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoRepo implements Repo on a MongoDB collection. Documents are keyed
// uniquely by (userId, reportId) and replaced on save.
type MongoRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type mongoReport struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"userId"`
	ReportID       string             `bson:"reportId"`
	AnalysisResult bson.M             `bson:"analysis_result"`
	CreatedAt      time.Time          `bson:"creation_datetime"`
}

// encodeResult stores the analysis result as a nested document rather than
// raw bytes so it stays queryable.
func encodeResult(result orchestrate.AnalysisResult) (bson.M, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeResult(doc bson.M) (orchestrate.AnalysisResult, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return orchestrate.AnalysisResult{}, err
	}
	var result orchestrate.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return orchestrate.AnalysisResult{}, err
	}
	return result, nil
}

// NewMongoRepo connects to MongoDB and ensures the collection indexes.
func NewMongoRepo(ctx context.Context, cfg MongoConfig) (*MongoRepo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	repo := &MongoRepo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := repo.createIndexes(connectCtx); err != nil {
		return nil, fmt.Errorf("create report indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoRepo) createIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "reportId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "creation_datetime", Value: -1}},
		},
	})
	return err
}

// Close disconnects the underlying client.
func (r *MongoRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepo) Save(ctx context.Context, report Report) error {
	encoded, err := encodeResult(report.AnalysisResult)
	if err != nil {
		return err
	}
	doc := mongoReport{
		UserID:         report.UserID,
		ReportID:       report.ReportID,
		AnalysisResult: encoded,
		CreatedAt:      report.CreatedAt,
	}
	filter := bson.D{{Key: "userId", Value: report.UserID}, {Key: "reportId", Value: report.ReportID}}
	_, err = r.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *MongoRepo) GetByUser(ctx context.Context, userID string) ([]Report, error) {
	filter := bson.D{{Key: "userId", Value: userID}}
	opts := options.Find().SetSort(bson.D{{Key: "creation_datetime", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Report
	for cursor.Next(ctx) {
		var doc mongoReport
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		report, err := doc.toReport()
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, cursor.Err()
}

func (r *MongoRepo) GetByReport(ctx context.Context, userID, reportID string) (Report, error) {
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "reportId", Value: reportID}}
	var doc mongoReport
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	return doc.toReport()
}

func (d mongoReport) toReport() (Report, error) {
	result, err := decodeResult(d.AnalysisResult)
	if err != nil {
		return Report{}, err
	}
	return Report{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		ReportID:       d.ReportID,
		AnalysisResult: result,
		CreatedAt:      d.CreatedAt,
	}, nil
}

var _ Repo = (*MongoRepo)(nil)
