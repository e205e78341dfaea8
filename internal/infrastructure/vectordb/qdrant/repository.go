// Package qdrant provides a VectorDB implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

// Repository implements the VectorDB and CollectionManager interfaces using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

// apiKeyInterceptor attaches the Qdrant API key to every call.
func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Writes block until applied so a search right after a save sees it.
var waitForWrite = true

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection removes the collection and all its data.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{CollectionName: r.collection})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// SaveBatch upserts FAQ entries.
func (r *Repository) SaveBatch(ctx context.Context, entries []entities.FAQEntry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(entries))
	for i := range entries {
		points = append(points, entryToPoint(&entries[i]))
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Wait:           &waitForWrite,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// Search performs a semantic search and returns similar entries.
func (r *Repository) Search(ctx context.Context, embedding []float32, limit int) ([]entities.FAQEntry, error) {
	return r.search(ctx, embedding, nil, limit)
}

// SearchByCategory performs a semantic search filtered by category.
func (r *Repository) SearchByCategory(ctx context.Context, embedding []float32, category string, limit int) ([]entities.FAQEntry, error) {
	return r.search(ctx, embedding, keywordFilter("category", category), limit)
}

func (r *Repository) search(ctx context.Context, embedding []float32, filter *pb.Filter, limit int) ([]entities.FAQEntry, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         embedding,
		Limit:          uint64(limit),
		Filter:         filter,
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	entries := make([]entities.FAQEntry, 0, len(resp.Result))
	for _, point := range resp.Result {
		entries = append(entries, scoredPointToEntry(point))
	}
	return entries, nil
}

// DeleteBySource removes all entries ingested from a source file.
func (r *Repository) DeleteBySource(ctx context.Context, sourceFile string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Wait:           &waitForWrite,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: keywordFilter("source_file", sourceFile),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting points by source: %w", err)
	}

	return nil
}

// Count returns the total number of entries.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

func keywordFilter(key, value string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: key,
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{Keyword: value},
						},
					},
				},
			},
		},
	}
}

// entryToPoint converts an entry to a Qdrant point; an empty ID gets a fresh UUID.
func entryToPoint(entry *entities.FAQEntry) *pb.PointStruct {
	pointID := entry.ID
	if pointID == "" {
		pointID = uuid.New().String()
	}

	return &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{Uuid: pointID},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: entry.Embedding},
			},
		},
		Payload: map[string]*pb.Value{
			"question":    {Kind: &pb.Value_StringValue{StringValue: entry.Question}},
			"answer":      {Kind: &pb.Value_StringValue{StringValue: entry.Answer}},
			"category":    {Kind: &pb.Value_StringValue{StringValue: entry.Category}},
			"source_file": {Kind: &pb.Value_StringValue{StringValue: entry.SourceFile}},
			"created_at":  {Kind: &pb.Value_StringValue{StringValue: entry.CreatedAt.Format(time.RFC3339)}},
		},
	}
}

// scoredPointToEntry converts a search hit to an FAQ entry.
func scoredPointToEntry(point *pb.ScoredPoint) entities.FAQEntry {
	payload := point.GetPayload()
	createdAt, _ := time.Parse(time.RFC3339, getStringValue(payload, "created_at"))

	return entities.FAQEntry{
		ID:         point.GetId().GetUuid(),
		Question:   getStringValue(payload, "question"),
		Answer:     getStringValue(payload, "answer"),
		Category:   getStringValue(payload, "category"),
		SourceFile: getStringValue(payload, "source_file"),
		Score:      point.GetScore(),
		CreatedAt:  createdAt,
	}
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
