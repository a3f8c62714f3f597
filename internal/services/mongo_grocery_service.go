package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whattoeat/backend/internal/models"
)

type MongoGroceryService struct {
	itemsCol *mongo.Collection
}

type mongoGroceryDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Title     string    `bson:"title"`
	Checked   bool      `bson:"checked"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d mongoGroceryDoc) toModel() *models.GroceryItem {
	return &models.GroceryItem{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Checked:   d.Checked,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func NewMongoGroceryService(ctx context.Context, db *mongo.Database) (*MongoGroceryService, error) {
	items := db.Collection("grocery_items")

	_, err := items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return nil, err
	}

	return &MongoGroceryService{itemsCol: items}, nil
}

func (s *MongoGroceryService) List(ctx context.Context, userID string) ([]*models.GroceryItem, error) {
	if userID == "" {
		return nil, ErrGroceryBadInput
	}

	cur, err := s.itemsCol.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.GroceryItem, 0)
	for cur.Next(ctx) {
		var doc mongoGroceryDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoGroceryService) Create(ctx context.Context, userID, title string) (*models.GroceryItem, error) {
	if userID == "" {
		return nil, ErrGroceryBadInput
	}
	title, err := normalizeGroceryTitle(title)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	doc := mongoGroceryDoc{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.itemsCol.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoGroceryService) Update(ctx context.Context, userID, id string, req *models.UpdateGroceryItemRequest) (*models.GroceryItem, error) {
	if userID == "" || id == "" || req == nil {
		return nil, ErrGroceryBadInput
	}
	title, err := normalizeGroceryTitle(req.Title)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":      title,
		"updated_at": nowUTC(),
	}
	if req.Checked != nil {
		set["checked"] = *req.Checked
	}

	var doc mongoGroceryDoc
	err = s.itemsCol.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroceryNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *MongoGroceryService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return ErrGroceryBadInput
	}

	res, err := s.itemsCol.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrGroceryNotFound
	}
	return nil
}

func (s *MongoGroceryService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrGroceryBadInput
	}

	res, err := s.itemsCol.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
