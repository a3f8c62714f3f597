package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whattoeat/backend/internal/models"
)

type MongoFavoriteService struct {
	favoritesCol *mongo.Collection
}

type mongoFavoriteDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	RecipeID  int64     `bson:"recipe_id"`
	Title     string    `bson:"title"`
	CreatedAt time.Time `bson:"created_at"`
}

func NewMongoFavoriteService(ctx context.Context, db *mongo.Database) (*MongoFavoriteService, error) {
	favs := db.Collection("favorite_recipes")

	// The unique index is what rejects duplicate favorites, so it is not best-effort.
	_, err := favs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "recipe_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return nil, err
	}

	return &MongoFavoriteService{favoritesCol: favs}, nil
}

func (s *MongoFavoriteService) Add(ctx context.Context, userID string, recipeID int64, title string) (*models.FavoriteRecipe, error) {
	title = strings.TrimSpace(title)
	if userID == "" || recipeID <= 0 || title == "" {
		return nil, ErrFavoriteBadInput
	}

	fav := &mongoFavoriteDoc{
		ID:        uuid.New().String(),
		UserID:    userID,
		RecipeID:  recipeID,
		Title:     title,
		CreatedAt: nowUTC(),
	}

	_, err := s.favoritesCol.InsertOne(ctx, fav)
	if err != nil {
		// Duplicate key (already favorited).
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}

	return &models.FavoriteRecipe{
		ID:        fav.RecipeID,
		UserID:    fav.UserID,
		Title:     fav.Title,
		CreatedAt: fav.CreatedAt,
	}, nil
}

func (s *MongoFavoriteService) Remove(ctx context.Context, userID string, recipeID int64) error {
	if userID == "" || recipeID <= 0 {
		return ErrFavoriteBadInput
	}

	res, err := s.favoritesCol.DeleteOne(ctx, bson.M{
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *MongoFavoriteService) RemoveAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrFavoriteBadInput
	}

	res, err := s.favoritesCol.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoFavoriteService) List(ctx context.Context, userID string) ([]*models.FavoriteRecipe, error) {
	if userID == "" {
		return nil, ErrFavoriteBadInput
	}

	cur, err := s.favoritesCol.Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.FavoriteRecipe, 0)
	for cur.Next(ctx) {
		var doc mongoFavoriteDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &models.FavoriteRecipe{
			ID:        doc.RecipeID,
			UserID:    doc.UserID,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, cur.Err()
}
