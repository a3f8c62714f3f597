package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/whattoeat/backend/internal/models"
)

type SQLFavoriteService struct {
	db *sql.DB
}

func NewSQLFavoriteService(db *sql.DB) *SQLFavoriteService {
	return &SQLFavoriteService{db: db}
}

func (s *SQLFavoriteService) List(ctx context.Context, userID string) ([]*models.FavoriteRecipe, error) {
	if userID == "" {
		return nil, ErrFavoriteBadInput
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM favorite_recipes WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]*models.FavoriteRecipe, 0)
	for rows.Next() {
		var fav models.FavoriteRecipe
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.Title, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		out = append(out, &fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return out, nil
}

func (s *SQLFavoriteService) Add(ctx context.Context, userID string, recipeID int64, title string) (*models.FavoriteRecipe, error) {
	title = strings.TrimSpace(title)
	if userID == "" || recipeID <= 0 || title == "" {
		return nil, ErrFavoriteBadInput
	}

	fav := &models.FavoriteRecipe{
		ID:        recipeID,
		UserID:    userID,
		Title:     title,
		CreatedAt: nowUTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorite_recipes (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`,
		fav.ID, fav.UserID, fav.Title, fav.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	return fav, nil
}

func (s *SQLFavoriteService) Remove(ctx context.Context, userID string, recipeID int64) error {
	if userID == "" || recipeID <= 0 {
		return ErrFavoriteBadInput
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorite_recipes WHERE id = ? AND user_id = ?`, recipeID, userID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *SQLFavoriteService) RemoveAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrFavoriteBadInput
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorite_recipes WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all favorites: %w", err)
	}
	return res.RowsAffected()
}
