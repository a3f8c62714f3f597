package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/whattoeat/backend/internal/models"
)

const groceryColumns = `id, user_id, title, checked, created_at, updated_at`

// SQLGroceryService persists grocery items in the relational store. Writes
// match on (id, user_id) so a foreign row behaves exactly like a missing one.
type SQLGroceryService struct {
	db *sql.DB
}

func NewSQLGroceryService(db *sql.DB) *SQLGroceryService {
	return &SQLGroceryService{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroceryItem(row rowScanner) (*models.GroceryItem, error) {
	var item models.GroceryItem
	if err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Checked, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLGroceryService) List(ctx context.Context, userID string) ([]*models.GroceryItem, error) {
	if userID == "" {
		return nil, ErrGroceryBadInput
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groceryColumns+` FROM grocery_items WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	out := make([]*models.GroceryItem, 0)
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grocery items: %w", err)
	}
	return out, nil
}

func (s *SQLGroceryService) Create(ctx context.Context, userID, title string) (*models.GroceryItem, error) {
	if userID == "" {
		return nil, ErrGroceryBadInput
	}
	title, err := normalizeGroceryTitle(title)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	item := &models.GroceryItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (`+groceryColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Title, item.Checked, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	return item, nil
}

func (s *SQLGroceryService) Update(ctx context.Context, userID, id string, req *models.UpdateGroceryItemRequest) (*models.GroceryItem, error) {
	if userID == "" || id == "" || req == nil {
		return nil, ErrGroceryBadInput
	}
	title, err := normalizeGroceryTitle(req.Title)
	if err != nil {
		return nil, err
	}

	var checked sql.NullBool
	if req.Checked != nil {
		checked = sql.NullBool{Bool: *req.Checked, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items
		    SET title = ?, checked = COALESCE(?, checked), updated_at = ?
		  WHERE id = ? AND user_id = ?`,
		title, checked, nowUTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update grocery item: %w", err)
	} else if n == 0 {
		return nil, ErrGroceryNotFound
	}

	item, err := scanGroceryItem(s.db.QueryRowContext(ctx,
		`SELECT `+groceryColumns+` FROM grocery_items WHERE id = ? AND user_id = ?`, id, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroceryNotFound
		}
		return nil, fmt.Errorf("reload grocery item: %w", err)
	}
	return item, nil
}

func (s *SQLGroceryService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return ErrGroceryBadInput
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	if n == 0 {
		return ErrGroceryNotFound
	}
	return nil
}

func (s *SQLGroceryService) DeleteAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrGroceryBadInput
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all grocery items: %w", err)
	}
	return res.RowsAffected()
}
