package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/whattoeat/backend/internal/models"
)

type SQLUserService struct {
	db *sql.DB
}

func NewSQLUserService(db *sql.DB) *SQLUserService {
	return &SQLUserService{db: db}
}

func (s *SQLUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
		CreatedAt:    nowUTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *SQLUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.findOne(ctx, `WHERE email = ?`, req.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(user, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SQLUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, `WHERE id = ?`, id)
}

func (s *SQLUserService) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLUserService) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
