package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos-service/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

var validate = validator.New()

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if err := validate.Struct(u); err != nil {
		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			firstErr := validationErr[0]
			switch firstErr.Field() {
			case "Username":
				return fmt.Errorf("%w: username must be 3-100 characters", ErrInvalidInput)
			case "Password":
				return fmt.Errorf("%w: password required", ErrInvalidInput)
			case "Role":
				return fmt.Errorf("%w: role must be Admin or Cashier", ErrInvalidInput)
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sql := `
		INSERT INTO users (
			username,
			password,
			role,
			created_at
	) VALUES ($1, $2, $3, $4)
	RETURNING user_id
	`

	now := time.Now()
	u.CreatedAt = now

	err := r.db.QueryRow(ctx, sql,
		u.Username,
		u.Password,
		u.Role,
		u.CreatedAt,
	).Scan(&u.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return fmt.Errorf("%w: username already exists", ErrDuplicate)
			}
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepo) GetByUsernameAndRole(ctx context.Context, username, role string) (*models.User, error) {
	if username == "" || role == "" {
		return nil, fmt.Errorf("%w: username and role required", ErrInvalidInput)
	}

	sql := `
		SELECT
		user_id,
		username,
		password,
		role,
		created_at
		FROM users WHERE username = $1 AND role = $2
	`

	var user models.User

	err := r.db.QueryRow(ctx, sql, username, role).Scan(
		&user.UserID,
		&user.Username,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}

	return &user, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, fmt.Errorf("%w: username required", ErrInvalidInput)
	}

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username %s: %w", username, err)
	}

	return exists, nil
}
