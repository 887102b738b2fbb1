package auth

import (
	"context"
	"errors"
	"time"

	"zomaksho/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, name, email, password, role, created_at)
		VALUES ($1, $2, LOWER($3), $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Password, string(user.Role), user.CreatedAt,
	)
	return err
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, role, created_at
		FROM users WHERE email = LOWER($1)
	`
	row := r.db.QueryRow(ctx, query, email)

	user := &User{}
	var role string
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Role = session.Role(role)
	return user, nil
}
