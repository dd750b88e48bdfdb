package repository

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, hashed_password, role)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.HashedPassword, user.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return storeErr("pgUserRepository.Create", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgUserRepository) findBy(ctx context.Context, column, value string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT id, username, email, hashed_password, role, created_at, updated_at
	          FROM users WHERE %s = $1`, column)
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, storeErr("pgUserRepository.findBy "+column, err)
	}
	return user, nil
}

func (r *pgUserRepository) UsernamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	query := `SELECT id, username FROM users WHERE id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, storeErr("pgUserRepository.UsernamesByIDs", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, storeErr("pgUserRepository.UsernamesByIDs scan", err)
		}
		names[id] = username
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgUserRepository.UsernamesByIDs rows", err)
	}
	return names, nil
}
