package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolecall/identity-service/internal/core/domain"
)

const userProjection = `
SELECT u.user_id, u.username, r.role_name
FROM users AS u
JOIN roles AS r ON u.role_id = r.role_id`

// PgUserRepository implements ports.UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Provision creates the user inside a single serializable transaction,
// creating the role first when no row matches roleName exactly. When two
// provisioning calls race on the same new role, the store's uniqueness
// constraint fails the loser; the role exists by then, so one retry
// resolves it.
func (r *PgUserRepository) Provision(ctx context.Context, username, passwordHash, roleName string) (*domain.User, error) {
	userID, err := r.provision(ctx, username, passwordHash, roleName)
	if err != nil && (isUniqueViolation(err, "roles_role_name_key") || isSerializationFailure(err)) {
		userID, err = r.provision(ctx, username, passwordHash, roleName)
	}
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("provision user: %w", err)
	}

	return r.FindByID(ctx, userID)
}

func (r *PgUserRepository) provision(ctx context.Context, username, passwordHash, roleName string) (int64, error) {
	var userID int64
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		roleID, err := resolveRole(ctx, tx, roleName)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO users (username, password_hash, role_id) VALUES ($1, $2, $3) RETURNING user_id`,
			username, passwordHash, roleID,
		).Scan(&userID)
	})
	return userID, err
}

// resolveRole returns the id for roleName, inserting the role on first use.
// Names match byte-for-byte; no trimming or case folding. Runs inside the
// caller's transaction so a later failure discards the role insert too.
func resolveRole(ctx context.Context, tx pgx.Tx, roleName string) (int64, error) {
	var roleID int64
	err := tx.QueryRow(ctx, `SELECT role_id FROM roles WHERE role_name = $1`, roleName).Scan(&roleID)
	if err == nil {
		return roleID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO roles (role_name) VALUES ($1) RETURNING role_id`, roleName,
	).Scan(&roleID); err != nil {
		return 0, err
	}
	return roleID, nil
}

func (r *PgUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, userProjection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.RoleName); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, userProjection+` WHERE u.user_id = $1`, userID).
		Scan(&u.ID, &u.Username, &u.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRow(ctx, `
SELECT u.user_id, u.username, u.password_hash, r.role_name
FROM users AS u
JOIN roles AS r ON u.role_id = r.role_id
WHERE u.username = $1`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &a, nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
// (SQLSTATE 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// isSerializationFailure reports whether err is a serializable-isolation
// conflict (SQLSTATE 40001), which is safe to retry.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
