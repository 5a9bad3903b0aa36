package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// UserRepository provides database access for identity principals and roles.
type UserRepository struct {
	db  *sqlx.DB
	obs QueryObserver
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Instrument attaches a query observer.
func (r *UserRepository) Instrument(obs QueryObserver) {
	r.obs = obs
}

func (r *UserRepository) observe(op string, start time.Time) {
	if r.obs != nil {
		r.obs.ObserveDBQuery("users."+op, time.Since(start))
	}
}

// List returns every user ordered by creation time, newest first.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	defer r.observe("list", time.Now())
	const query = `SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users ORDER BY created_at DESC, id`
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.observe("find_by_email", time.Now())
	const query = `SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer r.observe("find_by_id", time.Now())
	const query = `SELECT id, email, password_hash, first_name, last_name, created_at, updated_at FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.observe("create", time.Now())
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindRoleByName returns a role by name.
func (r *UserRepository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	defer r.observe("find_role_by_name", time.Now())
	const query = `SELECT id, name, created_by, created_at FROM roles WHERE name = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	return &role, nil
}

// CreateRole inserts a new role.
func (r *UserRepository) CreateRole(ctx context.Context, role *models.Role) error {
	defer r.observe("create_role", time.Now())
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	if role.CreatedAt.IsZero() {
		role.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO roles (id, name, created_by, created_at) VALUES (:id, :name, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, role); err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// AssignRole attaches a role to a user. Re-assignments are idempotent.
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	defer r.observe("assign_role", time.Now())
	const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RolesForUser returns the role names held by a user.
func (r *UserRepository) RolesForUser(ctx context.Context, userID string) ([]string, error) {
	defer r.observe("roles_for_user", time.Now())
	const query = `SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = $1 ORDER BY r.name`
	roles := []string{}
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("roles for user: %w", err)
	}
	return roles, nil
}
