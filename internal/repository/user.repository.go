package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// UserStore is the credential store consumed by the usecases and the auth
// middleware.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int, error)
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64) error
	MarkEmailVerified(ctx context.Context, id int64) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, full_name, phone, avatar_url, bio,
	role, is_active, is_verified, is_superuser, last_login, email_verified_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := new(domain.User)
	var fullName, phone, avatarURL, bio *string
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &fullName, &phone, &avatarURL, &bio,
		&u.Role, &u.IsActive, &u.IsVerified, &u.IsSuperuser, &u.LastLogin, &u.EmailVerifiedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.FullName = deref(fullName)
	u.Phone = deref(phone)
	u.AvatarURL = deref(avatarURL)
	u.Bio = deref(bio)
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapUserConstraint translates unique-violation errors into duplicate
// sentinels. The constraint is the authoritative guard; pre-checks in the
// usecase are only a fast path.
func mapUserConstraint(err error) error {
	if xerrors.ParsePGErrorCode(err) != "23505" {
		return err
	}
	switch xerrors.ConstraintName(err) {
	case "users_email_key":
		return xerrors.ErrEmailAlreadyInUse
	case "users_username_key":
		return xerrors.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash, full_name, phone, bio, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		u.Email, u.Username, u.PasswordHash,
		nilIfEmpty(u.FullName), nilIfEmpty(u.Phone), nilIfEmpty(u.Bio), u.Role,
	)
	saved, err := scanUser(row)
	if err != nil {
		return nil, mapUserConstraint(err)
	}
	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(username))
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}

	if f.Email != "" {
		args = append(args, "%"+strings.ToLower(f.Email)+"%")
		where = append(where, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if f.Username != "" {
		args = append(args, "%"+strings.ToLower(f.Username)+"%")
		where = append(where, fmt.Sprintf("username ILIKE $%d", len(args)))
	}
	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if f.IsVerified != nil {
		args = append(args, *f.IsVerified)
		where = append(where, fmt.Sprintf("is_verified = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page, size := normalizePage(f.Page, f.Size)
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY id ASC LIMIT $%d OFFSET $%d`,
		userColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Update applies a partial update in a single statement so uniqueness is
// re-validated by the constraints inside the same transaction as the write.
func (r *UserRepository) Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Email != nil {
		add("email", strings.ToLower(*upd.Email))
	}
	if upd.Username != nil {
		add("username", strings.ToLower(*upd.Username))
	}
	if upd.FullName != nil {
		add("full_name", nilIfEmpty(*upd.FullName))
	}
	if upd.Phone != nil {
		add("phone", nilIfEmpty(*upd.Phone))
	}
	if upd.AvatarURL != nil {
		add("avatar_url", nilIfEmpty(*upd.AvatarURL))
	}
	if upd.Bio != nil {
		add("bio", nilIfEmpty(*upd.Bio))
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.IsVerified != nil {
		add("is_verified", *upd.IsVerified)
	}
	if upd.IsSuperuser != nil {
		add("is_superuser", *upd.IsSuperuser)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, mapUserConstraint(err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

// MarkEmailVerified is monotonic; verifying an already-verified account
// fails with ErrAlreadyVerified.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		UPDATE users
		SET is_verified = TRUE, email_verified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_verified = FALSE
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, xerrors.ErrAlreadyVerified
	}
	return u, err
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrUserNotFound
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}
