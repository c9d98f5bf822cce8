package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps the raw SQL statements against the outgo schema.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// ActivityRow mirrors one row of the activities table.
type ActivityRow struct {
	ID            int64
	Date          string
	Description   string
	AmountCents   int64
	Category      string
	PaymentMethod string
	UserID        int64
	Version       int64
	SyncStatus    string
	CreatedAt     time.Time
}

// UserRow mirrors one row of the users table.
type UserRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

// PendingSyncActivity is the minimal shape the sync worker needs.
type PendingSyncActivity struct {
	ID      int64
	Version int64
}

const createActivity = `
INSERT INTO activities (date, description, amount_cents, category, payment_method, user_id)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, date, description, amount_cents, category, payment_method, user_id, version, sync_status, created_at`

type CreateActivityParams struct {
	Date          string
	Description   string
	AmountCents   int64
	Category      string
	PaymentMethod string
	UserID        int64
}

func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) (ActivityRow, error) {
	row := q.db.QueryRowContext(ctx, createActivity,
		arg.Date, arg.Description, arg.AmountCents, arg.Category, arg.PaymentMethod, arg.UserID)
	return scanActivity(row)
}

const getActivity = `
SELECT id, date, description, amount_cents, category, payment_method, user_id, version, sync_status, created_at
FROM activities WHERE id = ?`

func (q *Queries) GetActivity(ctx context.Context, id int64) (ActivityRow, error) {
	return scanActivity(q.db.QueryRowContext(ctx, getActivity, id))
}

const listActivitiesByUser = `
SELECT id, date, description, amount_cents, category, payment_method, user_id, version, sync_status, created_at
FROM activities WHERE user_id = ?
ORDER BY date DESC, id DESC`

func (q *Queries) ListActivitiesByUser(ctx context.Context, userID int64) ([]ActivityRow, error) {
	rows, err := q.db.QueryContext(ctx, listActivitiesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityRow
	for rows.Next() {
		var a ActivityRow
		if err := rows.Scan(&a.ID, &a.Date, &a.Description, &a.AmountCents,
			&a.Category, &a.PaymentMethod, &a.UserID, &a.Version, &a.SyncStatus, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const updateActivity = `
UPDATE activities
SET date = ?, description = ?, amount_cents = ?, category = ?, payment_method = ?,
    version = version + 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND user_id = ?
RETURNING id, date, description, amount_cents, category, payment_method, user_id, version, sync_status, created_at`

type UpdateActivityParams struct {
	ID            int64
	Date          string
	Description   string
	AmountCents   int64
	Category      string
	PaymentMethod string
	UserID        int64
}

func (q *Queries) UpdateActivity(ctx context.Context, arg UpdateActivityParams) (ActivityRow, error) {
	row := q.db.QueryRowContext(ctx, updateActivity,
		arg.Date, arg.Description, arg.AmountCents, arg.Category, arg.PaymentMethod,
		arg.ID, arg.UserID)
	return scanActivity(row)
}

const deleteActivity = `DELETE FROM activities WHERE id = ? AND user_id = ?`

func (q *Queries) DeleteActivity(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteActivity, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listCategories = `SELECT name FROM categories ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	return q.listNames(ctx, listCategories)
}

const upsertCategory = `INSERT INTO categories (name) VALUES (?) ON CONFLICT (name) DO NOTHING`

func (q *Queries) UpsertCategory(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, upsertCategory, name)
	return err
}

const listPaymentMethodsForUser = `
SELECT name FROM payment_methods
WHERE user_id IS NULL OR user_id = ?
ORDER BY name`

func (q *Queries) ListPaymentMethodsForUser(ctx context.Context, userID int64) ([]string, error) {
	return q.listNames(ctx, listPaymentMethodsForUser, userID)
}

const upsertUserPaymentMethod = `
INSERT INTO payment_methods (name, user_id) VALUES (?, ?)
ON CONFLICT (name, user_id) DO NOTHING`

// Shared rows have a NULL owner, which (name, user_id) uniqueness does not
// cover; the conflict target is the partial index on shared names.
const upsertSharedPaymentMethod = `
INSERT INTO payment_methods (name, user_id) VALUES (?, NULL)
ON CONFLICT (name) WHERE user_id IS NULL DO NOTHING`

// UpsertPaymentMethod stores a method scoped to userID; a NULL owner marks a
// shared method.
func (q *Queries) UpsertPaymentMethod(ctx context.Context, name string, userID sql.NullInt64) error {
	if !userID.Valid {
		_, err := q.db.ExecContext(ctx, upsertSharedPaymentMethod, name)
		return err
	}
	_, err := q.db.ExecContext(ctx, upsertUserPaymentMethod, name, userID)
	return err
}

const countActivitiesByPaymentMethod = `SELECT COUNT(*) FROM activities WHERE payment_method = ?`

func (q *Queries) CountActivitiesByPaymentMethod(ctx context.Context, name string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countActivitiesByPaymentMethod, name).Scan(&n)
	return n, err
}

const listAllPaymentMethods = `SELECT name FROM payment_methods ORDER BY name`

func (q *Queries) ListAllPaymentMethods(ctx context.Context) ([]string, error) {
	return q.listNames(ctx, listAllPaymentMethods)
}

const deletePaymentMethodByName = `DELETE FROM payment_methods WHERE name = ?`

func (q *Queries) DeletePaymentMethodByName(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, deletePaymentMethodByName, name)
	return err
}

const getUserByEmail = `SELECT id, name, email, password_hash FROM users WHERE email = ?`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	var u UserRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	return u, err
}

const getUserByName = `SELECT id, name, email, password_hash FROM users WHERE name = ?`

func (q *Queries) GetUserByName(ctx context.Context, name string) (UserRow, error) {
	var u UserRow
	err := q.db.QueryRowContext(ctx, getUserByName, name).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	return u, err
}

const createUser = `
INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)
RETURNING id, name, email, password_hash`

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (UserRow, error) {
	var u UserRow
	err := q.db.QueryRowContext(ctx, createUser, arg.Name, arg.Email, arg.PasswordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	return u, err
}

const getPendingSyncActivities = `
SELECT id, version FROM activities
WHERE sync_status = 'pending'
ORDER BY id
LIMIT ?`

func (q *Queries) GetPendingSyncActivities(ctx context.Context, limit int64) ([]PendingSyncActivity, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncActivities, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingSyncActivity
	for rows.Next() {
		var p PendingSyncActivity
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const markActivitySynced = `UPDATE activities SET sync_status = 'synced' WHERE id = ?`

func (q *Queries) MarkActivitySynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markActivitySynced, id)
	return err
}

const markActivitySyncError = `UPDATE activities SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkActivitySyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markActivitySyncError, id)
	return err
}

func (q *Queries) listNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func scanActivity(row *sql.Row) (ActivityRow, error) {
	var a ActivityRow
	err := row.Scan(&a.ID, &a.Date, &a.Description, &a.AmountCents,
		&a.Category, &a.PaymentMethod, &a.UserID, &a.Version, &a.SyncStatus, &a.CreatedAt)
	return a, err
}
