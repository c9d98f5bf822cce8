package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"outgo/internal/core"
	"outgo/internal/store"
)

// SQLiteRepository implements store.Store on top of a single sqlite file.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// NewSQLiteRepository opens the database, applies pending migrations and
// returns a ready repository.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping reports whether the underlying database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListActivities(ctx context.Context, userID int64) ([]core.Activity, error) {
	rows, err := r.queries.ListActivitiesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	out := make([]core.Activity, 0, len(rows))
	for _, row := range rows {
		a, err := activityFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id int64) (core.Activity, error) {
	row, err := r.queries.GetActivity(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Activity{}, store.ErrNotFound
	}
	if err != nil {
		return core.Activity{}, fmt.Errorf("getting activity %d: %w", id, err)
	}
	return activityFromRow(row)
}

func (r *SQLiteRepository) InsertActivity(ctx context.Context, a core.Activity) (core.Activity, error) {
	row, err := r.queries.CreateActivity(ctx, CreateActivityParams{
		Date:          a.Date.String(),
		Description:   a.Description,
		AmountCents:   a.Amount.Cents,
		Category:      a.Category,
		PaymentMethod: a.PaymentMethod,
		UserID:        a.UserID,
	})
	if err != nil {
		return core.Activity{}, fmt.Errorf("inserting activity: %w", err)
	}
	return activityFromRow(row)
}

func (r *SQLiteRepository) UpdateActivity(ctx context.Context, a core.Activity) (core.Activity, error) {
	row, err := r.queries.UpdateActivity(ctx, UpdateActivityParams{
		ID:            a.ID,
		Date:          a.Date.String(),
		Description:   a.Description,
		AmountCents:   a.Amount.Cents,
		Category:      a.Category,
		PaymentMethod: a.PaymentMethod,
		UserID:        a.UserID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Activity{}, store.ErrNotFound
	}
	if err != nil {
		return core.Activity{}, fmt.Errorf("updating activity %d: %w", a.ID, err)
	}
	return activityFromRow(row)
}

func (r *SQLiteRepository) DeleteActivity(ctx context.Context, id, userID int64) error {
	affected, err := r.queries.DeleteActivity(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("deleting activity %d: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("getting user by email: %w", err)
	}
	return userFromRow(row), nil
}

func (r *SQLiteRepository) UserByName(ctx context.Context, name string) (core.User, error) {
	row, err := r.queries.GetUserByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("getting user by name: %w", err)
	}
	return userFromRow(row), nil
}

func (r *SQLiteRepository) InsertUser(ctx context.Context, u core.User) (core.User, error) {
	row, err := r.queries.CreateUser(ctx, CreateUserParams{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	})
	if err != nil {
		return core.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return userFromRow(row), nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return names, nil
}

func (r *SQLiteRepository) ListPaymentMethods(ctx context.Context, userID int64) ([]string, error) {
	names, err := r.queries.ListPaymentMethodsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return names, nil
}

func (r *SQLiteRepository) UpsertCategory(ctx context.Context, name string) error {
	if err := r.queries.UpsertCategory(ctx, name); err != nil {
		return fmt.Errorf("upserting category %q: %w", name, err)
	}
	return nil
}

// UpsertPaymentMethod scopes the method to userID; userID 0 stores it as
// shared.
func (r *SQLiteRepository) UpsertPaymentMethod(ctx context.Context, name string, userID int64) error {
	owner := sql.NullInt64{Int64: userID, Valid: userID != 0}
	if err := r.queries.UpsertPaymentMethod(ctx, name, owner); err != nil {
		return fmt.Errorf("upserting payment method %q: %w", name, err)
	}
	return nil
}

// GetPendingSyncActivities returns ids and versions of records still waiting
// for ledger export.
func (r *SQLiteRepository) GetPendingSyncActivities(ctx context.Context, limit int) ([]PendingSyncActivity, error) {
	pending, err := r.queries.GetPendingSyncActivities(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing pending sync activities: %w", err)
	}
	return pending, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkActivitySynced(ctx, id); err != nil {
		return fmt.Errorf("marking activity %d synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkActivitySyncError(ctx, id); err != nil {
		return fmt.Errorf("marking activity %d errored: %w", id, err)
	}
	return nil
}

// UnusedPaymentMethods returns the methods no activity references.
func (r *SQLiteRepository) UnusedPaymentMethods(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListAllPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}

	var unused []string
	for _, name := range names {
		count, err := r.queries.CountActivitiesByPaymentMethod(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("counting activities for %q: %w", name, err)
		}
		if count == 0 {
			unused = append(unused, name)
		}
	}
	return unused, nil
}

func (r *SQLiteRepository) DeletePaymentMethod(ctx context.Context, name string) error {
	if err := r.queries.DeletePaymentMethodByName(ctx, name); err != nil {
		return fmt.Errorf("deleting payment method %q: %w", name, err)
	}
	return nil
}

func activityFromRow(row ActivityRow) (core.Activity, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Activity{}, fmt.Errorf("activity %d has malformed date %q: %w", row.ID, row.Date, err)
	}
	return core.Activity{
		ID:            row.ID,
		Date:          date,
		Description:   row.Description,
		Amount:        core.Money{Cents: row.AmountCents},
		Category:      row.Category,
		PaymentMethod: row.PaymentMethod,
		UserID:        row.UserID,
	}, nil
}

func userFromRow(row UserRow) core.User {
	return core.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
	}
}
