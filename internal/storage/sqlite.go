package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/garage/internal/filex"
	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage/migrations"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	_ "modernc.org/sqlite"
)

// SQLite is the durable backend on a local sqlite database file. The schema
// is brought up to date with goose on every Connect. Each mutation commits
// before returning.
type SQLite struct {
	mu    sync.RWMutex
	state ConnState
	path  string
	db    *sql.DB
	log   logging.Logger
}

func NewSQLite(path string, log logging.Logger) *SQLite {
	if log == nil {
		log = logging.Discard()
	}
	return &SQLite{path: path, log: log.With("path", path)}
}

func (s *SQLite) dsn() string {
	return "file:" + s.path + "?_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
}

func (s *SQLite) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Connected {
		return nil
	}

	db, err := s.open(ctx)
	if err != nil {
		s.state = Failed
		s.log.Error(ctx, "sqlite connect failed", "error", err)
		return opError("connect", s.path, ErrConnectionFailed, err)
	}

	s.db = db
	s.state = Connected
	s.log.Debug(ctx, "storage connected")
	return nil
}

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	if err := filex.EnsureParentDir(s.path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// one writer; sqlite serialises anyway and this keeps pragmas per-connection simple
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(database.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

func (s *SQLite) Disconnect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn(ctx, "sqlite close failed", "error", err)
		} else {
			s.log.Debug(ctx, "storage disconnected")
		}
	}
	s.db = nil
	s.state = Disconnected
}

func (s *SQLite) State() ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// conn runs fn while holding the handle's read lock so Disconnect cannot
// close the database underneath it.
func (s *SQLite) conn(op, key string, fn func(db *sql.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Connected {
		return opError(op, key, ErrNotConnected, nil)
	}
	return fn(s.db)
}

// withTx commits when fn succeeds and rolls back otherwise, re-panicking
// after a rollback if fn panics.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}

func dbError(op, key string, err error) error {
	var se *Error
	if errors.As(err, &se) || errors.Is(err, models.ErrInvalidUser) ||
		errors.Is(err, models.ErrInvalidPassword) || errors.Is(err, models.ErrInvalidCategory) {
		return err
	}
	return opError(op, key, ErrConnectionFailed, err)
}

const userColumns = `id, password_hash, first_name, last_name, phone, zoom_level, home_lat, home_lng, role`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		r        userRecord
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&r.ID, &r.PasswordHash, &r.FirstName, &r.LastName, &r.Phone, &r.ZoomLevel, &lat, &lng, &r.Role); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		r.Home = &models.GeoPoint{Lat: lat.Float64, Lng: lng.Float64}
	}
	return fromRecord(r)
}

func homeArgs(u *models.User) (sql.NullFloat64, sql.NullFloat64) {
	if u.Home == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: u.Home.Lat, Valid: true}, sql.NullFloat64{Float64: u.Home.Lng, Valid: true}
}

func (s *SQLite) ListUsers(ctx context.Context) (users []*models.User, err error) {
	err = s.conn("list users", "", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
		if err != nil {
			return dbError("list users", "", err)
		}
		defer rows.Close()

		users = []*models.User{}
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return dbError("list users", "", err)
			}
			users = append(users, u)
		}
		if err := rows.Err(); err != nil {
			return dbError("list users", "", err)
		}
		return nil
	})
	return users, err
}

func (s *SQLite) GetUser(ctx context.Context, id string) (u *models.User, err error) {
	err = s.conn("get user", id, func(db *sql.DB) error {
		u, err = scanUser(db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return opError("get user", id, ErrNotFound, nil)
		}
		if err != nil {
			return dbError("get user", id, err)
		}
		return nil
	})
	return u, err
}

func (s *SQLite) AddUser(ctx context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.conn("add user", u.ID, func(db *sql.DB) error {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			exists, err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, u.ID)
			if err != nil {
				return err
			}
			if exists {
				return opError("add user", u.ID, ErrDuplicateKey, nil)
			}
			lat, lng := homeArgs(u)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				u.ID, u.PasswordHash(), u.FirstName, u.LastName, u.Phone, u.ZoomLevel, lat, lng, string(u.Role))
			return err
		})
		if err != nil {
			return dbError("add user", u.ID, err)
		}
		return nil
	})
}

func (s *SQLite) UpdateUser(ctx context.Context, u *models.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.conn("update user", u.ID, func(db *sql.DB) error {
		lat, lng := homeArgs(u)
		res, err := db.ExecContext(ctx,
			`UPDATE users SET password_hash = ?, first_name = ?, last_name = ?, phone = ?,
			        zoom_level = ?, home_lat = ?, home_lng = ?, role = ?
			 WHERE id = ?`,
			u.PasswordHash(), u.FirstName, u.LastName, u.Phone, u.ZoomLevel, lat, lng, string(u.Role), u.ID)
		return affectedOne(res, err, "update user", u.ID)
	})
}

func (s *SQLite) DeleteUser(ctx context.Context, id string) error {
	return s.conn("delete user", id, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		return affectedOne(res, err, "delete user", id)
	})
}

func (s *SQLite) ListCategories(ctx context.Context) (cats []models.Category, err error) {
	err = s.conn("list categories", "", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name`)
		if err != nil {
			return dbError("list categories", "", err)
		}
		defer rows.Close()

		cats = []models.Category{}
		for rows.Next() {
			var c models.Category
			if err := rows.Scan(&c.Name); err != nil {
				return dbError("list categories", "", err)
			}
			cats = append(cats, c)
		}
		if err := rows.Err(); err != nil {
			return dbError("list categories", "", err)
		}
		return nil
	})
	return cats, err
}

func (s *SQLite) AddCategory(ctx context.Context, c models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.conn("add category", c.Name, func(db *sql.DB) error {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			exists, err := rowExists(ctx, tx, `SELECT 1 FROM categories WHERE name = ?`, c.Name)
			if err != nil {
				return err
			}
			if exists {
				return opError("add category", c.Name, ErrDuplicateKey, nil)
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, c.Name)
			return err
		})
		if err != nil {
			return dbError("add category", c.Name, err)
		}
		return nil
	})
}

func (s *SQLite) UpdateCategory(ctx context.Context, name string, c models.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.conn("update category", name, func(db *sql.DB) error {
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			exists, err := rowExists(ctx, tx, `SELECT 1 FROM categories WHERE name = ?`, name)
			if err != nil {
				return err
			}
			if !exists {
				return opError("update category", name, ErrNotFound, nil)
			}
			if c.Name != name {
				taken, err := rowExists(ctx, tx, `SELECT 1 FROM categories WHERE name = ?`, c.Name)
				if err != nil {
					return err
				}
				if taken {
					return opError("update category", c.Name, ErrDuplicateKey, nil)
				}
			}
			_, err = tx.ExecContext(ctx, `UPDATE categories SET name = ? WHERE name = ?`, c.Name, name)
			return err
		})
		if err != nil {
			return dbError("update category", name, err)
		}
		return nil
	})
}

func (s *SQLite) DeleteCategory(ctx context.Context, name string) error {
	return s.conn("delete category", name, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
		return affectedOne(res, err, "delete category", name)
	})
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func affectedOne(res sql.Result, err error, op, key string) error {
	if err != nil {
		return dbError(op, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(op, key, err)
	}
	if n == 0 {
		return opError(op, key, ErrNotFound, nil)
	}
	return nil
}
