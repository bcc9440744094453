package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// UserRepository gives typed access to the users table.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

type userRow struct {
	Id        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Username  string `db:"username"`
	Password  string `db:"password"`
}

// SQLUserRepository implements UserRepository with prepared statements.
type SQLUserRepository struct {
	insert              *sqlx.NamedStmt
	selectWhereUsername *sqlx.Stmt
}

// NewUserRepository prepares all statements on the given database.
func NewUserRepository(db *sqlx.DB) (*SQLUserRepository, error) {
	var r SQLUserRepository
	var err error
	r.insert, err = db.PrepareNamed(`
		INSERT INTO users (first_name, last_name, username, password)
		VALUES (:first_name, :last_name, :username, :password)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare user insert")
	}
	r.selectWhereUsername, err = db.Preparex(`
		SELECT * FROM users WHERE username = ?
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare user select by username")
	}
	return &r, nil
}

// FindByUsername returns the user with exactly this username or ErrNotFound.
func (r *SQLUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var rows []userRow
	if err := r.selectWhereUsername.SelectContext(ctx, &rows, username); err != nil {
		return nil, errors.Wrapf(err, "select user %q", username)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	row := rows[0]
	return &model.User{
		Id:        row.Id,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Username:  row.Username,
		Password:  row.Password,
	}, nil
}

// Create inserts the user and sets its newly assigned id.
func (r *SQLUserRepository) Create(ctx context.Context, user *model.User) error {
	result, err := r.insert.ExecContext(ctx, userRow{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Password:  user.Password,
	})
	if err != nil {
		return errors.Wrap(err, "insert user")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read user id")
	}
	user.Id = id
	return nil
}
