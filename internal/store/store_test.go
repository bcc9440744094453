package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

var contactColumns = []string{
	"id", "first_name", "last_name", "phone", "email", "street", "city", "state", "zip", "country",
	"contact_by_phone", "contact_by_email", "contact_by_mail", "latitude", "longitude",
}

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectContactStatements instructs the mock object to expect that the contact statements are
// being prepared.
func expectContactStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT \\* FROM contacts ORDER BY id")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE id = ?")
	mock.ExpectPrepare("UPDATE contacts SET")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id = ?")
}

// expectUserStatements instructs the mock object to expect that the user statements are being
// prepared.
func expectUserStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO users")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE username = ?")
}

func newContactRepository(t *testing.T, db *sql.DB) *SQLContactRepository {
	repo, err := NewContactRepository(sqlx.NewDb(db, "mysql"))
	require.NoError(t, err)
	return repo
}

func newUserRepository(t *testing.T, db *sql.DB) *SQLUserRepository {
	repo, err := NewUserRepository(sqlx.NewDb(db, "mysql"))
	require.NoError(t, err)
	return repo
}

func springfield() model.Contact {
	return model.Contact{
		FirstName:      "Bob",
		LastName:       "Lee",
		Phone:          "555-0100",
		Email:          "bob@example.com",
		Street:         "1 Main St",
		City:           "Springfield",
		State:          "IL",
		Zip:            "62704",
		Country:        "US",
		ContactByPhone: true,
		ContactByMail:  true,
		Latitude:       39.8,
		Longitude:      -89.6,
	}
}

// TestFindAllContacts expects that all rows are returned with their flags decoded to booleans.
func TestFindAllContacts(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	rows := mock.NewRows(contactColumns).
		AddRow(1, "Bob", "Lee", "555-0100", "bob@example.com", "1 Main St", "Springfield", "IL", "62704", "US", 1, 0, 1, 39.8, -89.6).
		AddRow(2, "Erika", "Mustermann", "", "", "", "Berlin", "", "", "DE", 0, 1, 0, 52.5, 13.4)
	mock.ExpectQuery("SELECT \\* FROM contacts ORDER BY id").WillReturnRows(rows)

	contacts, err := newContactRepository(t, db).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	expected := springfield()
	expected.Id = 1
	assert.Equal(t, expected, contacts[0])
	assert.Equal(t, "Erika", contacts[1].FirstName)
	assert.False(t, contacts[1].ContactByPhone)
	assert.True(t, contacts[1].ContactByEmail)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestFindAllContactsEmpty expects an empty, non-nil slice when the table is empty.
func TestFindAllContactsEmpty(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectQuery("SELECT \\* FROM contacts ORDER BY id").WillReturnRows(mock.NewRows(contactColumns))

	contacts, err := newContactRepository(t, db).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestFindContactByID(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	rows := mock.NewRows(contactColumns).
		AddRow(29, "Bob", "Lee", "555-0100", "bob@example.com", "1 Main St", "Springfield", "IL", "62704", "US", 1, 0, 1, 39.8, -89.6)
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id = ?").WithArgs(29).WillReturnRows(rows)

	contact, err := newContactRepository(t, db).FindByID(context.Background(), 29)
	require.NoError(t, err)
	assert.Equal(t, int64(29), contact.Id)
	assert.Equal(t, "Springfield", contact.City)
	assert.True(t, contact.ContactByMail)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestFindContactByIDNotFound(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id = ?").WithArgs(9999).WillReturnRows(mock.NewRows(contactColumns))

	_, err := newContactRepository(t, db).FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCreateContact expects that the flags are encoded as 0/1 and the new id is set.
func TestCreateContact(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectExec("INSERT INTO contacts").
		WithArgs("Bob", "Lee", "555-0100", "bob@example.com", "1 Main St", "Springfield", "IL", "62704", "US",
			1, 0, 1, 39.8, -89.6).
		WillReturnResult(sqlmock.NewResult(42, 1))

	contact := springfield()
	err := newContactRepository(t, db).Create(context.Background(), &contact)
	require.NoError(t, err)
	assert.Equal(t, int64(42), contact.Id)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateContactDatabaseError(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("db down"))

	contact := springfield()
	err := newContactRepository(t, db).Create(context.Background(), &contact)
	assert.EqualError(t, err, "insert contact: db down")
	assert.Equal(t, int64(0), contact.Id)
}

// TestUpdateContact expects that every column is overwritten and the id is the last argument.
func TestUpdateContact(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectExec("UPDATE contacts SET").
		WithArgs("Bob", "Lee", "555-0100", "bob@example.com", "1 Main St", "Springfield", "IL", "62704", "US",
			1, 0, 1, 39.8, -89.6, 17).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	contact := springfield()
	contact.Id = 17
	err := newContactRepository(t, db).Update(context.Background(), &contact)
	assert.NoError(t, err)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestUpdateContactNotFound(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectExec("UPDATE contacts SET").WillReturnResult(sqlmock.NewResult(-1, 0))

	contact := springfield()
	contact.Id = 9999
	err := newContactRepository(t, db).Update(context.Background(), &contact)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestDeleteContact expects that deleting succeeds whether or not a row was removed.
func TestDeleteContact(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectContactStatements(mock)
	mock.ExpectExec("DELETE FROM contacts").WithArgs(42).WillReturnResult(sqlmock.NewResult(-1, 1))
	mock.ExpectExec("DELETE FROM contacts").WithArgs(9999).WillReturnResult(sqlmock.NewResult(-1, 0))

	repo := newContactRepository(t, db)
	assert.NoError(t, repo.Delete(context.Background(), 42))
	assert.NoError(t, repo.Delete(context.Background(), 9999))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestFindUserByUsername(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectUserStatements(mock)
	rows := mock.NewRows([]string{"id", "first_name", "last_name", "username", "password"}).
		AddRow(3, "Alice", "Smith", "alice", "$2a$10$hash")
	mock.ExpectQuery("SELECT \\* FROM users WHERE username = ?").WithArgs("alice").WillReturnRows(rows)

	user, err := newUserRepository(t, db).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &model.User{Id: 3, FirstName: "Alice", LastName: "Smith", Username: "alice", Password: "$2a$10$hash"}, user)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestFindUserByUsernameNotFound(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectUserStatements(mock)
	mock.ExpectQuery("SELECT \\* FROM users WHERE username = ?").WithArgs("ghost").
		WillReturnRows(mock.NewRows([]string{"id", "first_name", "last_name", "username", "password"}))

	_, err := newUserRepository(t, db).FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	expectUserStatements(mock)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Alice", "Smith", "alice", "$2a$10$hash").
		WillReturnResult(sqlmock.NewResult(5, 1))

	user := model.User{FirstName: "Alice", LastName: "Smith", Username: "alice", Password: "$2a$10$hash"}
	err := newUserRepository(t, db).Create(context.Background(), &user)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.Id)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestDialect(t *testing.T) {
	db, _ := createMockObjects(t)
	defer db.Close()

	assert.Equal(t, DriverMySQL, Dialect(sqlx.NewDb(db, "mysql")))
	assert.Equal(t, DriverSQLite, Dialect(sqlx.NewDb(db, "sqlite3")))
}
