package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// ContactRepository gives typed access to the contacts table.
type ContactRepository interface {
	FindAll(ctx context.Context) ([]model.Contact, error)
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id int64) error
}

// contactRow is the database representation of a contact. The preference flags are stored as
// 0/1 integers.
type contactRow struct {
	Id             int64   `db:"id"`
	FirstName      string  `db:"first_name"`
	LastName       string  `db:"last_name"`
	Phone          string  `db:"phone"`
	Email          string  `db:"email"`
	Street         string  `db:"street"`
	City           string  `db:"city"`
	State          string  `db:"state"`
	Zip            string  `db:"zip"`
	Country        string  `db:"country"`
	ContactByPhone int     `db:"contact_by_phone"`
	ContactByEmail int     `db:"contact_by_email"`
	ContactByMail  int     `db:"contact_by_mail"`
	Latitude       float64 `db:"latitude"`
	Longitude      float64 `db:"longitude"`
}

func toContactRow(c *model.Contact) contactRow {
	return contactRow{
		Id:             c.Id,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		Email:          c.Email,
		Street:         c.Street,
		City:           c.City,
		State:          c.State,
		Zip:            c.Zip,
		Country:        c.Country,
		ContactByPhone: boolToInt(c.ContactByPhone),
		ContactByEmail: boolToInt(c.ContactByEmail),
		ContactByMail:  boolToInt(c.ContactByMail),
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
	}
}

func (r contactRow) toModel() model.Contact {
	return model.Contact{
		Id:             r.Id,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		Email:          r.Email,
		Street:         r.Street,
		City:           r.City,
		State:          r.State,
		Zip:            r.Zip,
		Country:        r.Country,
		ContactByPhone: r.ContactByPhone != 0,
		ContactByEmail: r.ContactByEmail != 0,
		ContactByMail:  r.ContactByMail != 0,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

// SQLContactRepository implements ContactRepository with prepared statements.
type SQLContactRepository struct {
	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt
	// selectAll is a prepared statement for listing all contacts.
	selectAll *sqlx.Stmt
	// selectWhereId is a prepared statement for selecting contacts with a given id.
	selectWhereId *sqlx.Stmt
	// updateWhereId is a prepared statement for overwriting all fields of a contact.
	updateWhereId *sqlx.NamedStmt
	// deleteWhereId is a prepared statement for deleting a contact with a given id.
	deleteWhereId *sqlx.Stmt
}

// NewContactRepository prepares all statements on the given database. The database can be a real
// database for production use or a mock database within unit tests.
func NewContactRepository(db *sqlx.DB) (*SQLContactRepository, error) {
	var r SQLContactRepository
	var err error
	r.insert, err = db.PrepareNamed(`
		INSERT INTO contacts (first_name, last_name, phone, email, street, city, state, zip, country,
			contact_by_phone, contact_by_email, contact_by_mail, latitude, longitude)
		VALUES (:first_name, :last_name, :phone, :email, :street, :city, :state, :zip, :country,
			:contact_by_phone, :contact_by_email, :contact_by_mail, :latitude, :longitude)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare contact insert")
	}
	r.selectAll, err = db.Preparex(`
		SELECT * FROM contacts ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare contact select")
	}
	r.selectWhereId, err = db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare contact select by id")
	}
	r.updateWhereId, err = db.PrepareNamed(`
		UPDATE contacts SET first_name = :first_name, last_name = :last_name, phone = :phone,
			email = :email, street = :street, city = :city, state = :state, zip = :zip,
			country = :country, contact_by_phone = :contact_by_phone,
			contact_by_email = :contact_by_email, contact_by_mail = :contact_by_mail,
			latitude = :latitude, longitude = :longitude
		WHERE id = :id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare contact update")
	}
	r.deleteWhereId, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare contact delete")
	}
	return &r, nil
}

// FindAll returns every contact ordered by id.
func (r *SQLContactRepository) FindAll(ctx context.Context) ([]model.Contact, error) {
	var rows []contactRow
	if err := r.selectAll.SelectContext(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "select contacts")
	}
	contacts := make([]model.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toModel())
	}
	return contacts, nil
}

// FindByID returns the contact with the given id or ErrNotFound.
func (r *SQLContactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	var rows []contactRow
	if err := r.selectWhereId.SelectContext(ctx, &rows, id); err != nil {
		return nil, errors.Wrapf(err, "select contact %d", id)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	contact := rows[0].toModel()
	return &contact, nil
}

// Create inserts the contact and sets its newly assigned id.
func (r *SQLContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	result, err := r.insert.ExecContext(ctx, toContactRow(contact))
	if err != nil {
		return errors.Wrap(err, "insert contact")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "read contact id")
	}
	contact.Id = id
	return nil
}

// Update overwrites every field of the contact with the same id. It returns ErrNotFound if there
// is no such contact.
func (r *SQLContactRepository) Update(ctx context.Context, contact *model.Contact) error {
	result, err := r.updateWhereId.ExecContext(ctx, toContactRow(contact))
	if err != nil {
		return errors.Wrapf(err, "update contact %d", contact.Id)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the contact with the given id. Deleting a missing contact is not an error.
func (r *SQLContactRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.deleteWhereId.ExecContext(ctx, id); err != nil {
		return errors.Wrapf(err, "delete contact %d", id)
	}
	return nil
}
