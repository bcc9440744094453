// Package contacts implements the address book: listing, viewing, creating, editing and deleting
// contacts. Every create and edit geocodes the contact's address, a contact whose address cannot
// be found is never stored.
package contacts

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
	"gitlab.com/dirk.krummacker/contact-book/internal/geocode"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	pubmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// Input holds the user supplied fields of a contact.
type Input struct {
	FirstName      string `validate:"notblank"`
	LastName       string `validate:"notblank"`
	Phone          string
	Email          string
	Street         string
	City           string
	State          string
	Zip            string
	Country        string
	ContactByPhone bool
	ContactByEmail bool
	ContactByMail  bool
}

// InputFromForm converts a submitted form. A preference box counts as checked when the browser
// sent any value for it.
func InputFromForm(f pubmodel.ContactForm) Input {
	return Input{
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Phone:          f.Phone,
		Email:          f.Email,
		Street:         f.Street,
		City:           f.City,
		State:          f.State,
		Zip:            f.Zip,
		Country:        f.Country,
		ContactByPhone: pubmodel.Checked(f.ContactByPhone),
		ContactByEmail: pubmodel.Checked(f.ContactByEmail),
		ContactByMail:  pubmodel.Checked(f.ContactByMail),
	}
}

// FormFromContact fills a form with the stored values of a contact.
func FormFromContact(c model.Contact) pubmodel.ContactForm {
	return pubmodel.ContactForm{
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		Email:          c.Email,
		Street:         c.Street,
		City:           c.City,
		State:          c.State,
		Zip:            c.Zip,
		Country:        c.Country,
		ContactByPhone: checkbox(c.ContactByPhone),
		ContactByEmail: checkbox(c.ContactByEmail),
		ContactByMail:  checkbox(c.ContactByMail),
	}
}

func checkbox(checked bool) string {
	if checked {
		return "on"
	}
	return ""
}

// Address is the single-line address that gets geocoded.
func (in Input) Address() string {
	return geocode.ComposeAddress(in.Street, in.City, in.State, in.Zip, in.Country)
}

// Service implements the contact workflows.
type Service struct {
	contacts store.ContactRepository
	geocoder geocode.Geocoder
	validate *validator.Validate
}

// NewService creates the contact service.
func NewService(contacts store.ContactRepository, geocoder geocode.Geocoder) *Service {
	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Service{contacts: contacts, geocoder: geocoder, validate: validate}
}

// List returns all contacts.
func (s *Service) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.contacts.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}
	return contacts, nil
}

// Get returns a single contact or apperr.ErrContactNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*model.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrContactNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get contact")
	}
	return contact, nil
}

// Create validates, geocodes and stores a new contact.
func (s *Service) Create(ctx context.Context, in Input) (*model.Contact, error) {
	contact, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, errors.Wrap(err, "create contact")
	}
	return contact, nil
}

// Edit validates and geocodes the input and then overwrites all fields of the contact with the
// given id.
func (s *Service) Edit(ctx context.Context, id int64, in Input) (*model.Contact, error) {
	contact, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	contact.Id = id
	err = s.contacts.Update(ctx, contact)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrContactNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "edit contact")
	}
	return contact, nil
}

// Delete removes the contact with the given id. A missing contact is not reported.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete contact")
	}
	return nil
}

// prepare checks the input and attaches the coordinates of the first geocode candidate.
func (s *Service) prepare(ctx context.Context, in Input) (*model.Contact, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.ErrNameRequired
	}
	candidates, err := s.geocoder.Geocode(ctx, in.Address())
	if err != nil {
		return nil, errors.Wrap(err, "geocode address")
	}
	if len(candidates) == 0 {
		return nil, apperr.ErrAddressNotFound
	}
	return &model.Contact{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		Email:          in.Email,
		Street:         in.Street,
		City:           in.City,
		State:          in.State,
		Zip:            in.Zip,
		Country:        in.Country,
		ContactByPhone: in.ContactByPhone,
		ContactByEmail: in.ContactByEmail,
		ContactByMail:  in.ContactByMail,
		Latitude:       candidates[0].Latitude(),
		Longitude:      candidates[0].Longitude(),
	}, nil
}
