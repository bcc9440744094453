package model

import "net/url"

// ContactForm is the set of form fields submitted when a contact is created or edited. The three
// contact preference fields carry the raw checkbox value: any non-empty value means "checked".
type ContactForm struct {
	FirstName      string `form:"first_name"`
	LastName       string `form:"last_name"`
	Phone          string `form:"phone"`
	Email          string `form:"email"`
	Street         string `form:"street"`
	City           string `form:"city"`
	State          string `form:"state"`
	Zip            string `form:"zip"`
	Country        string `form:"country"`
	ContactByPhone string `form:"contact_by_phone"`
	ContactByEmail string `form:"contact_by_email"`
	ContactByMail  string `form:"contact_by_mail"`
}

// Values encodes the form the way a browser would submit it. Unchecked boxes are left out.
func (f ContactForm) Values() url.Values {
	v := url.Values{}
	v.Set("first_name", f.FirstName)
	v.Set("last_name", f.LastName)
	v.Set("phone", f.Phone)
	v.Set("email", f.Email)
	v.Set("street", f.Street)
	v.Set("city", f.City)
	v.Set("state", f.State)
	v.Set("zip", f.Zip)
	v.Set("country", f.Country)
	if f.ContactByPhone != "" {
		v.Set("contact_by_phone", f.ContactByPhone)
	}
	if f.ContactByEmail != "" {
		v.Set("contact_by_email", f.ContactByEmail)
	}
	if f.ContactByMail != "" {
		v.Set("contact_by_mail", f.ContactByMail)
	}
	return v
}

// Encode returns the URL-encoded request body for the form.
func (f ContactForm) Encode() string {
	return f.Values().Encode()
}

// Checked reports whether a checkbox value counts as ticked.
func Checked(value string) bool {
	return value != ""
}

// SignUpForm holds the fields of the registration form.
type SignUpForm struct {
	FirstName            string `form:"first_name"`
	LastName             string `form:"last_name"`
	Username             string `form:"username"`
	Password             string `form:"password"`
	PasswordConfirmation string `form:"password2"`
}

// LoginForm holds the fields of the login form.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
