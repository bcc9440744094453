package model

// User is an account that can log in to the contact book. The Password field holds the bcrypt
// digest, never the plaintext.
type User struct {
	Id        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Contact is the data structure for a person that we know. Latitude and Longitude are never
// supplied by the user; they are taken from the geocoded address whenever the contact is saved.
type Contact struct {
	Id             int64   `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Street         string  `json:"street"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Zip            string  `json:"zip"`
	Country        string  `json:"country"`
	ContactByPhone bool    `json:"contact_by_phone"`
	ContactByEmail bool    `json:"contact_by_email"`
	ContactByMail  bool    `json:"contact_by_mail"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// FullName joins first and last name for display.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
