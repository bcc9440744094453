package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"gitlab.com/dirk.krummacker/contact-book/internal/auth"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// Usage example on the command line:
// > DBUSER=dirk DBPWD=bullo92 go run ./cmd/useradd -username=alice -first=Alice -last=Smith
func main() {
	usernamePtr := flag.String("username", "", "the login name of the new user")
	firstPtr := flag.String("first", "", "the first name of the new user")
	lastPtr := flag.String("last", "", "the last name of the new user")
	flag.Parse()
	if *usernamePtr == "" {
		fmt.Fprintln(os.Stderr, "the -username flag is required")
		os.Exit(2)
	}

	password, err := readPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	db, err := store.CreateDatabase(cfg)
	if err != nil {
		slog.Error("could not open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	users, err := store.NewUserRepository(db)
	if err != nil {
		slog.Error("could not prepare statements", "error", err)
		os.Exit(1)
	}

	user, err := auth.NewService(users, auth.NewBcryptHasher(cfg.BcryptCost)).SignUp(context.Background(), auth.SignUpInput{
		FirstName:            *firstPtr,
		LastName:             *lastPtr,
		Username:             *usernamePtr,
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		slog.Error("could not create user", "username", *usernamePtr, "error", err)
		db.Close()
		os.Exit(1)
	}
	fmt.Printf("created user %s with id %d\n", user.Username, user.Id)
}

// readPassword asks twice for the password without echoing it.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
