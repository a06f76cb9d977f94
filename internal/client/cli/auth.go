package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account via the AuthService.
//
// On success it prints "Success! You can now log in." and returns nil. Any
// I/O or service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, userName, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now log in.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success the session token is held in memory and used for every subsequent
// API call.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, userName, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	return nil
}

// Logout discards the in-memory session.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	fmt.Println("Logged out")
	return nil
}

// Health probes the backend health endpoint and reports the outcome.
func (a *App) Health(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		log.Printf("Server unavailable: %s", err.Error())
		return err
	}
	fmt.Println("Server is up")
	return nil
}
