package app

import (
	"context"
	"fmt"
	"os"
)

// Login reads a session token, validates it and stores it as the active
// session. The provider's change notification enables the sync engine.
func (a *App) Login(ctx context.Context) error {
	token, err := GetToken(a.reader, os.Stdout)
	if err != nil {
		fmt.Println("Could not read token:", err)
		return err
	}
	if token == "" {
		fmt.Println("Empty token, still logged out.")
		return nil
	}

	id, err := a.session.Login(ctx, token)
	if err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	who := id.UserID
	if id.Email != "" {
		who = id.Email
	}
	fmt.Printf("Logged in as %s. Sync is on.\n", who)
	return nil
}

// Logout removes the stored session. The engine goes dormant through the
// provider's change notification; local data stays on disk.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Logged out. Sync is off, local data kept.")
	return nil
}

// Status prints the session, the active year and the sync engine state.
func (a *App) Status(ctx context.Context) error {
	if id := a.currentIdentity(); id != nil {
		fmt.Printf("user:        %s\n", id.UserID)
		if id.Email != "" {
			fmt.Printf("email:       %s\n", id.Email)
		}
	} else {
		fmt.Println("user:        (not logged in)")
	}

	fmt.Printf("year:        %d\n", a.canvas.Year())
	fmt.Printf("days:        %d annotated\n", a.canvas.Len())
	fmt.Printf("sync:        %s\n", a.engine.Phase())

	if a.remote != nil {
		fmt.Printf("backend:     %s\n", a.cfg.RedisAddr)
	} else {
		fmt.Println("backend:     offline")
	}

	if clock, err := a.clock.Load(ctx); err == nil && clock != "" {
		fmt.Printf("last synced: %s\n", clock)
	} else {
		fmt.Println("last synced: never")
	}

	fmt.Printf("device:      %s\n", a.device)
	return nil
}
