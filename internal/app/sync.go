package app

import (
	"context"
	"fmt"
)

// Sync runs a manual pull followed by a push, the same cycle the engine
// performs on its own triggers. Useful after reconnecting.
func (a *App) Sync(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in, nothing to sync.")
		return nil
	}
	if a.remote == nil {
		fmt.Println("No sync backend configured.")
		return nil
	}

	a.engine.Pull(ctx)
	a.engine.Push(ctx)

	fmt.Printf("Sync finished: %s, %d days\n", a.engine.Phase(), a.canvas.Len())
	return nil
}
