package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixelyear/pixelyear/internal/planner"
)

// resolveDay expands "mm-dd" shorthand with the active year and validates
// the result as a calendar date.
func (a *App) resolveDay(arg string) (string, error) {
	day := arg
	if len(arg) == 5 && strings.Count(arg, "-") == 1 {
		day = fmt.Sprintf("%04d-%s", a.canvas.Year(), arg)
	}
	if _, err := planner.ParseDay(day); err != nil {
		return "", err
	}
	return day, nil
}

// Paint annotates one day: paint <date|mm-dd> <color> [note...].
func (a *App) Paint(ctx context.Context, args []string) error {
	day, err := a.resolveDay(args[0])
	if err != nil {
		fmt.Println("Bad day:", err)
		return err
	}

	ann := planner.Annotation{
		Color: strings.ToLower(args[1]),
		Note:  strings.Join(args[2:], " "),
	}

	if err := a.canvas.Paint(ctx, day, ann); err != nil {
		fmt.Println("Could not paint:", err)
		return err
	}
	fmt.Printf("%s painted %s\n", day, ann.Color)
	return nil
}

// Erase clears one day: erase <date|mm-dd>.
func (a *App) Erase(ctx context.Context, args []string) error {
	day, err := a.resolveDay(args[0])
	if err != nil {
		fmt.Println("Bad day:", err)
		return err
	}

	if err := a.canvas.Erase(ctx, day); err != nil {
		fmt.Println("Could not erase:", err)
		return err
	}
	fmt.Printf("%s cleared\n", day)
	return nil
}

// Year switches the active year: local rows are loaded first, then the
// engine re-pulls the new partition.
func (a *App) Year(ctx context.Context, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 || year > 9999 {
		fmt.Println("Usage: year <yyyy>")
		return fmt.Errorf("invalid year %q", args[0])
	}

	if year == a.canvas.Year() {
		fmt.Printf("Already on %d\n", year)
		return nil
	}

	if err := a.canvas.SwapYear(ctx, year); err != nil {
		fmt.Println("Could not switch year:", err)
		return err
	}
	a.engine.OnYearChanged(ctx, year)

	fmt.Printf("Switched to %d (%d days annotated locally)\n", year, a.canvas.Len())
	return nil
}
