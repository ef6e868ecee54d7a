package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing store before initializing (file stores only)."`
	Source string `help:"Store path or connection string to copy data from."`
	Name   string `help:"Profile display name." default:"Habit Hero"`
	Yes    bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	// PostgreSQL Init is idempotent; never overwrite an existing profile.
	if existing, err := ctx.Store.Get(constants.CollectionProfile); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("%w at %s", apperrors.ErrAlreadyInitialized, ctx.Store.GetConfigPath())
	}
	fmt.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		copied, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("  Copied %d collections\n", copied)

		session, err := ctx.Tracker()
		if err != nil {
			return err
		}

		// Fill in whatever the source lacked and bring derived state current.
		if _, err := session.Badges(); err != nil {
			return err
		}
		if _, err := session.RefreshStreak(); err != nil {
			return err
		}
		fmt.Println(cli.SuccessStyle.Render("✓ Migration completed successfully!"))
		return nil
	}

	session, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if err := session.Bootstrap(c.Name); err != nil {
		return fmt.Errorf("failed to write initial records: %w", err)
	}
	fmt.Printf("Welcome, %s! Add your first habit with 'habitual task add'.\n", c.Name)
	return nil
}

// reset removes an existing file store after confirmation.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if storage.KindOf(ctx.Target) == storage.KindPostgres {
		return errors.New("--force is not supported for PostgreSQL stores, drop the habitual schema manually")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		if src, err := config.ExpandPath(c.Source); err == nil {
			absSource, errSrc := filepath.Abs(src)
			absDB, errDB := filepath.Abs(dbPath)
			if errSrc == nil && errDB == nil && absSource == absDB {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing store: %w", err)
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete all habitual data at %s?", dbPath), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("init cancelled")
	}

	// Snapshot the old store first; this needs it loaded.
	if err := ctx.Store.Load(); err == nil {
		ctx.PerformAutomaticBackup()
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing store: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing store: %w", err)
	}
	fmt.Printf("Deleted existing store at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	target, err := config.ExpandPath(c.Source)
	if err != nil {
		return 0, err
	}
	src, err := storage.Open(target)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	return storage.Copy(ctx.Store, src)
}
