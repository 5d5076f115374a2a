// Command admin provisions users and seeds the shared public house
// registry from a JSON export. It runs against the same database file
// as the server, applying migrations first so it can be used on a
// fresh deployment.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/twinvillage/planner/internal/config"
	"github.com/twinvillage/planner/internal/domain/access"
	"github.com/twinvillage/planner/internal/sqlite"
	"github.com/twinvillage/planner/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "import-houses":
		err = runImportHouses(ctx, db, os.Args[2:], logger)
	case "create-user":
		err = runCreateUser(ctx, db, os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  admin import-houses <file.json>
  admin create-user -email <email> [-id <id>] [-token <token>]`)
}

// runImportHouses loads a JSON array of raw house records and upserts
// it into the public registry.
func runImportHouses(ctx context.Context, db *sqlite.DB, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("import-houses", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one JSON file argument")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("reading house file: %w", err)
	}
	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("parsing house file: %w", err)
	}

	n, err := sqlite.NewHouseRepository(db).Import(ctx, docs)
	if err != nil {
		return fmt.Errorf("importing houses: %w", err)
	}
	logger.Info("houses imported", "file", fs.Arg(0), "records", len(docs), "imported", n, "skipped", len(docs)-n)
	return nil
}

// runCreateUser registers an identity and prints its bearer token. A
// missing id gets a UUID; a missing token is generated and shown once
// (only its hash is stored).
func runCreateUser(ctx context.Context, db *sqlite.DB, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	id := fs.String("id", "", "user id (default: random UUID)")
	email := fs.String("email", "", "user email (required)")
	token := fs.String("token", "", "bearer token (default: random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}
	if *id == "" {
		*id = uuid.NewString()
	}
	if *token == "" {
		generated, err := generateToken()
		if err != nil {
			return fmt.Errorf("generating token: %w", err)
		}
		*token = generated
	}

	identity := access.Identity{ID: *id, Email: *email}
	if err := sqlite.NewUserRepository(db).CreateUser(ctx, identity, *token); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	logger.Info("user created", "id", *id, "email", *email)
	fmt.Printf("token: %s\n", *token)
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func applyMigrations(db *sqlite.DB) error {
	data, err := migrations.FS.ReadFile("001_initial_schema.up.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
