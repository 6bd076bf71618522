// Command userctl registers a user directly against the data file, for
// bootstrapping an instance before the HTTP endpoint is reachable.
//
// Usage:
//
//	userctl -f data/users_data.json -u alice
//
// The password is prompted for without echo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/config"
	"github.com/asmolyar/webpen/internal/server/store"
	"github.com/asmolyar/webpen/internal/server/users"
)

// test seam for term.ReadPassword
var readPassword = term.ReadPassword

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run() error {

	cfg := &config.Config{}
	cfg.LoadDefaults()

	var username string
	flag.StringVar(&cfg.DataFile, "f", cfg.DataFile, "path to the JSON data file")
	flag.StringVar(&username, "u", "", "username to register")
	flag.Parse()

	if username == "" {
		return fmt.Errorf("username is required (-u)")
	}

	fmt.Print("Enter password: ")
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	st := store.NewFileStore(cfg.DataFile, logger)
	svc := users.NewService(st, cfg, logger)

	if err := svc.Register(context.Background(), username, string(password)); err != nil {
		return err
	}

	fmt.Printf("registered %q in %s\n", username, cfg.DataFile)
	return nil
}
