package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/amaumene/mediashelf/internal/auth"
	"github.com/amaumene/mediashelf/internal/config"
	"github.com/amaumene/mediashelf/internal/models"
	"github.com/amaumene/mediashelf/internal/services/tmdb"
	"github.com/amaumene/mediashelf/internal/utils"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(false)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			// NewDatabase migrates on open
			db, err := openDatabase(cfg, utils.NewLogger(cfg.LogLevel, cfg.LogFormat))
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", cfg.DatabaseFile)
			return nil
		},
	}
}

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var email, username, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(false)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openDatabase(cfg, utils.NewLogger(cfg.LogLevel, cfg.LogFormat))
			if err != nil {
				return err
			}
			defer db.Close()

			user := &models.User{Email: email, Username: username, Name: name}
			if err := db.CreateUser(cmd.Context(), user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s)\n", user.ID, user.Username)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "email address")
	add.Flags().StringVar(&username, "username", "", "handle, derived from the name when empty")
	add.Flags().StringVar(&name, "name", "", "display name")
	add.MarkFlagRequired("email")
	add.MarkFlagRequired("name")

	userCmd.AddCommand(add)
	return userCmd
}

func newTokenCmd() *cobra.Command {
	var userID uint
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user, for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(true)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openDatabase(cfg, utils.NewLogger(cfg.LogLevel, cfg.LogFormat))
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := db.GetUser(cmd.Context(), userID)
			if err != nil {
				return err
			}
			token, exp, err := auth.NewTokenService(cfg.JWTSecret).Sign(models.Identity{UserID: user.ID, Email: user.Email}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user-id", 0, "user to mint the token for")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("user-id")
	return cmd
}

func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "Load and print the TMDB genre table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(false)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
			_, client := newCatalog(cfg, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := client.LoadGenres(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, kind := range []tmdb.Kind{tmdb.KindMovie, tmdb.KindTV} {
				entries := client.Genres().Entries(kind)
				ids := make([]int, 0, len(entries))
				for id := range entries {
					ids = append(ids, id)
				}
				sort.Ints(ids)
				for _, id := range ids {
					fmt.Fprintf(out, "%s\t%d\t%s\n", kind, id, entries[id])
				}
			}
			return nil
		},
	}
}
