package main

import (
	"context"
	"fmt"
	"os"

	"skb-backend/internal/config"
	"skb-backend/internal/database"
	"skb-backend/utils"

	"github.com/spf13/cobra"
)

func newSeedAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin credential or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required (--password or ADMIN_PASSWORD)")
			}
			return seedAdmin(cmd.Context(), cmd, username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")

	return cmd
}

func seedAdmin(ctx context.Context, cmd *cobra.Command, username, password string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := config.ConnectMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer config.DisconnectMongoDB(client)

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	repo := database.NewCredentialRepository(client.Database(cfg.DBName), cfg.UserCollection)
	created, err := repo.Upsert(ctx, username, hash)
	if err != nil {
		return err
	}

	if created {
		cmd.Printf("Admin user %q created\n", username)
	} else {
		cmd.Printf("Password for admin user %q updated\n", username)
	}
	return nil
}
