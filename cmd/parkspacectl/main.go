package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/do"
	"github.com/spf13/cobra"

	"github.com/iliyamo/parkspace/internal/bootstrap"
	"github.com/iliyamo/parkspace/internal/config"
	"github.com/iliyamo/parkspace/internal/database"
	"github.com/iliyamo/parkspace/internal/service"
)

func main() {
	if err := newRootCmd(bootstrap.BuildContainer).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The container is only built by the
// subcommand that needs it.
func newRootCmd(container func() *do.Injector) *cobra.Command {
	root := &cobra.Command{
		Use:           "parkspacectl",
		Short:         "Operational commands for the parking marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(container), newCreateAdminCmd(container))
	return root
}

func newMigrateCmd(container func() *do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inj := container()
			db := do.MustInvoke[*sqlx.DB](inj)
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

type adminFlags struct {
	email    string
	password string
	name     string
}

func (f adminFlags) check() error {
	if f.email == "" || f.password == "" {
		return errors.New("--email and --password are required")
	}
	return nil
}

func newCreateAdminCmd(container func() *do.Injector) *cobra.Command {
	var f adminFlags
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or confirm an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.check(); err != nil {
				return err
			}
			inj := container()
			defer do.MustInvoke[*sqlx.DB](inj).Close()

			name := f.name
			if name == "" {
				name = do.MustInvoke[*config.Config](inj).Admin.FullName
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			u, created, err := do.MustInvoke[service.AuthService](inj).EnsureAdmin(ctx, f.email, f.password, name)
			if err != nil {
				return errors.New(service.PublicMessage(err))
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", u.Email, u.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", u.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "admin email address")
	cmd.Flags().StringVar(&f.password, "password", "", "admin password (min 8 characters)")
	cmd.Flags().StringVar(&f.name, "name", "", "display name, defaults to ADMIN_FULL_NAME")
	return cmd
}
