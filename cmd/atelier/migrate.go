package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/storage/postgresql"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы БД",
	}

	var steps int

	up := &cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *postgresql.Migrator) error {
				return m.Up()
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Откатить последние миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be positive")
			}
			return withMigrator(func(m *postgresql.Migrator) error {
				return m.Down(steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "сколько миграций откатить")

	version := &cobra.Command{
		Use:   "version",
		Short: "Текущая версия схемы",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *postgresql.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)

	return cmd
}

func withMigrator(fn func(m *postgresql.Migrator) error) error {
	cfg, log, err := load()
	if err != nil {
		return err
	}

	m, err := postgresql.NewMigrator(cfg.DSN, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}
