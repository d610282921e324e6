package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"atelier/internal/app"
	"atelier/internal/domain/errs"
	"atelier/internal/transport/http/dto"
)

func newOperatorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Учётные записи операторов",
	}

	var in dto.OperatorCreateInput

	create := &cobra.Command{
		Use:   "create",
		Short: "Создать оператора",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.New().Struct(in); err != nil {
				return err
			}

			cfg, log, err := load()
			if err != nil {
				return err
			}

			ctx := context.Background()

			deps, err := app.Connect(ctx, log, cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			id, err := app.NewAuth(log, cfg, deps.Repo).RegisterOperator(ctx, in.Email, in.Name, in.Password)
			if err != nil {
				return fmt.Errorf("%s", errs.Message(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "operator created: %s\n", id)
			return nil
		},
	}

	create.Flags().StringVar(&in.Email, "email", "", "email оператора")
	create.Flags().StringVar(&in.Name, "name", "", "имя оператора")
	create.Flags().StringVar(&in.Password, "password", "", "пароль (не короче 8 символов)")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)

	return cmd
}
