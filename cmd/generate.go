package main

import (
	"encoding/json"
	"fmt"
	"os"

	"slot-engine/cmd/bootstrap"
	"slot-engine/internal/domain/access"
	"slot-engine/internal/handler/dto/request"
	"slot-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newGenerateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate recurring slots from a JSON plan",
		Long: "Reads a plan with the same shape as POST /api/admin/generate and runs it\n" +
			"with system scope. Existing overlapping slots are skipped.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var req request.GenerateRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("decode plan: %w", err)
			}
			if err := binding.Validator.ValidateStruct(&req); err != nil {
				return fmt.Errorf("invalid plan: %w", err)
			}
			in, err := req.ToInput()
			if err != nil {
				return err
			}

			var gen commands.GeneratorCommands
			app := fx.New(
				bootstrap.CoreModule,
				fx.Populate(&gen),
				fx.NopLogger,
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = app.Stop(cmd.Context()) }()

			res, err := gen.GenerateBulk(cmd.Context(), access.System(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", res.Created, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the JSON plan")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
