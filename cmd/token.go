package main

import (
	"fmt"

	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		superAdmin    bool
		complexes     []string
		centers       []string
		professionals []string
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Sign an admin scope token with SCOPE_TOKEN_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scopeCfg config.ScopeConfig
			if err := envconfig.Process("", &scopeCfg); err != nil {
				return fmt.Errorf("failed to process env config: %w", err)
			}

			claims := jwt.Claims{SuperAdmin: superAdmin}
			var err error
			if claims.Complexes, err = parseIDs(complexes); err != nil {
				return err
			}
			if claims.Centers, err = parseIDs(centers); err != nil {
				return err
			}
			if claims.Professionals, err = parseIDs(professionals); err != nil {
				return err
			}
			if !superAdmin && len(claims.Complexes)+len(claims.Centers)+len(claims.Professionals) == 0 {
				return fmt.Errorf("token grants nothing: pass --super or at least one owner id")
			}

			token, err := jwt.NewService(scopeCfg.TokenSecret, scopeCfg.TokenTTL).GenerateToken(args[0], claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&superAdmin, "super", false, "grant every resource")
	cmd.Flags().StringSliceVar(&complexes, "complex", nil, "sports complex id the bearer manages")
	cmd.Flags().StringSliceVar(&centers, "center", nil, "beauty center id the bearer manages")
	cmd.Flags().StringSliceVar(&professionals, "professional", nil, "professional id the bearer manages")
	return cmd
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
