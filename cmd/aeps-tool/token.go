package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aeps-agent.backend/internal/config"
	"aeps-agent.backend/pkg/jwt"
)

var loadCfg = config.Load

func issueTokenCmd() *cobra.Command {
	var (
		agent    string
		merchant string
		role     string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue an agent bearer token for local testing",
		Long:  "Signs an agent token with JWT_SECRET. Only meant for sandbox and local environments.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadCfg()
			if cfg.Server.Env == "production" {
				return errors.New("refusing to issue tokens with SERVER_ENV=production")
			}

			agentID := uuid.New()
			if agent != "" {
				parsed, err := uuid.Parse(agent)
				if err != nil {
					return fmt.Errorf("invalid agent id: %w", err)
				}
				agentID = parsed
			}

			token, err := jwt.NewJWTService(cfg.JWT.Secret).IssueToken(agentID, merchant, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "Agent UUID (random when empty)")
	cmd.Flags().StringVar(&merchant, "merchant", "", "Merchant code claim")
	cmd.Flags().StringVar(&role, "role", "AGENT", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
