package main

import (
	"fmt"

	"github.com/jengzang/riskzones-backend-go/internal/auth"
	"github.com/jengzang/riskzones-backend-go/internal/config"
	"github.com/spf13/cobra"
)

// token flags
var (
	tokenSubject string
	tokenRole    string
	tokenTTL     = auth.DefaultTTL
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch tokenRole {
		case auth.RoleUser, auth.RoleAnalyst, auth.RoleAdmin:
		default:
			return fmt.Errorf("unknown role %q", tokenRole)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, err := auth.NewTokens(cfg.JWTSecret, nil).Issue(tokenSubject, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", auth.RoleAnalyst, "role: user, analyst or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", auth.DefaultTTL, "token lifetime")
}
