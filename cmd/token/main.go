// Command token mints a bearer token for an account, for local testing and admin access.
package main

import (
	"fmt"
	"os"
	"time"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", os.Getenv("COP_CONFIG"), "path to the config file")
	account := pflag.String("account", "", "account id (uuid)")
	role := pflag.String("role", ports.RoleUser, "token role: user or admin")
	pflag.Parse()

	accountID, err := uuid.Parse(*account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --account: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	token, expiresAt, err := tokens.Generate(accountID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", expiresAt.Format(time.RFC3339))
}
