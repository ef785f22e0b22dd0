// Command admin-token mints a bearer token for the admin endpoints using
// ADMIN_JWT_SECRET and ADMIN_TOKEN_TTL from the environment.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/membership-backend-go/internal/config"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
)

func main() {
	reviewer := flag.String("reviewer", "", "reviewer id recorded on approved and rejected intents")
	flag.Parse()

	if *reviewer == "" {
		fmt.Fprintln(os.Stderr, "-reviewer is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if cfg.Admin.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL).GenerateAdminToken(*reviewer)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
