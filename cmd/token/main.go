package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rrens/honeypot/internal/config"
	"github.com/Rrens/honeypot/internal/security"
	"github.com/joho/godotenv"
)

// Mints an operator token for the session admin API
func main() {
	godotenv.Load()

	operator := flag.String("operator", "", "operator name recorded in the token")
	scopes := flag.String("scopes", security.ScopeSessionsRead, "comma separated scopes")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to auth.operator_token_ttl)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	lifetime := cfg.Auth.OperatorTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}
	if lifetime <= 0 {
		lifetime = 12 * time.Hour
	}

	var granted []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			granted = append(granted, s)
		}
	}

	manager := security.NewJWTManager(cfg.Auth.JWTSecret, lifetime)
	token, err := manager.GenerateToken(*operator, granted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "token for %q expires %s\n", *operator, time.Now().Add(manager.TTL()).Format(time.RFC3339))
	fmt.Println(token)
}
