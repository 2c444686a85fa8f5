// Package main provides a CLI tool for minting caller tokens for local use of
// the terms gateway. Tokens use the dev/demo signing keys and will NOT work in
// production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "tosgate/internal/jwt_token"
	id "tosgate/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	// Demo signing key for shared demo deployments
	demoSigningKey = "demo-signing-key-change-me-locally"

	defaultIssuerBaseURL = "http://localhost:8080"
	defaultAudience      = "tosgate"
	defaultTokenTTL      = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	callerCmd := flag.NewFlagSet("caller", flag.ExitOnError)
	userID := callerCmd.String("user-id", "", "Caller user id. A random UUID when empty.")
	ttl := callerCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	issuer := callerCmd.String("issuer", defaultIssuerBaseURL, "Issuer; must match JWT_ISSUER_BASE_URL")
	audience := callerCmd.String("audience", defaultAudience, "Audience; must match JWT_AUDIENCE")
	env := callerCmd.String("env", "dev", "Environment annotation carried in the token")
	demo := callerCmd.Bool("demo", false, "Use demo signing key instead of dev key")
	jsonOut := callerCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "caller":
		_ = callerCmd.Parse(os.Args[2:])
		generateCallerToken(*userID, *issuer, *audience, *env, *ttl, *demo, *jsonOut)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Mint caller tokens for the terms gateway

WARNING: These tokens use dev/demo signing keys and will NOT work in production.

Usage:
  tokengen caller [flags]

Examples:
  # Token for a random caller
  tokengen caller

  # Token for a fixed caller, valid for an hour
  tokengen caller -user-id alice -ttl 1h

  # Output as JSON
  tokengen caller -json

Use "tokengen caller -h" for the full flag list.`)
}

func generateCallerToken(userID, issuer, audience, env string, ttl time.Duration, demo, jsonOutput bool) {
	signingKey := devSigningKey
	keyType := "dev"
	if demo {
		signingKey = demoSigningKey
		keyType = "demo"
	}

	if userID == "" {
		userID = uuid.NewString()
	}
	uid, err := id.ParseUserID(userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid user-id: %v\n", err)
		os.Exit(1)
	}

	svc := jwttoken.NewJWTService(signingKey, issuer, audience, ttl)
	svc.SetEnv(env)

	token, jti, err := svc.GenerateToken(context.Background(), uid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"user_id": uid.String(),
				"aud":     audience,
				"iss":     issuer,
				"jti":     jti,
			},
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return
	}

	fmt.Println("Caller Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Signing Key: %s\n", keyType)
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Printf("User ID:     %s\n", uid)
	fmt.Printf("JTI:         %s\n", jti)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println(`  curl -H "Authorization: Bearer <token>" -H "Content-Type: application/json" \`)
	fmt.Println(`       -d '{"data":{"tosId":"tos_v1"}}' http://localhost:8080/functions/acceptTerms`)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
