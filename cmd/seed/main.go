package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/seed"
)

var moduleBuilder = func(ctx context.Context, cfg sitecms.Config, opts ...di.Option) (*sitecms.Module, error) {
	return sitecms.New(ctx, cfg, opts...)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("site seed: %v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("site-seed", flag.ExitOnError)
	envFile := fs.String("env", ".env", "Optional dotenv file loaded before the process environment")
	contentDir := fs.String("content-dir", "", "Markdown directory with one file per page section")
	adminEmail := fs.String("admin-email", "", "Provision this email with the admin role")
	tokenTTL := fs.Duration("token-ttl", 0, "Print an admin bearer token valid for this long")
	safeMode := fs.Bool("safe", true, "Strip raw HTML from rendered markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sitecms.LoadConfig(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx, cfg, di.WithMigrations(sitecms.GetMigrationsFS(), "data/sql/migrations"))
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	if dir := strings.TrimSpace(*contentDir); dir != "" {
		importer := module.Importer(seed.WithRenderer(seed.NewRenderer(seed.RenderOptions{SafeMode: *safeMode})))
		report, err := importer.ImportDirectory(ctx, os.DirFS(dir), ".")
		if err != nil {
			return fmt.Errorf("import %s: %w", dir, err)
		}
		fmt.Fprintf(out, "content: %d created, %d updated, %d skipped, %d failed\n",
			len(report.Created), len(report.Updated), len(report.Skipped), len(report.Errors))
		if err := report.Err(); err != nil {
			return err
		}
	}

	email := strings.TrimSpace(*adminEmail)
	if email == "" {
		return nil
	}
	user, err := module.Users().Provision(ctx, email, identity.RoleAdmin)
	if err != nil {
		return fmt.Errorf("provision %s: %w", email, err)
	}
	fmt.Fprintf(out, "admin: %s (%s)\n", user.Email, user.ID)

	if *tokenTTL > 0 {
		token, err := auth.IssueToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, user.ID, user.Email, *tokenTTL, time.Now())
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintf(out, "token: %s\n", token)
	}
	return nil
}
