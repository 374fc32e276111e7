// Command usertool manages accounts directly against the database,
// bypassing HTTP. It is meant for operators bootstrapping an environment.
//
//	usertool create <email> <password>
//	usertool promote <email|uuid>
//	usertool list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/audit"
	"github.com/baechuer/account-service/internal/config"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/account-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/account-service/internal/infrastructure/security"
	"github.com/baechuer/account-service/internal/logger"
)

const (
	exitOK    = 0
	exitErr   = 1
	exitUsage = 2
)

// openFunc builds the service the commands run against.
type openFunc func(ctx context.Context) (*account.Service, func(), error)

func main() {
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, openPostgres)
	stop()
	os.Exit(code)
}

func openPostgres(ctx context.Context) (*account.Service, func(), error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}

	db, err := config.NewDB(dbCfg.DBAddr, dbCfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	if dbCfg.DBMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	auditLog := audit.New(logger.Logger)
	// the CLI never issues tokens
	svc := account.NewService(
		postgres.NewUserRepo(db),
		security.NewBcryptHasher(config.DefaultBcryptCost),
		nil,
	).WithAudit(auditLog.Record)

	return svc, cleanup, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  usertool create <email> <password>   create a verified user")
	fmt.Fprintln(w, "  usertool promote <email|uuid>        grant superuser")
	fmt.Fprintln(w, "  usertool list                        list all users")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, open openFunc) int {
	fs := flag.NewFlagSet("usertool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeout := fs.Duration("timeout", 30*time.Second, "overall deadline for the command")
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr)
		return exitUsage
	}

	cmd, cmdArgs := rest[0], rest[1:]
	want := map[string]int{"create": 2, "promote": 1, "list": 0}
	n, ok := want[cmd]
	if !ok || len(cmdArgs) != n {
		usage(stderr)
		return exitUsage
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	svc, cleanup, err := open(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitErr
	}
	defer cleanup()

	switch cmd {
	case "create":
		err = createUser(ctx, svc, stdout, cmdArgs[0], cmdArgs[1])
	case "promote":
		err = promoteUser(ctx, svc, stdout, cmdArgs[0])
	case "list":
		err = listUsers(ctx, svc, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", describe(err))
		return exitErr
	}
	return exitOK
}

func createUser(ctx context.Context, svc *account.Service, w io.Writer, email, password string) error {
	u, err := svc.ProvisionUser(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Created user %s (%s)\n", u.Email, u.ID)
	return nil
}

func promoteUser(ctx context.Context, svc *account.Service, w io.Writer, identifier string) error {
	u, already, err := svc.PromoteSuperuser(ctx, identifier)
	if err != nil {
		return err
	}
	if already {
		fmt.Fprintf(w, "User %s is already a superuser\n", u.DisplayName())
		return nil
	}
	fmt.Fprintf(w, "User %s is now a superuser\n", u.DisplayName())
	return nil
}

func listUsers(ctx context.Context, svc *account.Service, w io.Writer) error {
	users, err := svc.ListUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tVERIFIED\tSUPERUSER\tCREATED")
	for _, u := range users {
		email := u.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, email,
			strconv.FormatBool(u.IsVerified),
			strconv.FormatBool(u.IsSuperuser),
			u.CreatedAt.UTC().Format(time.RFC3339),
		)
	}
	return tw.Flush()
}

// describe prefers the user-facing message of domain errors.
func describe(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		if de.Meta["reason"] != "" {
			return fmt.Sprintf("%s (%s)", de.Message, de.Meta["reason"])
		}
		return de.Message
	}
	return err.Error()
}
