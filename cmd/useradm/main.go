// Command useradm is a server-side admin tool for user accounts.
//
//	useradm add <username> <email>   create an account, prompting for the password
//	useradm purge                    delete every user and, by cascade, every vault entry
//
// The database DSN is taken from the DUNKEY_DATABASE_DSN environment
// variable or the -d flag.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/models"
	"github.com/dunkey/dunkey-server/internal/server/repositories/repomanager"
	"github.com/dunkey/dunkey-server/internal/server/services"
	"github.com/dunkey/dunkey-server/internal/strength"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dsn := flag.String("d", os.Getenv("DUNKEY_DATABASE_DSN"), "database DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("database DSN is required (-d or DUNKEY_DATABASE_DSN)")
	}
	if flag.NArg() < 1 {
		log.Fatal("usage: useradm [-d dsn] add <username> <email> | purge")
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	switch flag.Arg(0) {
	case "add":
		if flag.NArg() != 3 {
			log.Fatal("usage: useradm add <username> <email>")
		}
		err = addUser(ctx, db, m, flag.Arg(1), flag.Arg(2))
	case "purge":
		err = purgeUsers(ctx, db, m)
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatal(err)
	}
}

func addUser(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, username, email string) error {
	username = services.SanitizeUsername(username)
	if username == "" {
		return fmt.Errorf("username is empty after sanitizing")
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	defer common.WipeByteArray(password)

	if !strength.IsStrong(string(password)) {
		return fmt.Errorf("password is too weak: need 8+ characters with upper, lower, digit and symbol")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := m.Users(db).Create(ctx, &models.User{
		UserName:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	services.NewAudit(logger).UserRegistered(ctx, user.UserName, user.Email)

	fmt.Printf("created user %s (%s)\n", user.UserName, user.ID)
	return nil
}

func purgeUsers(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager) error {
	fmt.Print("This deletes ALL users and ALL vault entries. Type 'yes' to continue: ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("aborted")
		return nil
	}

	n, err := m.Users(db).DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("purging users: %w", err)
	}
	fmt.Printf("deleted %d users\n", n)
	return nil
}
