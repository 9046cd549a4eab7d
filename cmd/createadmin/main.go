// Command createadmin adds an administrator account to the configured store.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/Domenick1991/cruisebooking/internal/bootstrap"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/service/users"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath   = flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to config file")
		username  = flag.String("username", "", "admin username")
		emailAddr = flag.String("email", "", "admin email")
		firstName = flag.String("first-name", "Admin", "first name")
		lastName  = flag.String("last-name", "User", "last name")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Driver == config.StorageMemory {
		log.Fatalf("storage.driver is %q; an admin created here would vanish on exit", config.StorageMemory)
	}

	in := bufio.NewReader(os.Stdin)
	if *username == "" {
		*username = prompt(in, "Username: ")
	}
	if *emailAddr == "" {
		*emailAddr = prompt(in, "Email: ")
	}
	password := readSecret("Password: ")
	confirm := readSecret("Confirm password: ")

	ctx := context.Background()
	logger := logging.New(os.Stderr, cfg.Log.Level)
	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer stores.Close()

	admin, err := users.NewUserService(stores.Users, logger).CreateAdmin(ctx, users.RegisterInput{
		Username:        *username,
		Email:           *emailAddr,
		Password:        password,
		ConfirmPassword: confirm,
		FirstName:       *firstName,
		LastName:        *lastName,
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("created admin %q with id %d\n", admin.Username, admin.ID)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("read input: %v", err)
	}
	return strings.TrimSpace(line)
}

func readSecret(label string) string {
	fmt.Print(label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	return string(secret)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
