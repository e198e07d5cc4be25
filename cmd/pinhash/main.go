// Command pinhash hashes an admin PIN. With -db it also stores the hash as the
// admin config of a myfoliopanel database, replacing the default PIN.
//
// bcrypt is used by default. PINs longer than 72 bytes, which bcrypt cannot
// hash, get a SHA-256 digest as if -sha256 had been given.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	sqliteadapter "github.com/ericfisherdev/myfoliopanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/myfoliopanel/internal/application"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pinhash:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("pinhash", flag.ContinueOnError)
	useSHA := fs.Bool("sha256", false, "emit a hex SHA-256 digest instead of bcrypt")
	dbPath := fs.String("db", "", "store the hash as the admin config in this database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pin, err := readPin(fs.Args(), stdin)
	if err != nil {
		return err
	}

	hash := application.HashPin(pin)
	if !*useSHA && len(pin) <= application.MaxBcryptPinBytes {
		hash, err = application.HashPinBcrypt(pin)
		if err != nil {
			return err
		}
	}

	if *dbPath != "" {
		if err := store(*dbPath, hash); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(stdout, hash)
	return err
}

// readPin takes the PIN from the first argument, or the first line of stdin.
func readPin(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read pin: %w", err)
	}
	pin := strings.TrimRight(line, "\r\n")
	if pin == "" {
		return "", errors.New("no pin given")
	}
	return pin, nil
}

func store(dbPath, hash string) error {
	ctx := context.Background()

	db, err := sqliteadapter.NewDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	local := application.NewLocalStore(sqliteadapter.NewKVRepo(db), slog.Default())
	return application.Set(ctx, local, model.StoreKeyAdminConfig, model.AdminConfig{PinHash: hash})
}
