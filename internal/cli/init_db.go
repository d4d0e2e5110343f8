package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
)

// InitDBCommand creates the Books table without starting the server.
type InitDBCommand struct {
	ConnectionString string
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)

	defaultConn := os.Getenv("DATABASE_CONNECTION_STRING")
	if defaultConn == "" {
		defaultConn = config.DefaultConnectionString
	}
	fs.StringVar(&cmd.ConnectionString, "db", defaultConn, "Connection string of the catalog database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the Books table if it does not exist.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s init-db -db \"Data Source=/var/lib/library/books.db\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ConnectionString == "" {
		fs.Usage()
		return fmt.Errorf("connection string is required")
	}

	return nil
}

func (cmd *InitDBCommand) Run(ctx context.Context) error {
	factory, err := database.NewSQLiteConnectionFactory(cmd.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer factory.Close()

	if err := database.NewInitializer(factory).Initialize(ctx); err != nil {
		return err
	}

	fmt.Printf("Database ready: %s\n", factory.DSN())
	return nil
}
