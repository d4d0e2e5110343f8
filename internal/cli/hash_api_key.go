package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/library/internal/auth"
)

// HashAPIKeyCommand prints a bcrypt hash suitable for AUTH_API_KEY_HASH.
type HashAPIKeyCommand struct {
	Key  string
	Cost int

	stdin  io.Reader
	stdout io.Writer
}

func NewHashAPIKeyCommand() *HashAPIKeyCommand {
	return &HashAPIKeyCommand{
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

func (cmd *HashAPIKeyCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-api-key", flag.ContinueOnError)

	fs.StringVar(&cmd.Key, "key", "", "API key to hash (read from stdin when omitted)")
	fs.IntVar(&cmd.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-api-key [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a bcrypt hash of an API key for AUTH_API_KEY_HASH.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  echo -n \"$KEY\" | %s hash-api-key\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Cost < bcrypt.MinCost || cmd.Cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

func (cmd *HashAPIKeyCommand) Run() error {
	key := cmd.Key
	if key == "" {
		line, err := bufio.NewReader(cmd.stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = strings.TrimRight(line, "\r\n")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}

	hash, err := auth.HashAPIKey(key, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.stdout, hash)
	return nil
}
