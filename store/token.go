package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// TokenEnvVar is where the write token is looked up in the environment.
const TokenEnvVar = "DM_TOKEN"

// ErrNoToken reports that a token source had nothing to offer; chains
// skip past it.
var ErrNoToken = errors.New("no token")

// StaticToken wraps a token that is already known, typically from the
// project configuration file.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// EnvToken reads the token from the environment, loading a .env file
// first when one exists alongside the invocation. A .env that exists but
// cannot be parsed is an error, not an absent token.
type EnvToken struct{}

func (EnvToken) Token() (string, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("error loading .env: %w", err)
	}
	tok := os.Getenv(TokenEnvVar)
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// PromptToken interactively asks the operator for a token.
type PromptToken struct {
	Project string
	In      io.Reader
	Out     io.Writer
}

func (t *PromptToken) Token() (string, error) {
	fmt.Fprintf(t.Out, "write token for project %s: ", t.Project)
	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading token: %w", err)
	}
	tok := strings.TrimSpace(line)
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Chain tries sources in order until one yields a token.
type Chain []TokenSource

func (c Chain) Token() (string, error) {
	for _, s := range c {
		tok, err := s.Token()
		if errors.Is(err, ErrNoToken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return tok, nil
	}
	return "", fmt.Errorf("no write token: set %s or add token to the config file", TokenEnvVar)
}
