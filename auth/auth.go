// Package auth finds a Quip access token, looking in the places people
// actually put them.
package auth

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultEnvVar is the environment variable consulted for a token.
	DefaultEnvVar = "QUIP_ACCESS_TOKEN"
	// DefaultTokenFile is the fallback token file.
	DefaultTokenFile = "~/.quip_token"
	// TokenURL is where personal access tokens come from.
	TokenURL = "https://quip.com/dev/token"
)

// Discovery describes where to look for a token.  Zero values fall back to
// the defaults above; tests point TokenFile somewhere temporary.
type Discovery struct {
	// CLIToken is a token passed on the command line; highest priority.
	CLIToken string
	// TokenCmd, if set, is a shell command whose first output line is the
	// token (think `pass show quip-token`).  Lowest priority.
	TokenCmd []string

	EnvVar    string
	TokenFile string
}

func (d Discovery) envVar() string {
	if d.EnvVar != "" {
		return d.EnvVar
	}
	return DefaultEnvVar
}

func (d Discovery) tokenFile() string {
	if d.TokenFile != "" {
		return d.TokenFile
	}
	return DefaultTokenFile
}

// Discover returns the first token found, plus a description of where it
// came from.  Priority: command line, environment, token file, token
// command.
func (d Discovery) Discover() (string, string, error) {
	if d.CLIToken != "" {
		return strings.TrimSpace(d.CLIToken), "command line argument", nil
	}

	if envToken := os.Getenv(d.envVar()); envToken != "" {
		return strings.TrimSpace(envToken), fmt.Sprintf("environment variable (%s)", d.envVar()), nil
	}

	fileToken, err := d.readTokenFile()
	if err != nil {
		return "", "", err
	}
	if fileToken != "" {
		return fileToken, fmt.Sprintf("token file (%s)", d.tokenFile()), nil
	}

	if len(d.TokenCmd) > 0 {
		output, err := exec.Command(d.TokenCmd[0], d.TokenCmd[1:]...).Output()
		if err != nil {
			return "", "", fmt.Errorf("auth: couldn't execute token-cmd '%v': %w", d.TokenCmd, err)
		}
		token := strings.TrimSpace(strings.Split(string(output), "\n")[0])
		if token != "" {
			return token, "token command", nil
		}
	}

	return "", "", fmt.Errorf("auth: no Quip access token found; pass --token, "+
		"set %s, write %s, or configure auth-token-cmd (get a token at %s)",
		d.envVar(), d.tokenFile(), TokenURL)
}

func (d Discovery) readTokenFile() (string, error) {
	path, err := homedir.Expand(d.tokenFile())
	if err != nil {
		return "", fmt.Errorf("auth: couldn't expand token file path: %w", err)
	}

	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: couldn't read token file %s: %w", path, err)
	}

	// first line only; people leave comments and trailing newlines in these
	// files.
	token := strings.TrimSpace(strings.Split(string(contents), "\n")[0])
	return token, nil
}

// Save writes the token to the token file with owner-only permissions.
func (d Discovery) Save(token string) error {
	path, err := homedir.Expand(d.tokenFile())
	if err != nil {
		return fmt.Errorf("auth: couldn't expand token file path: %w", err)
	}

	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("auth: couldn't write token file %s: %w", path, err)
	}

	return nil
}
