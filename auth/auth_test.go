package auth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/toothbrush/quip-mirror/auth"
)

func TestDiscoverPriority(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	gt.NoError(t, os.WriteFile(tokenFile, []byte("file-token\n"), 0600))

	t.Setenv("QUIP_MIRROR_TEST_TOKEN", "env-token")

	d := auth.Discovery{
		CLIToken:  "cli-token",
		EnvVar:    "QUIP_MIRROR_TEST_TOKEN",
		TokenFile: tokenFile,
	}

	token, source, err := d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "cli-token")
	gt.String(t, source).Contains("command line")

	// drop the CLI token; the environment wins next.
	d.CLIToken = ""
	token, source, err = d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "env-token")
	gt.String(t, source).Contains("environment")

	// and with the environment empty, the file is used.
	t.Setenv("QUIP_MIRROR_TEST_TOKEN", "")
	token, source, err = d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "file-token")
	gt.String(t, source).Contains("token file")
}

func TestDiscoverTokenCmd(t *testing.T) {
	t.Setenv("QUIP_MIRROR_TEST_TOKEN", "")

	d := auth.Discovery{
		EnvVar:    "QUIP_MIRROR_TEST_TOKEN",
		TokenFile: filepath.Join(t.TempDir(), "no-such-file"),
		TokenCmd:  []string{"echo", "cmd-token"},
	}

	token, source, err := d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "cmd-token")
	gt.Equal(t, source, "token command")
}

func TestDiscoverNothingFound(t *testing.T) {
	t.Setenv("QUIP_MIRROR_TEST_TOKEN", "")

	d := auth.Discovery{
		EnvVar:    "QUIP_MIRROR_TEST_TOKEN",
		TokenFile: filepath.Join(t.TempDir(), "no-such-file"),
	}

	_, _, err := d.Discover()
	gt.Error(t, err)
}

func TestTokenFileFirstLineOnly(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	gt.NoError(t, os.WriteFile(tokenFile, []byte("real-token\nleftover junk\n"), 0600))

	t.Setenv("QUIP_MIRROR_TEST_TOKEN", "")
	d := auth.Discovery{
		EnvVar:    "QUIP_MIRROR_TEST_TOKEN",
		TokenFile: tokenFile,
	}

	token, _, err := d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "real-token")
}

func TestSave(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	d := auth.Discovery{TokenFile: tokenFile}

	gt.NoError(t, d.Save("fresh-token"))

	info, err := os.Stat(tokenFile)
	gt.NoError(t, err)
	gt.Equal(t, info.Mode().Perm(), os.FileMode(0600))

	t.Setenv("QUIP_ACCESS_TOKEN", "")
	token, _, err := d.Discover()
	gt.NoError(t, err)
	gt.Equal(t, token, "fresh-token")
}
