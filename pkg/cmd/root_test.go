package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cbrevik/rabbitary/pkg/app"
	"github.com/cbrevik/rabbitary/pkg/config"
	"github.com/cbrevik/rabbitary/pkg/rabbitary"
)

const hey = "🐰🐇🐇🐰🐇🐰🐰🐰🐰🐇🐇🐰🐰🐇🐰🐇🐰🐇🐇🐇🐇🐰🐰🐇"

// newConfig returns the path of an empty config file.
func newConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, nil, 0600))
	return path
}

func execute(ctx context.Context, cfgPath string, in io.Reader, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer

	root := NewRootCommand(app.New(), "test", "test")
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	if in == nil {
		in = strings.NewReader("")
	}
	root.SetIn(in)

	err = root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func runCmd(t *testing.T, cfgPath string, in io.Reader, args ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, errOut, err := execute(ctx, cfgPath, in, args...)
	if err != nil {
		t.Logf("Command failed: %v\nArgs: %v\nStderr: %s", err, args, errOut)
		t.FailNow()
	}
	return out
}

func runCmdAllowFail(t *testing.T, cfgPath string, in io.Reader, args ...string) (string, error) {
	t.Helper()
	out, _, err := execute(context.Background(), cfgPath, in, args...)
	return out, err
}

func TestEncode(t *testing.T) {
	cfg := newConfig(t)

	t.Run("args", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "encode", "hey")
		require.Equal(t, hey+"\n", out)
	})

	t.Run("args are joined", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "encode", "a", "b")
		require.Equal(t, rabbitary.Encode("a b")+"\n", out)
	})

	t.Run("stdin lines", func(t *testing.T) {
		out := runCmd(t, cfg, strings.NewReader("hey\nyo\n"), "encode")
		require.Equal(t, hey+"\n"+rabbitary.Encode("yo")+"\n", out)
	})

	t.Run("stdin full", func(t *testing.T) {
		out := runCmd(t, cfg, strings.NewReader("a\nb"), "encode", "--input-mode", "full")
		require.Equal(t, rabbitary.Encode("a\nb")+"\n", out)
	})

	t.Run("template", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "encode", "--template", "-n", "2", `n{{ .i }}{{ "x" | upper }}`)
		require.Equal(t, rabbitary.Encode("n0X")+"\n"+rabbitary.Encode("n1X")+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "encode", "-o", "json", "hey")

		var res app.Result
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Equal(t, app.Result{Text: "hey", Rabbitary: hey, Symbols: 24}, res)
	})

	t.Run("msgpack", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "encode", "-o", "msgpack", "hey")

		var res app.Result
		require.NoError(t, msgpack.Unmarshal([]byte(out), &res))
		require.Equal(t, app.Result{Text: "hey", Rabbitary: hey, Symbols: 24}, res)
	})

	t.Run("bad output format", func(t *testing.T) {
		_, err := runCmdAllowFail(t, cfg, nil, "encode", "-o", "xml", "hey")
		require.Error(t, err)
	})
}

func TestDecode(t *testing.T) {
	cfg := newConfig(t)

	t.Run("args", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "decode", hey)
		require.Equal(t, "hey\n", out)
	})

	t.Run("piped from encode", func(t *testing.T) {
		encoded := runCmd(t, cfg, nil, "encode", "hello, rabbits")
		out := runCmd(t, cfg, strings.NewReader(encoded), "decode", "--input-mode", "full")
		require.Equal(t, "hello, rabbits\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "decode", "-o", "json", hey)

		var res app.Result
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Equal(t, "hey", res.Text)
		require.Equal(t, 24, res.Symbols)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := runCmdAllowFail(t, cfg, nil, "decode", strings.Repeat(rabbitary.One, 8))
		require.ErrorIs(t, err, rabbitary.ErrInvalidUTF8)
	})

	t.Run("invalid digits", func(t *testing.T) {
		_, err := runCmdAllowFail(t, cfg, nil, "decode", "rabbits!")
		require.ErrorIs(t, err, rabbitary.ErrInvalidDigitGroup)
	})
}

func TestQuery(t *testing.T) {
	cfg := newConfig(t)

	t.Run("text", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "query", "text=hey")
		require.Contains(t, out, "200 OK")
		require.Contains(t, out, "text/html; charset=utf-8")
		require.True(t, strings.HasSuffix(out, hey+"\n"))
	})

	t.Run("rabbitary", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "query", "--no-headers", "rabbitary="+hey)
		require.Equal(t, "hey\n", out)
	})

	t.Run("unknown key", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "query", "foo=bar")
		require.Contains(t, out, "400 Bad Request")
		require.Contains(t, out, "Could not find either text or rabbitary arguments.")
	})

	t.Run("no query", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "query", "--no-query")
		require.Contains(t, out, "500 Internal Server Error")
		require.Contains(t, out, "Could not parse query.")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := runCmdAllowFail(t, cfg, nil, "query")
		require.Error(t, err)
	})
}

func TestConfig(t *testing.T) {
	cfg := newConfig(t)

	t.Run("view defaults", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "view")
		require.Contains(t, out, "listen:")
		require.Contains(t, out, ":8080")
		require.Contains(t, out, "read-header-timeout: 5s")
	})

	t.Run("add profile", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "add-profile", "dev", "--listen", "127.0.0.1:9000", "--idle-timeout", "30s")
		require.Contains(t, out, "Added profile.")

		_, err := runCmdAllowFail(t, cfg, nil, "config", "add-profile", "dev")
		require.Error(t, err)
	})

	t.Run("current profile", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "current-profile")
		require.Equal(t, "dev\n", out)
	})

	t.Run("view", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "view")
		require.Contains(t, out, "name: dev")
		require.Contains(t, out, "listen: 127.0.0.1:9000")
		require.Contains(t, out, "idle-timeout: 30s")
	})

	t.Run("import", func(t *testing.T) {
		props := filepath.Join(t.TempDir(), "server.properties")
		require.NoError(t, os.WriteFile(props, []byte("server.listen=:7000\n"), 0644))

		out := runCmd(t, cfg, nil, "config", "import", props, "--name", "legacy")
		require.Contains(t, out, `Imported profile "legacy".`)
	})

	t.Run("get profiles", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "get-profiles")
		require.Contains(t, out, "NAME")
		require.Contains(t, out, "* dev")
		require.Contains(t, out, "legacy")
		require.Contains(t, out, ":7000")
	})

	t.Run("use profile", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "use-profile", "legacy")
		require.Contains(t, out, `Switched to profile "legacy".`)

		c, err := config.ReadConfig(cfg)
		require.NoError(t, err)
		require.Equal(t, "legacy", c.CurrentProfile)

		_, err = runCmdAllowFail(t, cfg, nil, "config", "use-profile", "nope")
		require.Error(t, err)
	})

	t.Run("profile override", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "-p", "dev", "config", "view")
		require.Contains(t, out, "127.0.0.1:9000")

		_, err := runCmdAllowFail(t, cfg, nil, "-p", "nope", "config", "view")
		require.Error(t, err)
	})

	t.Run("remove profile", func(t *testing.T) {
		out := runCmd(t, cfg, nil, "config", "remove-profile", "legacy")
		require.Contains(t, out, "Removed profile.")

		out = runCmd(t, cfg, nil, "config", "get-profiles", "--no-headers")
		require.NotContains(t, out, "legacy")
		require.NotContains(t, out, "NAME")
	})
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := newConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errOut, err := execute(ctx, cfg, nil, "serve", "--listen", "127.0.0.1:0")
	require.NoError(t, err)
	require.Contains(t, errOut, "listening")
}

func TestCompletion(t *testing.T) {
	cfg := newConfig(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out := runCmd(t, cfg, nil, "completion", shell)
			require.Contains(t, out, "rabbitary")
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := runCmdAllowFail(t, filepath.Join(t.TempDir(), "missing"), nil, "encode", "hey")
	require.Error(t, err)
}
