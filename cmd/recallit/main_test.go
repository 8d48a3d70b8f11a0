package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %s not found", name)
	return nil
}

func findStringFlag(cmd *cli.Command, name string) *cli.StringFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findIntFlag(cmd *cli.Command, name string) *cli.IntFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestAppCommands(t *testing.T) {
	app := buildApp()

	t.Run("all commands registered", func(t *testing.T) {
		for _, name := range []string{"ingest", "search", "evaluate", "trend", "reembed"} {
			require.NotNil(t, findCommand(t, app, name))
		}
	})

	t.Run("db flag is required on every command", func(t *testing.T) {
		for _, cmd := range app.Commands {
			dbFlag := findStringFlag(cmd, "db")
			require.NotNil(t, dbFlag, "command %s has no db flag", cmd.Name)
			assert.True(t, dbFlag.Required, "command %s db flag not required", cmd.Name)
		}
	})
}

func TestIngestCommandFlags(t *testing.T) {
	app := buildApp()
	cmd := findCommand(t, app, "ingest")

	t.Run("dir is required", func(t *testing.T) {
		err := app.Run([]string{"recallit", "ingest", "--db", "/tmp/test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dir")
	})

	t.Run("host has default value", func(t *testing.T) {
		hostFlag := findStringFlag(cmd, "host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("pool-size has default value of 5", func(t *testing.T) {
		poolFlag := findIntFlag(cmd, "pool-size")
		require.NotNil(t, poolFlag)
		assert.Equal(t, 5, poolFlag.Value)
	})
}

func TestSearchCommandFlags(t *testing.T) {
	app := buildApp()
	cmd := findCommand(t, app, "search")

	t.Run("mode defaults to hybrid", func(t *testing.T) {
		modeFlag := findStringFlag(cmd, "mode")
		require.NotNil(t, modeFlag)
		assert.Equal(t, "hybrid", modeFlag.Value)
	})

	t.Run("limit defaults to 10", func(t *testing.T) {
		limitFlag := findIntFlag(cmd, "limit")
		require.NotNil(t, limitFlag)
		assert.Equal(t, 10, limitFlag.Value)
	})

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"recallit", "search", "anything"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})
}

func TestEvaluateCommandFlags(t *testing.T) {
	app := buildApp()

	t.Run("query is required", func(t *testing.T) {
		err := app.Run([]string{"recallit", "evaluate", "--db", "/tmp/test",
			"--response", "Some answer."})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("response is required", func(t *testing.T) {
		err := app.Run([]string{"recallit", "evaluate", "--db", "/tmp/test",
			"--query", "What is this?"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "response")
	})
}

func TestReembedCommandFlags(t *testing.T) {
	app := buildApp()
	cmd := findCommand(t, app, "reembed")

	t.Run("embedding-model is required", func(t *testing.T) {
		err := app.Run([]string{"recallit", "reembed", "--db", "/tmp/test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding-model")
	})

	t.Run("embedding-host has default value", func(t *testing.T) {
		hostFlag := findStringFlag(cmd, "embedding-host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("batch-size has default value of 100", func(t *testing.T) {
		batchFlag := findIntFlag(cmd, "batch-size")
		require.NotNil(t, batchFlag)
		assert.Equal(t, 100, batchFlag.Value)
	})

	t.Run("report-interval has default value of 100", func(t *testing.T) {
		reportFlag := findIntFlag(cmd, "report-interval")
		require.NotNil(t, reportFlag)
		assert.Equal(t, 100, reportFlag.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		retriesFlag := findIntFlag(cmd, "max-retries")
		require.NotNil(t, retriesFlag)
		assert.Equal(t, 3, retriesFlag.Value)
	})
}

func TestScanMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.md"),
		[]byte("# Top\n\nContent."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "nested.md"),
		[]byte("# Nested\n\nMore content."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "ignored.txt"),
		[]byte("not markdown"), 0o644))

	docs, err := scanMarkdownFiles(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	paths := []string{docs[0].Path, docs[1].Path}
	assert.Contains(t, paths, "top.md")
	assert.Contains(t, paths, "notes/nested.md")
	for _, doc := range docs {
		assert.NotEmpty(t, doc.Text)
		assert.False(t, doc.Mtime.IsZero())
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "only line", firstLine("only line"))
	assert.Equal(t, "first", firstLine("first\nsecond"))

	long := ""
	for range 30 {
		long += "abcde"
	}
	assert.Len(t, firstLine(long), 103)
}

func TestSetupLogger(t *testing.T) {
	runWithLevel := func(level string) error {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
		return app.Run([]string{"test", "--log-level", level})
	}

	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				require.NoError(t, runWithLevel(tc.input))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				require.NoError(t, runWithLevel(tc))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := runWithLevel("invalid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
