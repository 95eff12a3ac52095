package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"timesheet": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("HOME", env.WorkDir)
			env.Setenv("TIMESHEET_CONFIG", filepath.Join(env.WorkDir, "config.toml"))
			env.Setenv("TIMESHEET_DB_DIR", filepath.Join(env.WorkDir, "data"))
			env.Setenv("TIMESHEET_LOG_LEVEL", "error")
			return nil
		},
	})
}
