package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// TestScripts drives the rhema CLI end-to-end through rsc.io/script, the
// teacher's own go.mod dependency for txtar-driven command tests (the same
// family as cmd/go's script test engine). Each testdata/script/*.txt file is
// a short transcript of CLI invocations and expected output, run against a
// scratch directory the engine manages; this is the CLI-transcript
// counterpart to cmd_test.go's direct rootCmd.Execute() calls.
func TestScripts(t *testing.T) {
	ctx := context.Background()
	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	engine.Cmds["rhema"] = rhemaScriptCmd()
	scripttest.Run(t, ctx, engine, os.Environ(), "testdata/script/*.txt")
}

// rhemaScriptCmd wires the rhema command tree into the script engine
// in-process, rather than requiring a built binary on PATH: each script line
// runs rootCmd.Execute() scoped to the engine's current working directory.
func rhemaScriptCmd() script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "run the rhema CLI against the script's working directory",
			Args:    "args...",
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(append([]string{"--repo", s.Getwd()}, args...))
			runErr := rootCmd.Execute()
			return func(*script.State) (stdout, stderr string, err error) {
				return out.String(), "", runErr
			}, nil
		},
	)
}
