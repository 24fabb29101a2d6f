package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/jsawk/internal/jsawk/config"
	"github.com/jacoelho/jsawk/internal/jsawk/execute"
	"github.com/jacoelho/jsawk/internal/jsawk/exit"
)

func main() {
	exitCode := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, exitResult := config.Parse(args)
	if exitResult != nil {
		return report(exitResult, stdout, stderr)
	}

	r, exitResult := execute.New(cfg)
	if exitResult != nil {
		return report(exitResult, stdout, stderr)
	}
	r.SetInput(stdin)
	r.SetOutput(stdout)
	r.SetErrorOutput(stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return r.Run(ctx)
}

func report(result *exit.Result, stdout, stderr io.Writer) int {
	result.Output = stderr
	if result.ExitCode == exit.CodeSuccess {
		result.Output = stdout
	}
	result.Print()
	return result.ExitCode
}
