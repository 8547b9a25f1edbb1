// rush is a small POSIX-flavored shell built on top of jobs and arith.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ishehadeh/rush/internal/shparse"
	"github.com/ishehadeh/rush/jobs"
)

func main() {
	var command string

	root := &cobra.Command{
		Use:   "rush [file...]",
		Short: "rush is a small POSIX-flavored shell built on the jobs and arith packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(command, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&command, "command", "c", "", "command to be executed")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAll(command string, paths []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	ectx := jobs.NewContext(wd)
	ectx.Vars.DefineString("PATH", os.Getenv("PATH"))
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			ectx.Vars.DefineString(name, value)
		}
	}
	m := jobs.NewManager()

	if command != "" {
		return runReader(ctx, m, ectx, strings.NewReader(command))
	}
	if len(paths) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractive(ctx, m, ectx, os.Stdin, os.Stdout)
		}
		return runReader(ctx, m, ectx, os.Stdin)
	}
	for _, path := range paths {
		if err := runPath(ctx, m, ectx, path); err != nil {
			return err
		}
	}
	return nil
}

func runPath(ctx context.Context, m *jobs.Manager, ectx *jobs.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return runReader(ctx, m, ectx, f)
}

func runReader(ctx context.Context, m *jobs.Manager, ectx *jobs.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := runLine(ctx, m, ectx, scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runInteractive(ctx context.Context, m *jobs.Manager, ectx *jobs.Context, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	fmt.Fprint(stdout, "$ ")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			if err := runLine(ctx, m, ectx, line); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		fmt.Fprint(stdout, "$ ")
	}
	fmt.Fprintln(stdout)
	return scanner.Err()
}

func runLine(ctx context.Context, m *jobs.Manager, ectx *jobs.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cmd, err := shparse.Parse(line)
	if err != nil {
		return err
	}
	_, err = m.Run(ctx, cmd, ectx)
	return err
}
