package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nibzard/taskmaster-go/internal/command"
	"github.com/nibzard/taskmaster-go/internal/config"
)

// execCommand runs commands read one per line from a file or stdin. A bad
// line is reported and skipped; the command fails if any line did.
func execCommand(ctx context.Context, cfg *config.Config, args []string, std streams) error {
	fs := flag.NewFlagSet("taskmaster exec", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	file := fs.String("f", "", "Read commands from file instead of stdin")
	asJSON := fs.Bool("json", false, "Print one JSON object per command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	in := std.in
	if *file != "" && *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("opening command file: %w", err)
		}
		defer f.Close()
		in = f
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	return execLines(ctx, s.dispatcher, in, std.out, std.errOut, *asJSON)
}

func execLines(ctx context.Context, d *command.Dispatcher, in io.Reader, out, errOut io.Writer, asJSON bool) error {
	scanner := bufio.NewScanner(in)
	lineNo, total, failed := 0, 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		c, err := command.Parse(scanner.Text())
		if err == nil && c.IsZero() {
			continue
		}
		total++
		if err != nil {
			fmt.Fprintf(errOut, "line %d: %v\n", lineNo, err)
			failed++
			continue
		}

		res, err := d.Dispatch(c)
		if err != nil {
			fmt.Fprintf(errOut, "line %d: %s: %v\n", lineNo, c.Kind, err)
			failed++
			continue
		}
		if err := res.Format(out, asJSON); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d commands failed", failed, total)
	}
	return nil
}
