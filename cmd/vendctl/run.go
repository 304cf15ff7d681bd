package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junbin-yang/go-vendkit/internal/transcript"
	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var script string

	cmd := &cobra.Command{
		Use:   "run [operation...]",
		Short: "Apply a sequence of operations and print the transcript",
		Example: `  vendctl run --inventory 2 insert dispense insert eject
  vendctl run --script ops.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := collectOperations(args, script)
			if err != nil {
				return err
			}

			m, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := newApp(m.Get())
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			for _, op := range ops {
				fmt.Fprintln(out, transcript.Line(a.machine.Apply(op)))
			}
			fmt.Fprintln(out, transcript.Summary(a.machine.Snapshot()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&script, "script", "s", "", "file with one operation per line (# starts a comment)")
	return cmd
}

// collectOperations 解析命令行参数与脚本文件中的操作，脚本在前
func collectOperations(args []string, script string) ([]dispenser.Operation, error) {
	var words []string
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			words = append(words, strings.Fields(line)...)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
	}
	words = append(words, args...)

	if len(words) == 0 {
		return nil, fmt.Errorf("no operations given")
	}

	ops := make([]dispenser.Operation, 0, len(words))
	for _, w := range words {
		op, err := dispenser.ParseOperation(w)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
