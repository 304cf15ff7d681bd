package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/junbin-yang/go-vendkit/internal/transcript"
	"github.com/junbin-yang/go-vendkit/pkg/dispenser"
	"github.com/junbin-yang/go-vendkit/pkg/lifecycle"
	"github.com/junbin-yang/go-vendkit/pkg/logger"
)

const replHelp = `commands: insert | eject | dispense | state | history | table | help | quit`

func newReplCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Operate the machine interactively from standard input",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := newApp(cm.Get())
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			queue := dispenser.NewQueue(a.machine, a.cfg.Machine.QueueSize)
			lm := lifecycle.NewManager(lifecycle.WithLogger(a.log.Named("lifecycle")))

			_ = lm.Add("dispatcher", queue.Run, lifecycle.WithStopFunc(func(context.Context) error {
				queue.Close()
				return nil
			}))
			_ = lm.Add("console", func(ctx context.Context) error {
				defer cancel()
				return console(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), queue)
			})

			if a.collector != nil && a.cfg.Metrics.Addr != "" {
				addMetricsServer(lm, a)
			}

			if cm.Path() != "" {
				cm.OnChange(a.onConfigChange(flags))
				_ = lm.Add("config-watch", cm.Watch)
			}

			lm.OnWorkerExit(func(name string, err error) {
				if err != nil {
					a.log.Error("worker exited", logger.String("worker", name), logger.Err(err))
				}
			})

			return lm.Run(ctx)
		},
	}
}

func addMetricsServer(lm *lifecycle.Manager, a *app) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.collector.Handler())
	server := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	_ = lm.Add("metrics",
		func(ctx context.Context) error {
			a.log.Info("metrics server listening", logger.String("addr", server.Addr))
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		lifecycle.WithStopFunc(func(ctx context.Context) error {
			return server.Shutdown(ctx)
		}),
	)
}

// console 逐行读取命令并通过队列提交，quit 或输入结束时返回
func console(ctx context.Context, in io.Reader, out io.Writer, q *dispenser.Queue) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, replHelp)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := execLine(ctx, strings.TrimSpace(line), out, q)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func execLine(ctx context.Context, line string, out io.Writer, q *dispenser.Queue) (bool, error) {
	m := q.Machine()
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(out, replHelp)
	case "state":
		fmt.Fprintln(out, transcript.Summary(m.Snapshot()))
	case "history":
		return false, transcript.History(out, m.History())
	case "table":
		return false, transcript.Table(out, m.Inventory())
	default:
		op, err := dispenser.ParseOperation(line)
		if err != nil {
			fmt.Fprintf(out, "%v (try: help)\n", err)
			return false, nil
		}
		r, err := q.Submit(ctx, op)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, dispenser.ErrQueueClosed) {
				return true, nil
			}
			return false, err
		}
		fmt.Fprintln(out, transcript.Line(r))
	}
	return false, nil
}
