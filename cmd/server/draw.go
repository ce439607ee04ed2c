package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wireboard-server/internal/client"
	"github.com/vovakirdan/wireboard-server/internal/log"
)

// consoleCanvas prints strokes instead of rasterizing them.
type consoleCanvas struct{}

func (consoleCanvas) DrawLine(color string, x1, y1, x2, y2 float64) {
	fmt.Printf("line %s (%.1f,%.1f) -> (%.1f,%.1f)\n", color, x1, y1, x2, y2)
}

func drawCmd() *cobra.Command {
	var (
		addr     string
		name     string
		token    string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Connect to a board from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(logLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			agent := client.New(addr, token, consoleCanvas{}, logger)

			runErr := make(chan error, 1)
			go func() {
				runErr <- agent.Run(ctx)
			}()

			if err := waitOpen(agent, runErr); err != nil {
				return err
			}

			if name != "" {
				if err := agent.SetName(ctx, name); err != nil {
					return err
				}
			}

			fmt.Printf("Connected to %s\n", addr)
			fmt.Println("Commands: name <n> | line <x1> <y1> <x2> <y2> | restore | users | quit")

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
			}()

			for {
				select {
				case err := <-runErr:
					return err
				case <-ctx.Done():
					return nil
				case input, ok := <-lines:
					if !ok {
						return nil
					}
					if err := handleInput(ctx, agent, input); err != nil {
						if err == errQuit {
							return nil
						}
						fmt.Printf("error: %v\n", err)
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	cmd.Flags().StringVar(&name, "name", "", "display name to announce")
	cmd.Flags().StringVar(&token, "token", "", "session token")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	return cmd
}

var errQuit = fmt.Errorf("quit")

func waitOpen(agent *client.Agent, runErr <-chan error) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		switch agent.State() {
		case client.StateOpen:
			return nil
		case client.StateClosed, client.StateErrored:
			select {
			case err := <-runErr:
				return err
			default:
				return fmt.Errorf("connection %s", agent.State())
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for connection")
}

func handleInput(ctx context.Context, agent *client.Agent, input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "name":
		if len(fields) < 2 {
			return fmt.Errorf("usage: name <n>")
		}
		return agent.SetName(ctx, strings.Join(fields[1:], " "))
	case "line":
		if len(fields) != 5 {
			return fmt.Errorf("usage: line <x1> <y1> <x2> <y2>")
		}
		coords := make([]float64, 4)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("bad coordinate %q", f)
			}
			coords[i] = v
		}
		return agent.StrokeLine(ctx, coords[0], coords[1], coords[2], coords[3])
	case "restore":
		return agent.RequestRestore(ctx)
	case "users":
		for _, u := range agent.Users() {
			name := u.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%d %s %s\n", u.ID, u.Color, name)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
