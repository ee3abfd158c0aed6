// gridstub is a local stand-in for the job, task, and layout services, so
// the viewer can run without real backends. Jobs auto-advance through their
// lifecycle on a timer.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridstub",
		Short: "Local stub of the job/task/layout services",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(seedCmd())
	return root
}

func serveCmd() *cobra.Command {
	var (
		addr      string
		workspace string
		apiKey    string
		advance   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stub API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(workspace)
			if err != nil {
				return err
			}
			defer store.Close()

			if advance > 0 {
				go advanceLoop(cmd.Context(), store, advance)
			}

			log.Printf("gridstub: listening on %s", addr)
			srv := &http.Server{Addr: addr, Handler: newRouter(store, apiKey)}
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "require this X-Api-Key on every request")
	cmd.Flags().DurationVar(&advance, "advance", 10*time.Second, "job lifecycle advance interval (0 disables)")
	return cmd
}

// seedCmd inserts a handful of open tasks so the viewer has something to
// classify on first run.
func seedCmd() *cobra.Command {
	var workspace string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(workspace)
			if err != nil {
				return err
			}
			defer store.Close()

			demo := []core.Task{
				{ID: "task-feature-1", Type: "feature", Status: core.TaskOpen},
				{ID: "task-bug-1", Type: "bug", Status: core.TaskOpen},
				{ID: "task-docs-1", Type: "docs", Status: core.TaskOpen},
				{ID: "task-chore-1", Type: "chore", Status: core.TaskInProgress},
				{ID: "task-tech-1", Type: "technical", Status: core.TaskOpen},
			}
			for _, t := range demo {
				if err := store.CreateTask(cmd.Context(), t); err != nil {
					return err
				}
			}
			log.Printf("gridstub: seeded %d tasks", len(demo))
			return nil
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")
	return cmd
}

func advanceLoop(ctx context.Context, store *Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.AdvanceJobs(ctx)
			if err != nil {
				log.Printf("gridstub: advance failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("gridstub: advanced %d job(s)", n)
			}
		}
	}
}
