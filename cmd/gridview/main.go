package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unarmedpuppy/command-grid/engine/config"
	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/layout"
	"github.com/unarmedpuppy/command-grid/engine/service"
)

var rootCmd = &cobra.Command{
	Use:   "gridview",
	Short: "Isometric command grid viewer",
	Long: `gridview renders external job and task services as an isometric world:
tasks become buildings, jobs become walking units. The viewer polls both
services and reconciles the world against their state every pass.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("COMMANDGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(layoutCmd())
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetString("workspace"))
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the isometric viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runGame(cfg)
		},
	}
}

func jobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List jobs from the job service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := service.NewJobsClient(cfg.Services.Jobs)
			client.APIKey = cfg.Services.APIKey
			jobs, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(jobs)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Agent", "Status"})
			for _, j := range jobs {
				tw.AppendRow(table.Row{j.ID, j.Agent, j.Status})
			}
			tw.Render()
			return nil
		},
	}
}

func tasksCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks from the task service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := service.NewTasksClient(cfg.Services.Tasks)
			client.APIKey = cfg.Services.APIKey
			tasks, err := client.List(cmd.Context(), core.TaskStatus(status))
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(tasks)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Type", "Building", "Status"})
			for _, t := range tasks {
				tw.AppendRow(table.Row{t.ID, t.Type, t.BuildingType, t.Status})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by task status (OPEN, IN_PROGRESS, BLOCKED, CLOSED)")
	return cmd
}

func layoutCmd() *cobra.Command {
	lc := &cobra.Command{Use: "layout", Short: "Manage the saved world layout"}
	lc.AddCommand(layoutExportCmd())
	lc.AddCommand(layoutImportCmd())
	return lc
}

// layoutExportCmd pulls the remote layout and writes the local snapshot.
func layoutExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Fetch the layout from the service into the local snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := service.NewLayoutClient(cfg.Services.Layout)
			client.APIKey = cfg.Services.APIKey
			blob, err := client.Get(cmd.Context())
			if err != nil {
				return err
			}
			l, err := layout.DecodeJSON(blob)
			if err != nil {
				return err
			}
			if err := layout.SaveSnapshot(cfg.Snapshot.Path, l); err != nil {
				return err
			}
			fmt.Printf("exported %d buildings to %s\n", len(l.Buildings), cfg.Snapshot.Path)
			return nil
		},
	}
}

// layoutImportCmd pushes the local snapshot to the service.
func layoutImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Push the local snapshot to the layout service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			l, err := layout.LoadSnapshot(cfg.Snapshot.Path)
			if err != nil {
				return err
			}
			blob, err := l.EncodeJSON()
			if err != nil {
				return err
			}
			client := service.NewLayoutClient(cfg.Services.Layout)
			client.APIKey = cfg.Services.APIKey
			if err := client.Put(cmd.Context(), blob); err != nil {
				return err
			}
			fmt.Printf("imported %d buildings from %s\n", len(l.Buildings), cfg.Snapshot.Path)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
