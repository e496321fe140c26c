package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/savestate/internal/core/observability/log"
	"github.com/zeusync/savestate/internal/core/save"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "savetool",
		Short:         "Inspect and verify save files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "savetool.yaml", "path to YAML config")
	root.AddCommand(newInspectCmd(), newVerifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a save file's header metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			h := f.Header
			fmt.Printf("id:        %s\n", h.ID)
			fmt.Printf("version:   %d\n", h.Version)
			fmt.Printf("created:   %s\n", h.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("checksum:  %016x\n", h.Checksum)
			fmt.Printf("top-level: %d fields\n", len(f.Payload))
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a save file's container integrity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(log.LevelInfo)
			cfg, err := save.LoadConfigFile(configPath)
			if err != nil {
				return err
			}

			f, err := readFile(args[0])
			if err != nil {
				return err
			}
			if err = f.Check(cfg.MinVersion); err != nil {
				return err
			}

			logger.Info("save file is structurally sound",
				log.String("id", f.Header.ID),
				log.Int("fields", len(f.Payload)))
			fmt.Println("ok")
			return nil
		},
	}
}

func readFile(path string) (*save.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f save.File
	if err = f.Deserialize(data); err != nil {
		return nil, err
	}
	return &f, nil
}
