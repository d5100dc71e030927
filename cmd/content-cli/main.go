// Package main 命令行内容生成工具（content-cli）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var opts rootOptions
	rootCmd := &cobra.Command{
		Use:           "content-cli",
		Short:         "Generate social posts from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config", "", "config directory (defaults to $CONFIG_DIR or ./configs)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(newGenerateCmd(&opts))
	rootCmd.AddCommand(newVariationsCmd(&opts))
	rootCmd.AddCommand(newProvidersCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
