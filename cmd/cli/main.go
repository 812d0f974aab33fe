package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/awjames6875/shipflow/internal/workflow"
	"github.com/awjames6875/shipflow/pkg/version"
)

var (
	serverAddr string
	topic      string
	length     int
	platforms  []string
)

var rootCmd = &cobra.Command{
	Use:   "shipflow-cli",
	Short: "shipflow cli is a command line tool",
	Long:  "shipflow cli is a command line tool",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			return
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Trigger a pipeline run on a shipflow server and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := resty.New().SetBaseURL(serverAddr).R().
			SetHeader("Content-Type", "application/json").
			SetBody(workflow.Input{Topic: topic, LengthSeconds: length, Platforms: platforms}).
			Post("/api/v1/workflow/run")
		if err != nil {
			return err
		}
		fmt.Println(resp.String())
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask a shipflow server to validate its provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := resty.New().SetBaseURL(serverAddr).R().
			Get("/api/v1/config/validate")
		if err != nil {
			return err
		}
		fmt.Println(resp.String())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://127.0.0.1:8080", "shipflow server address")
	runCmd.Flags().StringVarP(&topic, "topic", "t", "", "topic to research")
	runCmd.Flags().IntVarP(&length, "length", "l", 15, "script length in seconds (15, 30, 45 or 60)")
	runCmd.Flags().StringSliceVarP(&platforms, "platforms", "p", nil, "platforms to publish to")
	_ = runCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(version.VersionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
