package main

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// NewRootCommand builds the booksearch command line.
func NewRootCommand(run func(Options) error) *cobra.Command {
	opts := Options{}
	cmd := &cobra.Command{
		Use:           "booksearch",
		Short:         "Search a remote book catalog from the terminal",
		Version:       GitTag,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.OneShot = cmd.Flags().Changed("query")
			return run(opts)
		},
	}
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "./config.yml", "path to the yaml configuration file")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "./config.env", "path to the dotenv file")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search once, print the results and exit")
	cmd.Flags().IntVarP(&opts.Width, "width", "w", 0, "layout width in columns for --query (defaults to the terminal width)")
	return cmd
}

func runApp(opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	return app.Run()
}

func main() {
	if err := NewRootCommand(runApp).Execute(); err != nil {
		log.Fatal("booksearch exited. check logs for more details. ", err)
	}
}
