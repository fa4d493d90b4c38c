package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"voicescribe/cmd/voicescribe/cmd/export"
	"voicescribe/cmd/voicescribe/cmd/serve"
	"voicescribe/cmd/voicescribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voicescribe",
	Short: "A service that transcribes short audio uploads and retains the source audio",
	Long: `voicescribe accepts short binary audio uploads over HTTP, normalizes them
with ffmpeg, transcribes them with a remote speech-to-text provider, persists
the transcript with metadata and durably retains the source audio in blob
storage.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
