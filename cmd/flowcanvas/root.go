package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	brand  = color.New(color.FgCyan, color.Bold)
	subtle = color.New(color.Faint)
	good   = color.New(color.FgGreen)
	accent = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:           "flowcanvas",
	Short:         "Headless flow graph canvas",
	Long:          brand.Sprint("flowcanvas") + " keeps the state of a node/edge canvas and its camera\n" + subtle.Sprint("Serve an inspector over HTTP or fit a saved graph from the command line"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("flowcanvas {{ .Version }}\n")
	rootCmd.AddCommand(
		serveCmd(),
		fitCmd(),
		versionCmd(),
	)
}
