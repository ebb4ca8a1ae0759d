package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCmd represents the base command for the tone-mcp application
var rootCmd = &cobra.Command{
	Use:   "tone-mcp",
	Short: "MCP server for the tone task management service",
	Long: `tone-mcp exposes the tone task management API to AI assistants as
Model Context Protocol tools: reading workspaces, lists, tasks, users and
task templates, and creating or updating tasks.

Running tone-mcp without a subcommand starts the server on stdio:

  tone-mcp --secret <your-secret>
  TONE_AI_USER_SECRET=<your-secret> tone-mcp`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// secretFlag holds --secret / -s. It is persistent so that both
// "tone-mcp -s x" and "tone-mcp serve -s x" work.
var secretFlag string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "tone-mcp version %s\n" .Version}}`)
	rootCmd.SetArgs(defaultToServe(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// defaultToServe prepends the serve subcommand when args name no
// subcommand, so that bare flags such as "--secret x" start the server.
// Flag values are skipped, so "-s x serve" is left alone.
func defaultToServe(args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "-v", "--version", "help", "completion", "__complete", "__completeNoDesc":
			return args
		}

		if !strings.HasPrefix(arg, "-") {
			// a subcommand, or a stray positional argument cobra will reject
			return args
		}
		if flagTakesValue(arg) {
			i++
		}
	}
	return append([]string{"serve"}, args...)
}

// flagTakesValue reports whether arg is a root or serve flag whose value is
// the next argument.
func flagTakesValue(arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}

	var sets []*pflag.FlagSet
	sets = append(sets, rootCmd.PersistentFlags())
	if serve, _, err := rootCmd.Find([]string{"serve"}); err == nil && serve != rootCmd {
		sets = append(sets, serve.Flags())
	}

	for _, fs := range sets {
		var f *pflag.Flag
		switch {
		case strings.HasPrefix(arg, "--"):
			f = fs.Lookup(arg[2:])
		case len(arg) == 2:
			f = fs.ShorthandLookup(arg[1:])
		}
		if f != nil {
			return f.NoOptDefVal == ""
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&secretFlag, "secret", "s", "",
		"tone user secret. Can also use the "+envSecret+" env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
