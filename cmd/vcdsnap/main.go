package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vcdsnap",
		Short:         "Manage the snapshot of a vCloud Director VM or vApp",
		Long:          "vcdsnap queries, creates, removes and reverts the single snapshot a vCloud Director entity may carry.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("host", "", "vCloud Director hostname")
	flags.Uint64("port", 443, "vCloud Director port")
	flags.String("org", "", "organization for login")
	flags.String("user", "", "username for login")
	flags.String("password", "", "password for login")
	flags.String("token", "", "pre-issued session token (alternative to user/password)")
	flags.String("api-version", "5.1", "API version pinned into the Accept header")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Bool("force", false, "approve destructive operations without prompting")
	flags.Bool("decline", false, "decline destructive operations without prompting")
	flags.Bool("json", false, "render output as JSON instead of a table")
	flags.Bool("debug", false, "log every request at debug level")

	viper.SetEnvPrefix("VCD")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	rootCmd.AddCommand(
		newGetCmd(),
		newCreateCmd(),
		newRemoveCmd(),
		newRevertCmd(),
	)
	return rootCmd
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
