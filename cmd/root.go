package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/immodash/immodash/internal/utils"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `  _                           _           _
 (_)_ __ ___  _ __ ___   ___   __| | __ _ ___| |__
 | | '_ ' _ \| '_ ' _ \ / _ \ / _' |/ _' / __| '_ \
 | | | | | | | | | | | | (_) | (_| | (_| \__ \ | | |
 |_|_| |_| |_|_| |_| |_|\___/ \__,_|\__,_|___/_| |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "immodash",
	Short: "The real-estate agent's daily dashboard.",
	Long: LOGO + `immodash keeps your prospecting log, monthly goals and idea box in one local store,
and turns raw notes into structured property reports with an AI model.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.immodash.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy for AI calls (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("store", "", "Path to the SQLite store (default: ~/.config/immodash/immodash.sqlite)")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".immodash")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("immodash")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default empty values for all keys
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.endpoint", "")
	viper.SetDefault("ai.proxy_url", "")
	viper.SetDefault("server.bind", ":9999")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")
	viper.SetDefault("store.path", "")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.immodash.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
