package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omap-tiler/utrfill/pkg/cmd/fill"
	"github.com/omap-tiler/utrfill/pkg/cmd/parse"
	"github.com/omap-tiler/utrfill/pkg/cmd/publish"
	"github.com/omap-tiler/utrfill/pkg/version"
)

const (
	defaultLogFile = "utrfill.log"
	envPrefix      = "UTRFILL"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "utrfill",
	Short: "UTR filler",
	Long:  `utrfill reads MemMgr/D2C test logs and fills the Status and Comments of the Tiler Unit Test Report (UTR)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
		log.SetOutput(os.Stdout)

		logFile := viper.GetString("log-file")
		if logFile == "" {
			return
		}
		fdLog, err := os.OpenFile(logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", logFile, err)
			return
		}
		log.AddHook(&logwriter.Hook{
			Writer:    fdLog,
			LogLevels: log.AllLevels,
		})
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

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String("log-file", defaultLogFile, "file receiving a copy of the logs, empty to disable")
	rootCmd.PersistentFlags().String("config", "", "config file (yaml, json or toml) with flag defaults and the UTR layout")
	initBindFlag("log-level")
	initBindFlag("log-file")
	initBindFlag("config")

	rootCmd.AddCommand(fill.NewCmdFill())
	rootCmd.AddCommand(parse.NewCmdParse())
	rootCmd.AddCommand(publish.NewCmdPublish())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "unable to read config file %s: %v\n", cfg, err)
			os.Exit(1)
		}
	}
}
