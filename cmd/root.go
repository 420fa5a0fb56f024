package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.3.2"
)

var rootCmd = &cobra.Command{
	Use:   "shopsim",
	Short: "Deterministic e-commerce dataset generator, loader and report engine",
	Long: `
ShopSim produces a synthetic but internally consistent e-commerce dataset,
loads it into a local SQLite store under foreign-key enforcement, and runs
integrity checks and cohort/revenue analytics over the result.

Pipeline:
  shopsim generate   write the five CSV datasets for a given seed
  shopsim load       reset the store and load the CSVs in one transaction
  shopsim report     run integrity checks and write report.json / report.md
  shopsim query      execute a read-only analytical query definition
  shopsim serve      serve the repo root, redirecting / to /frontend/`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("shopsim version %s\n", Version)
			return
		}
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./shopsim.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("shopsim.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
