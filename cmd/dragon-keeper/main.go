// Package main is the dragon-keeper command line game
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

var (
	configPath string
	logLevel   string
	storeName  string
	redisAddr  string
)

// flagKeys maps config keys to the persistent flags that override them
var flagKeys = map[string]string{
	"log.level":        "log-level",
	"store.backend":    "store",
	"store.redis_addr": "redis-addr",
}

var rootCmd = &cobra.Command{
	Use:   "dragon-keeper",
	Short: "Raise, train and battle dragons",
	Long: `dragon-keeper is a single player dragon raising game. Feed and train
your roster, buy eggs and skins in the shop, roll the gacha and battle
opponents turn by turn.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "memory", "Session store (memory or redis)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address; comma separated for cluster or sentinels")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(battleCmd)
	rootCmd.AddCommand(catalogCmd)
}
