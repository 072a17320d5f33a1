package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	budgetcmd "fjacquet/fincat/cmd/budget"
	"fjacquet/fincat/cmd/categories"
	"fjacquet/fincat/cmd/categorize"
	"fjacquet/fincat/cmd/recategorize"
	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/cmd/train"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables silently so log level is known before
	// any logging happens.
	loadEnvSilently()
	logrus.SetLevel(parseLogLevel())

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(budgetcmd.Cmd)
	root.Cmd.AddCommand(train.Cmd)
	root.Cmd.AddCommand(recategorize.Cmd)
}

func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func parseLogLevel() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
