package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"btcfeed/internal/infrastructure/config"
	"btcfeed/internal/infrastructure/logger"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to config.toml (empty: built-in defaults + env)",
		Value:   "configs/config.toml",
		EnvVars: []string{config.EnvPrefix + "CONFIG"},
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "override log.level (debug, info, warn, error)",
	}
)

func main() {
	logger.Setup()

	// .env 是可选的
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("load .env failed")
	}

	app := cli.NewApp()
	app.Name = "btcfeed"
	app.Usage = "multi-venue BTC best-price stream"
	app.Flags = []cli.Flag{configFlag, logLevelFlag}
	app.Commands = append(
		app.Commands,
		&run,
		&venues,
		&watch,
	)
	app.DefaultCommand = run.Name

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("btcfeed exited")
	}
}

// loadConfig 读取配置并按配置重建全局 logger
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String(configFlag.Name)
	if _, err := os.Stat(path); err != nil && os.IsNotExist(err) && !c.IsSet(configFlag.Name) {
		// 默认路径不存在时只用内置表和环境变量
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl := c.String(logLevelFlag.Name); lvl != "" {
		cfg.Log.Level = lvl
	}

	if err := logger.Configure(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return nil, err
	}
	log.Info().Str("config", path).Msg("config loaded")
	return cfg, nil
}
