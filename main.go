package main

import (
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/playkit/gameroom/cmd"
	"github.com/playkit/gameroom/internal/rest"
	"github.com/playkit/gameroom/internal/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	bootLogger, _ := zap.NewDevelopment()

	config, err := cmd.ParseConfig(*configPath, bootLogger)
	if err != nil {
		bootLogger.Fatal("failed to parse config", zap.Error(err))
	}

	logger, err := utils.NewCustomLogger(config.Apps.LogLevel)
	if err != nil {
		bootLogger.Fatal("failed to create logger", zap.Error(err))
	}
	defer logger.Sync()

	restApp := rest.NewRest(&rest.Config{
		Port:       config.Apps.Rest.Port,
		MaxUsers:   config.Rooms.MaxUsers,
		MinUsers:   config.Rooms.MinUsers,
		PingPeriod: time.Duration(config.Rooms.PingPeriodSec) * time.Second,
		Logger:     logger,
	})

	appsManager := cmd.NewAppsManager(logger)

	appsManager.Register(cmd.RestApp, restApp)
	appsManager.RunAll()
	appsManager.WaitForShutdown()
}
