package main

import (
	"log"
	"time"

	"studio/config"
	"studio/database"
	"studio/media"
	"studio/routers"
	"studio/storage"
	"studio/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	if err := storage.Load(); err != nil {
		log.Fatalf("Failed to configure storage: %v", err)
	}
	media.Configure(config.AppConfig.FFprobeBin, time.Duration(config.AppConfig.ProbeTimeoutSeconds)*time.Second)

	utils.InitializeFileCleanupScheduler()

	app := routers.NewApp()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
