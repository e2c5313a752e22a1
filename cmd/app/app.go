package main

import (
	"os"

	"github.com/DRSN-tech/inventory-backend/internal/app"
	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

//	@title			Inventory API
//	@version		1.0
//	@description	Учёт товаров: каталог, архив и удаление с подтверждением
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	log := logger.NewSlogLogger()
	config.LoadDotEnv(log)

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
