package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/services"
	"github.com/zsmartex/mlm/workers/daemons"
)

func CreateWorker(id string, engine *services.Engine) daemons.Worker {
	switch id {
	case "cron_job":
		return daemons.NewCronJob(engine)
	case "migrate":
		return daemons.NewMigration(config.DataBase, engine)
	default:
		return nil
	}
}

func main() {
	_ = godotenv.Load()

	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	engine := services.NewEngine(config.DataBase)

	ARVG := os.Args[1:]

	for _, id := range ARVG {
		fmt.Println("Start mlm-daemon: " + id)
		worker := CreateWorker(id, engine)
		if worker == nil {
			fmt.Println("Unknown worker: " + id)
			os.Exit(1)
		}

		worker.Start()
	}
}
