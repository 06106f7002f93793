package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/routes"
)

func main() {
	_ = godotenv.Load()

	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	addr := os.Getenv("API_ADDR")
	if len(addr) == 0 {
		addr = ":3000"
	}

	r := routes.SetupRouter()
	// running
	if err := r.Listen(addr); err != nil {
		config.Logger.Fatal(err)
	}
}
