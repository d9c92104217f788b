package main

import (
	"os"

	"volops/core/logger"
	"volops/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
