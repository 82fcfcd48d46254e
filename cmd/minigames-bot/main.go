package main

import (
	"github.com/devdussey/Dussbot-sub002/internal/app"
	"github.com/devdussey/Dussbot-sub002/internal/logger"
)

func main() {
	// Initialize colored logger with emoji removal
	logger.Init()

	// Run the bot with all minigame modules
	app.Run()
}
