package main

import (
	"github.com/RECTo0/PokerPlanning/internal/app"
	"github.com/RECTo0/PokerPlanning/internal/config"
)

func main() {
	app.Go(config.Load())
}
