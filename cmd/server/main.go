package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fullerryanc-MDA/aureal-permissionlink-web/internal/app"
)

func main() {
	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	a, err := app.New(*configFile)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v\n", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		if err := a.Close(); err != nil {
			log.Printf("Shutdown error: %v\n", err)
		}
	}()

	if err := a.Run(); err != nil {
		log.Fatalf("Application error: %v\n", err)
	}
}
