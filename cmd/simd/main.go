package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"drivesim.dev/internal/simstub"
)

// simd serves the deterministic reference simulator over the smoke wire
// protocol, for running the suite without a full simulator build.
func main() {
	var (
		addr    = flag.String("addr", ":2000", "listen address")
		mapName = flag.String("map", "Town05_Opt", "initially loaded map")
		dt      = flag.Float64("dt", simstub.DefaultTickSeconds, "fixed tick length in seconds")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[simd] ", log.LstdFlags|log.Lmicroseconds)

	world := simstub.New(simstub.Config{Map: *mapName, TickSeconds: *dt})
	srv := simstub.NewServer(world, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Printf("listening on %s (map %s, dt %.3fs)", *addr, *mapName, *dt)
	if err := httpSrv.ListenAndServe(); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}
