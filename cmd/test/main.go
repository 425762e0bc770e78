// Command test serves a fake chain API with the four endpoints the explorer polls,
// so the home page can be run locally without a node.
package main

import (
	"flag"
	"fmt"
	"os"

	"plug-explorer/src/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:26657", "listen address")
	envelope := flag.String("envelope", "success", "response envelope: success, status or none")
	failRate := flag.Float64("fail", 0, "fraction of requests answered with HTTP 500")
	flag.Parse()

	appLogger := logger.NewLogger("INFO", "MockChain")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	chain := newMockChain(*envelope, *failRate)
	chain.register(engine)
	go chain.run()

	appLogger.Info("Mock chain API on http://%s (envelope %s)", *addr, *envelope)
	if err := engine.Run(*addr); err != nil {
		fmt.Printf("mock chain failed: %v\n", err)
		os.Exit(1)
	}
}
