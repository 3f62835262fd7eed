package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/otherview/key-weaver/cmd/flags"
	"github.com/otherview/key-weaver/httpserver"
	"github.com/otherview/key-weaver/interfaces"
	"github.com/otherview/key-weaver/storage"
	"github.com/otherview/key-weaver/weaver"
	"github.com/urfave/cli/v2"
)

var serverFlags = append([]cli.Flag{
	flags.ListenAddrFlag,
	flags.StorageFlag,
	flags.LogServiceFlagFn("key-weaver"),
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "key-weaver-server",
		Usage: "Serve the deterministic wallet derivation and recovery API",
		Flags: serverFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			storageURIs := cCtx.StringSlice(flags.StorageFlag.Name)
			locations := make([]interfaces.StoreLocation, 0, len(storageURIs))
			for _, uri := range storageURIs {
				locations = append(locations, interfaces.StoreLocation(uri))
			}

			storeFactory := storage.NewStoreFactory(logger)
			store, err := storeFactory.CreateMultiStore(locations)
			if err != nil {
				logger.Error("Failed to configure wallet stores", "err", err)
				return err
			}
			logger.Info("Wallet store configured", "store", store.Name())

			handler := httpserver.NewHandler(weaver.NewRegistrar(logger), store, logger)

			cfg := flags.ConfigureServer(cCtx, logger, cCtx.String(flags.ListenAddrFlag.Name))
			server, err := httpserver.New(cfg, handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
