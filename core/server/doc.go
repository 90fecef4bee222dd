// Package server provides a graceful HTTP server wrapper with lifecycle
// management and shutdown hooks.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownHook(store.SaveAll),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	if err := srv.Start(ctx, dispatcher); err != nil && !errors.Is(err, context.Canceled) {
//		log.Error("server failed", logger.Error(err))
//	}
//	if err := srv.Stop(); err != nil {
//		log.Error("shutdown failed", logger.Error(err))
//	}
//
// # Shutdown Hooks
//
// Hooks registered with WithShutdownHook run after in-flight requests have
// drained, in registration order. The session store's SaveAll fits the
// signature directly, so authenticated sessions survive a restart.
//
// # Errgroup Integration
//
// Run returns a closure compatible with errgroup.Group for coordinating
// multiple long-running components:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, dispatcher))
//
// # Configuration
//
// Config carries address, timeouts and optional TLS files from the
// environment:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg)
package server
