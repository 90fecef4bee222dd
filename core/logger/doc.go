// Package logger provides slog construction and attribute helpers shared
// across the framework's packages.
//
// New builds a configured *slog.Logger:
//
//	log := logger.New(logger.WithDevelopment("myapp"))
//	log := logger.New(logger.WithProduction("myapp"))
//
// Helpers return an empty slog.Attr for nil or zero inputs, which slog
// silently drops, so call sites never need nil checks:
//
//	log.Info("request served",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Entity("orders"),
//		logger.Error(err), // empty Attr when err is nil
//	)
//
// Session tokens are credentials; only the stable session ID is ever logged.
package logger
