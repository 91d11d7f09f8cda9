// Package logging builds the process-wide structured logger.
//
// # Overview
//
// stockdesk logs through the standard library's log/slog. This package
// constructs the handler from configuration (level and format) and wraps it
// with API-key redaction so credentials never reach log output, even when a
// caller logs a request header map or a config struct field by mistake.
//
//	logger, err := logging.New(cfg.Logging, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// Components derive their own loggers with slog's With:
//
//	log := slog.Default().With("component", "gateway")
package logging
