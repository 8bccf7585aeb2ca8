// Package logger builds slog loggers with consistent attribute naming for
// the decision engine.
//
// New assembles a *slog.Logger from functional options: output format,
// level, static attributes, and context extractors that pull request-scoped
// values into every record. The helpers in attr.go keep the field names
// used across decisions (user_id, experiment_key, variation_key, ...) in
// one place.
//
//	log := logger.New(
//		logger.WithProduction("experiments"),
//		logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	log.InfoContext(ctx, "variation decided",
//		logger.UserID(user.ID),
//		logger.ExperimentKey(d.ExperimentKey),
//		logger.VariationKey(d.VariationKey),
//	)
package logger
