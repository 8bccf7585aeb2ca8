package logger

import "log/slog"

// Error returns an error attribute, or an empty one for nil so callers can
// log unconditionally.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// UserID tags a record with the deciding user.
func UserID(id string) slog.Attr { return slog.String("user_id", id) }

// ExperimentKey tags a record with the experiment being decided.
func ExperimentKey(key string) slog.Attr { return slog.String("experiment_key", key) }

// VariationKey tags a record with the decided variation.
func VariationKey(key string) slog.Attr { return slog.String("variation_key", key) }

// FeatureKey tags a record with the feature flag being decided.
func FeatureKey(key string) slog.Attr { return slog.String("feature_key", key) }

// Revision tags a record with the active snapshot revision.
func Revision(rev string) slog.Attr { return slog.String("revision", rev) }

// Source tags a record with the decision stage that produced the outcome.
func Source(src string) slog.Attr { return slog.String("source", src) }

// Component names the engine part emitting the record.
func Component(name string) slog.Attr { return slog.String("component", name) }
