// Package profile persists sticky bucketing assignments so repeat visits
// return the same variation even when later configuration changes would
// bucket the user differently.
//
// The Store contract is deliberately small: look up all assignments for a
// user, or save one (user, experiment) -> variation mapping. Stores are
// not assumed transactional; the decision service issues independent
// read-then-write pairs and last-write-wins is the accepted consistency
// model. A store may be slow, absent, or failing; callers treat every
// error as "no sticky data", never as a decision failure.
//
// Three implementations ship with the package:
//
//   - MemoryStore: RWMutex-guarded map, for tests and single-process use.
//   - RedisStore: one Redis hash per user with optional TTL.
//   - PostgresStore: a single upsert-driven table; DDL in Schema.
//
// The Redis and Postgres constructors mirror the connection idiom used
// elsewhere in this module: an env-taggable Config struct and a Connect
// helper with bounded retries.
//
//	cfg := profile.RedisConfig{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := profile.ConnectRedis(ctx, cfg)
//	if err != nil {
//		// no sticky bucketing; decisions still work
//	}
//	store := profile.NewRedisStore(client, cfg)
package profile
