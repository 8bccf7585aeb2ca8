// Package config loads engine settings from the environment.
//
// Load populates any env-tagged struct, optionally sourcing .env files
// first. Settings is the ready-made struct for the decision engine: where
// the datafile lives and which profile backend keeps sticky assignments.
// Its methods turn parsed values into live collaborators:
//
//	var cfg config.Settings
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	snap, err := cfg.Snapshot.Load()
//	if err != nil {
//		return err
//	}
//	store, err := cfg.Profile.NewStore(ctx)
//	if err != nil {
//		return err
//	}
//	svc := decision.New(snap, decision.WithProfileStore(store))
package config
