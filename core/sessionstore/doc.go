// Package sessionstore provides session.Store implementations for the
// storage scopes an admin client runs against.
//
//   - Memory: per-process scope; also the store of choice in tests
//   - File: JSON document on disk, the persistent scope of a single
//     workstation
//   - Redis: shared scope for kiosk and front-desk deployments where
//     several terminals present one signed-in station
//
// All implementations satisfy the same contract: Save atomically replaces
// the previous session and Clear removes every field together. None of
// them encrypts at rest; deployments needing that should wrap the store.
//
// # Choosing a Store
//
//	store := sessionstore.NewMemory()
//
//	store, err := sessionstore.NewFile(filepath.Join(cfgDir, "session.json"))
//
//	client, err := sessionstore.ConnectRedis(ctx, redisCfg)
//	store = sessionstore.NewRedis(client, "gymdesk:session:front-desk")
package sessionstore
