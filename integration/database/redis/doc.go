// Package redis provides Redis client initialization and the Redis-backed
// session archive.
//
// Connect creates a go-redis client with retry logic and a verification
// ping. Configuration maps from the environment and supports both redis://
// and rediss:// URL schemes:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Session Archive
//
// Archive implements the session.Archive contract. The record set is
// stored JSON-encoded under a single namespaced key and replaced
// atomically on every Save, so deployments sharing one Redis can hand
// authenticated sessions across restarts:
//
//	store := session.NewStore(
//		session.WithArchive(redis.NewArchive(client, cfg)),
//	)
//
// ArchiveTTL bounds how long a stale archive survives; an instance that
// never comes back does not leave sessions behind forever.
//
// # Health
//
// Healthcheck returns a ping function for readiness probes.
package redis
