// Package redis connects to a Redis server with retry and exposes a
// readiness probe for it. It is used when session state must survive
// process restarts or be shared between replicas.
package redis
