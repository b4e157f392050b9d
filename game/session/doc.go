// Package session provides in-memory session management for the box puzzle
// server.
//
// Manager stores one engine per session, keyed by a short identifier. IDs
// are four hex characters taken from a random UUID and checked for
// collisions; lookups are case-insensitive. Sessions are not persisted:
// restarting the server starts every puzzle over.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Idle sessions are removed with Expire; the server runs it on a ticker.
package session
