// Package session keeps the live robot sessions of a server process.
//
// Each session owns an engine built from a private copy of its scenario and
// a robot.Module bound to that engine, so two sessions never share position,
// paint or action counters. The engine's Action callback is the session's
// RecordAction, which feeds the per-session event history.
//
// Session IDs are matched case-insensitively. When Create is given an empty
// ID the manager generates a short one from a random UUID.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", scenario, engine.WithActionLimit(200))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions are removed explicitly with Delete or in bulk by
// CleanupExpiredSessions, which the server runs on a ticker.
package session
