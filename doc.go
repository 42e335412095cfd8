// Package scribble is the composition root for the scribble note taker.
//
// It connects the core note logic (store, search, dictation capture) with the
// storage and dictation adapters using the Hexagonal Architecture pattern.
//
// Notes are short free-text entries kept newest first in a single durable slot.
// A slot is one key of a string key-value store; the default adapter keeps it as a
// JSON file, and Badger, SQLite and in-memory backends are available by name.
// Text can be typed or dictated through an external speech recognizer.
//
// Usage:
//
//	svc, err := scribble.New("./notes",
//		scribble.WithAdapter("fs"),
//		scribble.WithLogger(logger),
//	)
//
//	note, err := svc.CreateNote(ctx, "buy milk")
//	hits := svc.Search("MILK")
package scribble
