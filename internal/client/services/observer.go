package services

import "context"

// Observer is told when the set of stored notes changed so a list view can
// refresh itself.
type Observer interface {
	NotesChanged(ctx context.Context)
}

type ObserverFunc func(ctx context.Context)

func (f ObserverFunc) NotesChanged(ctx context.Context) { f(ctx) }

type nopObserver struct{}

func (nopObserver) NotesChanged(context.Context) {}
