package watch

import (
	"context"
	"time"

	"fls/internal/log"
)

// Loop calls render once for every burst of changes, waiting debounce after
// the last event of a burst. It returns when ctx is done.
func Loop(ctx context.Context, changes <-chan Change, debounce time.Duration, render func()) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := 0

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case c := <-changes:
			pending++
			log.LogWithFields(log.F("path", c.Path), log.F("op", c.Op.String())).Debug("change")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case <-timer.C:
			log.Debugf("re-rendering after %d changes", pending)
			pending = 0
			render()
		}
	}
}

// Run watches dirs and calls render after each burst of changes until ctx is
// done.
func Run(ctx context.Context, dirs []string, debounce time.Duration, render func()) error {
	w, err := New()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.AddDirectory(dir); err != nil {
			w.fsWatcher.Close()
			return err
		}
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	log.LogWithFields(log.F("directories", w.GetDirectories())).Debug("watching for changes")

	Loop(ctx, w.Changes(), debounce, render)
	return nil
}
