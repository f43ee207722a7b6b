package pubsite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// Watch reloads content whenever a file under the content, pages, images or
// static directory changes, until ctx is cancelled. Bursts of events are
// coalesced into one reload. When rebuild is true the static output is
// rebuilt as well.
func (a *App) Watch(ctx context.Context, rebuild bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pubsite: create watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range []string{a.Config.ContentDir, a.Config.PagesDir, a.Config.ImagesDir, a.Config.StaticDir} {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			a.Logger().Debugf("not watching %s: directory does not exist", root)
			continue
		}
		if err := a.watchTree(watcher, root); err != nil {
			return err
		}
	}

	refresh := func() {
		if rebuild {
			if _, err := a.Build(ctx); err != nil {
				a.Logger().Errorf("rebuild: %v", err)
			}
			return
		}
		if err := a.Reload(ctx); err != nil {
			a.Logger().Errorf("reload: %v", err)
		}
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			a.Logger().Debugf("change detected: %s (%s)", event.Name, event.Op)
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := a.watchTree(watcher, event.Name); err != nil {
						a.Logger().Warnf("watch %s: %v", event.Name, err)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.Logger().Warnf("watcher: %v", err)
		}
	}
}

// watchTree adds root and its subdirectories; fsnotify does not recurse.
func (a *App) watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			a.Logger().Warnf("walk %s: %v", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("pubsite: watch %s: %w", p, err)
		}
		return nil
	})
}
