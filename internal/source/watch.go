package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// frameExts are the file types WatchDir decodes
var frameExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// WatchDir feeds live with every image written into dir, starting with the newest one
// already there. It blocks until ctx is cancelled.
func WatchDir(ctx context.Context, dir string, live *Live, logger *log.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create frame watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if path, ok := newestFrame(dir); ok {
		pushFile(path, live, logger)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isFrame(event.Name) {
				continue
			}
			pushFile(event.Name, live, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("frame watcher error", "err", err)
		}
	}
}

// LoadLatest decodes the newest image in dir
func LoadLatest(dir string) (*Still, error) {
	path, ok := newestFrame(dir)
	if !ok {
		return nil, fmt.Errorf("no frames in %s", dir)
	}
	return LoadStill(path)
}

func pushFile(path string, live *Live, logger *log.Logger) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		// A frame still being written fails to decode; its next write event retries
		logger.Debug("skipping frame", "path", path, "err", err)
		return
	}
	live.Push(img)
	logger.Debug("frame received", "path", filepath.Base(path), "size", img.Bounds().Size())
}

func isFrame(path string) bool {
	return frameExts[strings.ToLower(filepath.Ext(path))]
}

func newestFrame(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || !isFrame(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest, newestMod = filepath.Join(dir, e.Name()), mod
		}
	}
	return newest, newest != ""
}
