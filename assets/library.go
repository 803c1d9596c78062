package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/oomph-ac/locomotion/launch"
	"github.com/sirupsen/logrus"
)

// Library is a set of named launch parameters loaded from YAML files. It implements
// launch.Library and is safe to reload while it is being read.
type Library struct {
	log *logrus.Logger

	mu     sync.RWMutex
	params map[string]launch.Params
}

// NewLibrary returns an empty library.
func NewLibrary(log *logrus.Logger) *Library {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Library{log: log, params: make(map[string]launch.Params)}
}

// Params returns the launch parameters stored under name.
func (l *Library) Params(name string) (launch.Params, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.params[name]
	return p, ok
}

// Names returns the sorted names of every launch in the library.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.params))
	for name := range l.params {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load adds the launches of one file, replacing launches with the same name.
func (l *Library) Load(filename string) error {
	doc, err := LoadDocument(filename)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for name, spec := range doc.Launches {
		l.params[name] = spec.Params()
	}
	return nil
}

// LoadDir replaces the library with the launches of every YAML file in dir. On error the library
// is left untouched.
func (l *Library) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("assets: read %s: %w", dir, err)
	}

	params := make(map[string]launch.Params)
	for _, e := range entries {
		if e.IsDir() || !isAssetFile(e.Name()) {
			continue
		}
		filename := filepath.Join(dir, e.Name())
		doc, err := LoadDocument(filename)
		if err != nil {
			return err
		}
		for name, spec := range doc.Launches {
			if _, ok := params[name]; ok {
				l.log.WithField("asset", name).Warnf("launch asset redefined in %s", filename)
			}
			params[name] = spec.Params()
		}
	}

	l.mu.Lock()
	l.params = params
	l.mu.Unlock()
	l.log.WithField("dir", dir).Debugf("loaded %d launch assets", len(params))
	return nil
}
