// Package registry assembles every application definition in a directory
// into an immutable, per-OS registry with a process-name index.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/logger"
)

// ErrDirectoryUnreadable is returned by Build when the definitions
// directory cannot be listed. The registry returned with it is empty.
var ErrDirectoryUnreadable = errors.New("definitions directory unreadable")

// ApplicationID is the declared app.id of a definition. It is stable
// across rebuilds and independent of file order.
type ApplicationID string

// FileFailure records a definition file that contributed nothing.
type FileFailure struct {
	File string
	Err  error
}

// BuildReport summarises one Build.
type BuildReport struct {
	Dir            string
	OS             definition.OS
	Scanned        int
	Loaded         int
	Failures       []FileFailure
	SkippedActions []*definition.ActionError
	// Replaced lists ids declared by more than one file.
	Replaced []ApplicationID
	// Collisions lists process names claimed by more than one application.
	Collisions []string
}

// Registry maps ApplicationIDs to Applications for one OS. A Registry is
// never mutated after Build returns and is safe for concurrent readers.
type Registry struct {
	os        definition.OS
	apps      map[ApplicationID]*definition.Application
	byProcess map[string]ApplicationID
	ids       []ApplicationID
	report    BuildReport
}

// Build scans dir (non-recursively, in file-name order) and loads every
// definition file for os. Per-file problems are logged and skipped. When
// the directory itself cannot be read, Build returns an empty registry and
// an error wrapping ErrDirectoryUnreadable.
func Build(dir string, os definition.OS) (*Registry, error) {
	log := logger.NewLogger("registry").WithFields(logrus.Fields{"dir": dir, "os": os})
	b := newBuilder(os)
	b.report.Dir = dir

	entries, err := readDir(dir)
	if err != nil {
		log.WithError(err).Error("Cannot read definitions directory")
		return b.finish(), fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := definition.FormatForPath(name); !ok {
			continue
		}
		path := filepath.Join(dir, name)
		b.report.Scanned++

		app, issues, err := definition.Load(path, os)
		b.report.SkippedActions = append(b.report.SkippedActions, issues...)
		if err != nil {
			log.WithField("file", path).WithError(err).Error("Skipping definition")
			b.report.Failures = append(b.report.Failures, FileFailure{File: path, Err: err})
			continue
		}
		b.add(app, log)
	}

	reg := b.finish()
	log.WithFields(logrus.Fields{
		"applications": reg.Len(),
		"failed":       len(reg.report.Failures),
	}).Debug("Registry built")
	return reg, nil
}

// New builds a registry from already resolved applications, applying the
// same replacement and collision rules as Build.
func New(os definition.OS, apps ...*definition.Application) *Registry {
	log := logger.NewLogger("registry").WithField("os", os)
	b := newBuilder(os)
	for _, app := range apps {
		b.add(app, log)
	}
	return b.finish()
}

// Empty returns a registry with no applications.
func Empty(os definition.OS) *Registry {
	return newBuilder(os).finish()
}

func readDir(dir string) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory")
	}
	return os.ReadDir(dir)
}

type builder struct {
	reg    *Registry
	report BuildReport
}

func newBuilder(os definition.OS) *builder {
	return &builder{
		reg: &Registry{
			os:        os,
			apps:      make(map[ApplicationID]*definition.Application),
			byProcess: make(map[string]ApplicationID),
		},
		report: BuildReport{OS: os},
	}
}

func (b *builder) add(app *definition.Application, log *logrus.Entry) {
	id := ApplicationID(app.ID)
	process := processKey(app.ProcessName)

	if old, ok := b.reg.apps[id]; ok {
		log.WithFields(logrus.Fields{
			"app":      id,
			"previous": old.Source,
			"file":     app.Source,
		}).Warn("Duplicate application id, later definition wins")
		b.report.Replaced = append(b.report.Replaced, id)
		if b.reg.byProcess[processKey(old.ProcessName)] == id {
			delete(b.reg.byProcess, processKey(old.ProcessName))
		}
	}
	if owner, ok := b.reg.byProcess[process]; ok && owner != id {
		log.WithFields(logrus.Fields{
			"process":  app.ProcessName,
			"previous": owner,
			"app":      id,
		}).Warn("Process name claimed by two applications, later definition wins")
		b.report.Collisions = append(b.report.Collisions, process)
	}

	b.reg.apps[id] = app
	b.reg.byProcess[process] = id
	b.report.Loaded++
}

func (b *builder) finish() *Registry {
	reg := b.reg
	reg.ids = make([]ApplicationID, 0, len(reg.apps))
	for id := range reg.apps {
		reg.ids = append(reg.ids, id)
	}
	sort.Slice(reg.ids, func(i, j int) bool { return reg.ids[i] < reg.ids[j] })
	reg.report = b.report
	return reg
}

// processKey normalises process names for lookup. Matching is
// case-insensitive on every OS.
func processKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// OS returns the operating system the registry was resolved for.
func (r *Registry) OS() definition.OS {
	return r.os
}

// Application returns the application with the given id.
func (r *Registry) Application(id ApplicationID) (*definition.Application, bool) {
	app, ok := r.apps[id]
	return app, ok
}

// LookupProcess returns the id of the application owning a process name.
func (r *Registry) LookupProcess(process string) (ApplicationID, bool) {
	id, ok := r.byProcess[processKey(process)]
	return id, ok
}

// ApplicationForProcess combines LookupProcess and Application.
func (r *Registry) ApplicationForProcess(process string) (*definition.Application, bool) {
	id, ok := r.LookupProcess(process)
	if !ok {
		return nil, false
	}
	return r.Application(id)
}

// IDs returns every ApplicationID in sorted order.
func (r *Registry) IDs() []ApplicationID {
	return append([]ApplicationID(nil), r.ids...)
}

// Applications returns every application in ApplicationID order.
func (r *Registry) Applications() []*definition.Application {
	out := make([]*definition.Application, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.apps[id])
	}
	return out
}

// Len returns the number of applications.
func (r *Registry) Len() int {
	return len(r.apps)
}

// Report returns the summary of the build that produced r.
func (r *Registry) Report() BuildReport {
	return r.report
}

// Bindings flattens the registry into key bindings for conflict analysis.
// Each action's focus state is its bucket.
func (r *Registry) Bindings() []keys.Binding {
	var out []keys.Binding
	for _, app := range r.Applications() {
		for _, a := range app.Actions() {
			out = append(out, keys.Binding{
				App:       app.ID,
				AppName:   app.Name,
				Bucket:    a.FocusState.String(),
				Action:    a.Name,
				ActionKey: a.Key,
				Chord:     a.Chord,
				Source:    app.Source,
			})
		}
	}
	return out
}
