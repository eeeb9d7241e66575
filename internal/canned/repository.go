// Package canned manages the named boilerplate paragraphs a user can drop
// into a letter's custom section.
package canned

import (
	"errors"
	"io/fs"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/maruel/natural"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// Sentinel is the "no selection" entry. It always exists, always lists
// first and cannot be changed.
const Sentinel = "Sélectionner un message..."

// Entry is one canned template.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Body string `json:"body" yaml:"body"`
}

// Store is the durable side of a Repository. Load returns an error matching
// fs.ErrNotExist when nothing has been stored yet.
type Store interface {
	Load() (map[string]string, error)
	Save(map[string]string) error
}

// Defaults returns the collection written on first use.
func Defaults() map[string]string {
	return map[string]string{
		Sentinel:        "",
		"Enthousiasme":  "Je suis particulièrement enthousiaste à l'idée de rejoindre votre équipe et de contribuer activement à vos projets innovants.",
		"Disponibilité": "Je suis disponible immédiatement et prêt(e) à m'investir pleinement dans ce nouveau défi professionnel.",
		"Motivation":    "Votre entreprise correspond parfaitement à mes aspirations professionnelles et je suis convaincu(e) de pouvoir apporter une réelle valeur ajoutée à votre équipe.",
		"Expertise":     "Mon expertise dans ce domaine, acquise au fil de mes expériences, sera un atout précieux pour ce poste.",
		"Adaptation":    "Ma capacité d'adaptation et mon envie d'apprendre me permettront de m'intégrer rapidement au sein de votre équipe.",
	}
}

// Repository is a concurrency-safe canned template collection that writes
// itself back to its Store after every mutation.
type Repository struct {
	mu      sync.RWMutex
	store   Store
	entries map[string]string
}

// Open loads the collection from store. A missing collection is seeded with
// Defaults and saved. Any other load failure also falls back to Defaults; the
// repository is still returned, together with a *PersistenceError.
func Open(store Store) (*Repository, error) {
	r := &Repository{store: store}

	loaded, err := store.Load()
	switch {
	case err == nil:
		r.entries = make(map[string]string, len(loaded)+1)
		for k, v := range loaded {
			if name := Normalize(k); name != "" {
				r.entries[name] = v
			}
		}
		r.entries[Sentinel] = ""
		return r, nil
	case errors.Is(err, fs.ErrNotExist):
		r.entries = Defaults()
		return r, r.persist()
	default:
		r.entries = Defaults()
		return r, asPersistence("load", err)
	}
}

// NewMemory returns a repository holding Defaults with no durable storage.
func NewMemory() *Repository {
	return &Repository{entries: Defaults()}
}

// Normalize trims name and puts it in Unicode NFC, the form used as key.
func Normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// List returns every entry, sentinel first, the rest in natural name order.
func (r *Repository) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted()
}

func (r *Repository) sorted() []Entry {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		if name != Sentinel {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	out := make([]Entry, 0, len(names)+1)
	out = append(out, Entry{Name: Sentinel})
	for _, name := range names {
		out = append(out, Entry{Name: name, Body: r.entries[name]})
	}
	return out
}

// Names returns the entry names in List order.
func (r *Repository) Names() []string {
	entries := r.List()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// Get returns the body stored under name.
func (r *Repository) Get(name string) (string, error) {
	name = Normalize(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	body, ok := r.entries[name]
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return body, nil
}

// Search ranks entries by fuzzy match of query against their names, best
// first. The sentinel never matches; an empty query returns every entry.
func (r *Repository) Search(query string) []Entry {
	all := r.List()[1:]
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]Entry, len(matches))
	for i, m := range matches {
		out[i] = all[m.Index]
	}
	return out
}

// Add stores a new entry. It fails with *DuplicateNameError when the name is
// taken, leaving the collection unchanged.
func (r *Repository) Add(name, body string) error {
	name = Normalize(name)
	if name == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	r.entries[name] = body
	return r.persist()
}

// Edit replaces the body of an existing entry.
func (r *Repository) Edit(name, body string) error {
	name = Normalize(name)
	if name == Sentinel {
		return &ReservedNameError{Name: name}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return &NotFoundError{Name: name}
	}
	r.entries[name] = body
	return r.persist()
}

// Rename moves the body stored under oldName to newName.
func (r *Repository) Rename(oldName, newName string) error {
	oldName, newName = Normalize(oldName), Normalize(newName)
	if oldName == Sentinel {
		return &ReservedNameError{Name: oldName}
	}
	if newName == "" {
		return ErrEmptyName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	body, ok := r.entries[oldName]
	if !ok {
		return &NotFoundError{Name: oldName}
	}
	if _, ok := r.entries[newName]; ok {
		return &DuplicateNameError{Name: newName}
	}
	r.entries[newName] = body
	delete(r.entries, oldName)
	return r.persist()
}

// Delete removes an entry.
func (r *Repository) Delete(name string) error {
	name = Normalize(name)
	if name == Sentinel {
		return &ReservedNameError{Name: name}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return &NotFoundError{Name: name}
	}
	delete(r.entries, name)
	return r.persist()
}

// Snapshot returns a copy of the collection as a plain mapping.
func (r *Repository) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.entries)
}

// persist writes the whole collection. Callers hold r.mu.
func (r *Repository) persist() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(maps.Clone(r.entries)); err != nil {
		return asPersistence("save", err)
	}
	return nil
}

func asPersistence(op string, err error) error {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe
	}
	return &PersistenceError{Op: op, Err: err}
}
