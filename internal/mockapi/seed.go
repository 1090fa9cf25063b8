package mockapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"shopfront/internal/logging"
	"shopfront/internal/storeapi"
)

//go:embed seed.json
var embeddedSeed []byte

// Seed is the catalog and user set the mock server serves.
type Seed struct {
	Products []storeapi.Product `json:"products"`
	Users    []storeapi.User    `json:"users"`
}

// repository holds the mutable server data behind a lock so a seed
// reload can swap it while requests are being served.
type repository struct {
	mu       sync.RWMutex
	products []storeapi.Product
	users    []storeapi.User
	nextUser int
	log      *logging.Logger
}

func newRepository(seed Seed) *repository {
	r := &repository{log: logging.Get(logging.CategoryMockAPI)}
	r.apply(seed)
	return r
}

func (r *repository) apply(seed Seed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = seed.Products
	r.users = seed.Users
	r.nextUser = 1
	for _, u := range seed.Users {
		if u.ID >= r.nextUser {
			r.nextUser = u.ID + 1
		}
	}
}

func (r *repository) allProducts(limit int) []storeapi.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]storeapi.Product, len(r.products))
	copy(out, r.products)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *repository) product(id int) (storeapi.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return storeapi.Product{}, false
}

func (r *repository) byCategory(category string) []storeapi.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []storeapi.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (r *repository) categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (r *repository) userByCredentials(username, password string) (storeapi.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return storeapi.User{}, false
}

func (r *repository) user(id int) (storeapi.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return storeapi.User{}, false
}

func (r *repository) createUser(reg storeapi.Registration) storeapi.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := storeapi.User{
		ID:       r.nextUser,
		Email:    reg.Email,
		Username: reg.Username,
		Password: reg.Password,
		Name:     reg.Name,
		Address:  reg.Address,
		Phone:    reg.Phone,
	}
	r.nextUser++
	r.users = append(r.users, user)
	return user
}

// LoadSeed reads a seed from path, or the embedded seed when path is
// empty.
func LoadSeed(path string) (Seed, error) {
	data := embeddedSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed file: %w", err)
		}
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if len(seed.Products) == 0 {
		return Seed{}, fmt.Errorf("seed has no products")
	}
	return seed, nil
}

// watchSeed reloads the repository whenever the seed file changes.
// Returns a stop function. Malformed edits are logged and skipped; the
// server keeps serving the last good seed.
func (r *repository) watchSeed(path string) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch seed file: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				seed, err := LoadSeed(path)
				if err != nil {
					r.log.Warn("seed reload skipped: %v", err)
					continue
				}
				r.apply(seed)
				r.log.Info("seed reloaded: %d products, %d users", len(seed.Products), len(seed.Users))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Warn("seed watcher error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
