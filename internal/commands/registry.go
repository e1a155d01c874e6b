// Package commands holds the named commands run from the command line
// (":bold", ":table 3 3") and from editing scripts.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/composer/internal/logger"
)

// Func runs a command with its whitespace-separated arguments.
type Func = func(args []string) error

// ErrUnknownCommand is returned by Execute for names nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Registry maps command names to functions.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Func)}
}

// Register adds a command. Names must be unique.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.cmds[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	r.cmds[name] = fn
	logger.DebugTagf("commands", "registered command ':%s'", name)
	return nil
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.cmds[name]
	return fn, ok
}

// Names lists the registered commands in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Execute splits line into a name and arguments and runs the command.
func (r *Registry) Execute(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	fn, ok := r.Lookup(parts[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
	logger.DebugTagf("commands", "executing ':%s' with args %v", parts[0], parts[1:])
	return fn(parts[1:])
}

// register adds a command and logs a failure instead of returning it.
func register(r *Registry, name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}
