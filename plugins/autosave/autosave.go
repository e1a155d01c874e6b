// Package autosave periodically stores the message being composed in the
// draft store.
package autosave

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/composer/internal/logger"
	"github.com/bethropolis/composer/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

// AutoSave saves a modified document as a draft on a fixed interval.
type AutoSave struct {
	api plugin.EditorAPI

	mutex    sync.RWMutex
	enabled  bool
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates the plugin. A non-positive interval leaves it disabled.
func New(interval time.Duration) *AutoSave {
	return &AutoSave{
		enabled:  interval > 0,
		interval: interval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize registers the draft commands and starts the saver loop.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if api.DraftStore() == nil {
		logger.Warnf("%s: no draft store, plugin disabled", p.Name())
		p.enabled = false
		return nil
	}

	if err := api.RegisterCommand("drafts", p.listDrafts); err != nil {
		return fmt.Errorf("failed to register 'drafts' command: %w", err)
	}
	if err := api.RegisterCommand("autosave", p.toggle); err != nil {
		return fmt.Errorf("failed to register 'autosave' command: %w", err)
	}

	p.mutex.RLock()
	enabled := p.enabled
	p.mutex.RUnlock()
	logger.Infof("%s initialized. Enabled: %v, Interval: %v", p.Name(), enabled, p.interval)

	if enabled {
		p.mutex.Lock()
		p.start()
		p.mutex.Unlock()
	}
	return nil
}

// Shutdown stops the saver goroutine and waits for it.
func (p *AutoSave) Shutdown() error {
	p.mutex.Lock()
	stop := p.stopChan
	p.stopChan = nil
	p.mutex.Unlock()

	if stop != nil {
		close(stop)
		p.wg.Wait()
		logger.Debugf("%s: saver goroutine stopped", p.Name())
	}
	return nil
}

// start launches the saver loop. The caller holds p.mutex.
func (p *AutoSave) start() {
	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.saverLoop(p.interval, p.stopChan)
}

func (p *AutoSave) saverLoop(interval time.Duration, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.api.Post(p.saveIfModified)
		case <-stop:
			return
		}
	}
}

// saveIfModified stores the document when it changed since the last save.
// It runs on the UI goroutine.
func (p *AutoSave) saveIfModified() {
	p.mutex.RLock()
	enabled := p.enabled
	p.mutex.RUnlock()
	if !enabled || !p.api.IsModified() {
		return
	}

	d, err := p.api.SaveDraft()
	if err != nil {
		logger.Errorf("%s: auto-save failed: %v", p.Name(), err)
		p.api.SetStatusMessage("Auto-save failed: %v", err)
		return
	}
	logger.Debugf("%s: saved draft %s", p.Name(), d.ID)
}

func (p *AutoSave) toggle(args []string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	switch {
	case len(args) == 0:
		p.enabled = !p.enabled
	case args[0] == "on":
		p.enabled = true
	case args[0] == "off":
		p.enabled = false
	default:
		return fmt.Errorf("usage: autosave [on|off]")
	}
	if p.enabled && p.stopChan == nil {
		if p.interval <= 0 {
			p.enabled = false
			return fmt.Errorf("autosave interval is not configured")
		}
		p.start()
	}
	p.api.SetStatusMessage("Autosave: %v", p.enabled)
	return nil
}

func (p *AutoSave) listDrafts(args []string) error {
	drafts, err := p.api.DraftStore().ListDrafts(context.Background())
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		p.api.SetStatusMessage("No drafts")
		return nil
	}
	latest := drafts[0]
	p.api.SetStatusMessage("%d drafts, latest %q at %s", len(drafts), latest.Subject, latest.UpdatedAt.Format("2006-01-02 15:04"))
	return nil
}
