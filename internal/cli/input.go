// Package cli is a debug REPL for the selection core: type text to run a
// history search, use ":" commands to inject key events, and watch the
// controller's state after each step.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/barserve/pkg/classify"
	"github.com/bastiangx/barserve/pkg/field"
	"github.com/bastiangx/barserve/pkg/history"
	"github.com/bastiangx/barserve/pkg/registry"
	"github.com/bastiangx/barserve/pkg/sched"
	"github.com/bastiangx/barserve/pkg/selection"
)

// InputHandler drives one field session from stdin.
type InputHandler struct {
	loop       *sched.Loop
	classifier *classify.Classifier
	provider   *history.Provider
	engines    *registry.EngineSet
	maxWait    time.Duration

	input  *field.Input
	list   *field.List
	search *field.Search
	ctrl   *selection.Controller
	query  *history.Query
}

// NewInputHandler creates a handler with a fresh field attached to a new
// controller.
func NewInputHandler(classifier *classify.Classifier, provider *history.Provider, engines *registry.EngineSet, maxWait time.Duration) *InputHandler {
	h := &InputHandler{
		loop:       sched.NewLoop(),
		classifier: classifier,
		provider:   provider,
		engines:    engines,
		maxWait:    maxWait,
		input:      field.NewInput(),
		list:       field.NewList(),
		search:     field.NewSearch(),
	}
	h.input.OnCommit = func(text string) {
		log.Printf("committed: %q", text)
	}
	h.search.OnNavigate = func(dir field.Direction) {
		log.Debugf("navigate command: %v", dir)
	}
	h.ctrl = selection.Attach(selection.Config{
		Field:      h.input,
		List:       h.list,
		Status:     h.search,
		Classifier: h.classifier,
		Scheduler:  sched.NewLoopScheduler(h.loop),
		MaxWait:    maxWait,
	})
	return h
}

// Start begins the interface loop.
// Plain lines are typed into the field; lines starting with ":" are key
// commands (:enter :up :down :left :right :home :tab :pgup :pgdn) or
// :state, :aliases <prefix>. Loop terminates on stdin EOF.
func (h *InputHandler) Start() error {
	log.Print("BarServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type text, use :<key> to press keys (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleLine(line)
	}
}

func (h *InputHandler) handleLine(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(strings.TrimPrefix(line, ":"))
		return
	}
	h.typeText(line)
}

// typeText replaces the field content and restarts the history search.
func (h *InputHandler) typeText(text string) {
	if h.query != nil {
		h.query.Cancel()
	}
	h.input.SetValue(text)
	h.list.Clear()
	h.search.Reset()

	start := time.Now()
	h.query = h.provider.Search(h.loop, text, h.list, h.search)
	h.loop.RunUntilIdle()
	elapsed := time.Since(start)

	log.Debugf("Took %v for %q", elapsed, text)
	if h.classifier.HostWillHandle(text) {
		log.Printf("host will handle %q (URL, domain or shortcut)", text)
	}
	h.printState()
}

func (h *InputHandler) handleCommand(cmd string) {
	args := strings.Fields(cmd)
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "state":
		h.printState()
		return
	case "aliases":
		prefix := "@"
		if len(args) > 1 {
			prefix = args[1]
		}
		for _, e := range h.engines.AliasesWithPrefix(prefix, 0) {
			log.Printf("%-12s %s", e.Alias, e.Name)
		}
		return
	}

	key, ok := field.ParseKey(args[0])
	if !ok {
		log.Errorf("Unknown command: %s", args[0])
		return
	}
	consumed := h.input.PressKey(key, field.ParseModifiers(args[1:]))
	h.loop.RunUntilIdle()

	if h.ctrl.AwaitingEnter() {
		log.Printf("enter suppressed, waiting up to %v for results...", h.maxWait)
		time.Sleep(h.maxWait + 20*time.Millisecond)
		h.loop.RunUntilIdle()
	}
	log.Debugf("key %s consumed=%v", args[0], consumed)
	h.printState()
}

// printState dumps the field, list and selection state.
func (h *InputHandler) printState() {
	caret := h.input.SelectionStart()
	log.Printf("field: %q caret=%d status=%v matches=%d", h.input.Value(), caret, h.search.Status(), h.search.MatchCount())

	for i, e := range h.list.Entries() {
		marker := "  "
		if i == h.list.SelectedIndex() {
			marker = "> "
		}
		title := e.Title
		if e.URL != "" {
			title = fmt.Sprintf("%-32s %s", e.Title, e.URL)
		}
		log.Printf("%s%2d. %s", marker, i, title)
	}
}
