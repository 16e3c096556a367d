package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/barserve/pkg/classify"
	"github.com/bastiangx/barserve/pkg/field"
	"github.com/bastiangx/barserve/pkg/history"
	"github.com/bastiangx/barserve/pkg/sched"
	"github.com/bastiangx/barserve/pkg/selection"
)

// session is one attached input field with its controller and the query
// currently streaming into its list.
type session struct {
	input  *field.Input
	list   *field.List
	search *field.Search
	ctrl   *selection.Controller
	query  *history.Query
}

// Server handles the IPC for selection controller sessions.
type Server struct {
	loop       *sched.Loop
	scheduler  sched.Scheduler
	classifier *classify.Classifier
	provider   *history.Provider
	maxWait    time.Duration

	sessions map[string]*session

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a completion server using stdin/stdout for IPC.
func NewServer(loop *sched.Loop, classifier *classify.Classifier, provider *history.Provider, maxWait time.Duration) *Server {
	return &Server{
		loop:       loop,
		scheduler:  sched.NewLoopScheduler(loop),
		classifier: classifier,
		provider:   provider,
		maxWait:    maxWait,
		sessions:   make(map[string]*session),
		decoder:    msgpack.NewDecoder(os.Stdin),
		encoder:    msgpack.NewEncoder(os.Stdout),
	}
}

// NewServerWithIO creates a server over arbitrary streams (tests).
func NewServerWithIO(loop *sched.Loop, classifier *classify.Classifier, provider *history.Provider, maxWait time.Duration, r io.Reader, w io.Writer) *Server {
	s := NewServer(loop, classifier, provider, maxWait)
	s.decoder = msgpack.NewDecoder(r)
	s.encoder = msgpack.NewEncoder(w)
	return s
}

// Start runs the event loop in the background and reads requests until EOF.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	go s.loop.Run()
	defer s.loop.Stop()

	// Signal that the server is ready
	s.send(Response{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request.
func (s *Server) handleRequest(request Request) {
	start := time.Now()
	var resp Response
	switch request.Command {
	case "attach":
		resp = s.handleAttach(request)
	case "type":
		resp = s.handleType(request)
	case "key":
		resp = s.handleKey(request)
	case "state":
		resp = s.handleState(request)
	case "health":
		resp = Response{ID: request.ID, Status: "ok"}
	default:
		resp = s.errorResponse(request.ID, fmt.Sprintf("Unknown command: %s", request.Command))
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

// onLoop runs fn on the event loop and waits for that turn to finish.
func (s *Server) onLoop(fn func()) {
	done := make(chan struct{})
	s.loop.Post(func() {
		fn()
		close(done)
	})
	<-done
}

func (s *Server) handleAttach(request Request) Response {
	if request.Session == "" {
		return s.errorResponse(request.ID, "Missing 'sid' parameter")
	}
	if _, exists := s.sessions[request.Session]; exists {
		return s.errorResponse(request.ID, "Session already attached: "+request.Session)
	}

	sess := &session{
		input:  field.NewInput(),
		list:   field.NewList(),
		search: field.NewSearch(),
	}
	s.onLoop(func() {
		sess.ctrl = selection.Attach(selection.Config{
			Field:      sess.input,
			List:       sess.list,
			Status:     sess.search,
			Classifier: s.classifier,
			Scheduler:  s.scheduler,
			MaxWait:    s.maxWait,
		})
	})
	s.sessions[request.Session] = sess
	log.Debugf("Attached session %q", request.Session)
	return s.stateResponse(request.ID, sess)
}

func (s *Server) handleType(request Request) Response {
	sess, ok := s.sessions[request.Session]
	if !ok {
		return s.errorResponse(request.ID, "Unknown session: "+request.Session)
	}

	s.onLoop(func() {
		if sess.query != nil {
			sess.query.Cancel()
		}
		sess.input.SetValue(request.Text)
		sess.list.Clear()
		sess.query = s.provider.Search(s.loop, request.Text, sess.list, sess.search)
	})
	return s.stateResponse(request.ID, sess)
}

func (s *Server) handleKey(request Request) Response {
	sess, ok := s.sessions[request.Session]
	if !ok {
		return s.errorResponse(request.ID, "Unknown session: "+request.Session)
	}
	key, ok := field.ParseKey(request.Key)
	if !ok {
		return s.errorResponse(request.ID, "Unknown key: "+request.Key)
	}
	mods := field.ParseModifiers(request.Mods)

	var consumed bool
	s.onLoop(func() {
		consumed = sess.input.PressKey(key, mods)
	})
	resp := s.stateResponse(request.ID, sess)
	resp.Consumed = consumed
	return resp
}

func (s *Server) handleState(request Request) Response {
	sess, ok := s.sessions[request.Session]
	if !ok {
		return s.errorResponse(request.ID, "Unknown session: "+request.Session)
	}
	return s.stateResponse(request.ID, sess)
}

// stateResponse snapshots a session on the loop.
func (s *Server) stateResponse(id string, sess *session) Response {
	var resp Response
	s.onLoop(func() {
		resp = Response{
			ID:        id,
			Status:    "ok",
			Value:     sess.input.Value(),
			Caret:     sess.input.SelectionStart(),
			Count:     sess.list.Count(),
			Selected:  sess.list.SelectedIndex(),
			Awaiting:  sess.ctrl != nil && sess.ctrl.AwaitingEnter(),
			Commits:   sess.input.Commits(),
			Committed: sess.input.LastCommit(),
		}
	})
	return resp
}

func (s *Server) errorResponse(id, message string) Response {
	return Response{ID: id, Status: "error", Error: message}
}

// send marshals the response and writes it to the client.
func (s *Server) send(response Response) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}
