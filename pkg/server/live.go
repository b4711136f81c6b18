package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/form"
	"github.com/vango-dev/formguard/pkg/render"
	"github.com/vango-dev/formguard/pkg/rules"
	"github.com/vango-dev/formguard/pkg/vdom"
)

// Live message types sent by the client.
const (
	MsgLoad     = "load"     // bind a form: html, selector
	MsgSet      = "set"      // assign a value: name, value, validate
	MsgCheck    = "check"    // toggle an option: name, value, checked
	MsgFiles    = "files"    // attach files: name, files
	MsgValidate = "validate" // validate the whole form
	MsgTrigger  = "trigger"  // validate names, or the whole form when empty
	MsgReset    = "reset"    // reset name, or the whole form when empty
)

// Live message types sent by the server.
const (
	MsgState = "state"
	MsgError = "error"
)

// LiveMessage is a client message on the live connection.
type LiveMessage struct {
	Type     string   `json:"type"`
	HTML     string   `json:"html,omitempty"`
	Selector string   `json:"selector,omitempty"`
	Name     string   `json:"name,omitempty"`
	Value    string   `json:"value,omitempty"`
	Names    []string `json:"names,omitempty"`
	Files    []string `json:"files,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Validate bool     `json:"validate,omitempty"`

	// Render asks for the annotated form markup in the reply.
	Render bool `json:"render,omitempty"`
}

// LiveReply is a server message on the live connection.
type LiveReply struct {
	Type   string                       `json:"type"`
	Seq    uint64                       `json:"seq"`
	Valid  bool                         `json:"valid"`
	Errors map[string]rules.ErrorDetail `json:"errors,omitempty"`
	Fields []FieldState                 `json:"fields,omitempty"`
	HTML   string                       `json:"html,omitempty"`
	Error  *errors.Error                `json:"error,omitempty"`
}

// liveSession owns one Form for the lifetime of a connection. Only the
// read loop touches the form.
type liveSession struct {
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger
	form   *form.Form
	seq    uint64
	done   chan struct{}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.httpMetrics.ObserveWebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := &liveSession{
		server: s,
		conn:   conn,
		logger: s.logger.With("session_id", chimw.GetReqID(r.Context())),
		done:   make(chan struct{}),
	}
	s.httpMetrics.ConnOpened()
	defer s.httpMetrics.ConnClosed()

	go sess.pingLoop(r)
	sess.readLoop()
}

// readLoop handles messages until the connection closes.
func (l *liveSession) readLoop() {
	defer l.close()

	cfg := l.server.config
	l.conn.SetReadLimit(cfg.ReadLimit)
	l.conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	l.conn.SetPongHandler(func(string) error {
		return l.conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	})

	l.logger.Info("live session started")
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				l.server.httpMetrics.ObserveWebSocketError("read")
				l.logger.Error("read error", "error", err)
			}
			return
		}
		l.conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))

		var msg LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			l.server.httpMetrics.ObserveMessage("invalid", err)
			l.replyError(errors.New("F060").Wrap(err))
			continue
		}

		reply, err := l.handle(&msg)
		l.server.httpMetrics.ObserveMessage(msg.Type, err)
		if err != nil {
			l.replyError(err)
			continue
		}
		if err := l.write(reply); err != nil {
			return
		}
	}
}

// pingLoop keeps the connection alive and closes it when the request
// context ends, which happens on server shutdown.
func (l *liveSession) pingLoop(r *http.Request) {
	ticker := time.NewTicker(l.server.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(10 * time.Second)
			if err := l.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				l.server.httpMetrics.ObserveWebSocketError("ping")
				return
			}
		case <-r.Context().Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			l.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			l.conn.Close()
			return
		case <-l.done:
			return
		}
	}
}

func (l *liveSession) close() {
	close(l.done)
	l.conn.Close()
	l.logger.Info("live session closed", "messages", l.seq)
}

// handle applies one message to the session form.
func (l *liveSession) handle(msg *LiveMessage) (*LiveReply, error) {
	if msg.Type == MsgLoad {
		doc, err := vdom.ParseString(msg.HTML)
		if err != nil {
			return nil, errors.New("F040").Wrap(err)
		}
		f, err := l.server.newForm(doc, msg.Selector, l.logger)
		if err != nil {
			return nil, err
		}
		l.form = f
		return l.state(msg, f.IsValid())
	}

	f := l.form
	if f == nil {
		switch msg.Type {
		case MsgSet, MsgCheck, MsgFiles, MsgValidate, MsgTrigger, MsgReset:
			return nil, errors.New("F062").WithDetailf("Message %q arrived before %q.", msg.Type, MsgLoad)
		}
		return nil, errors.New("F061").WithDetailf("Unknown message type %q.", msg.Type)
	}

	switch msg.Type {
	case MsgSet:
		if msg.Validate {
			f.SetValue(msg.Name, msg.Value, form.ShouldValidate())
		} else {
			f.SetValue(msg.Name, msg.Value)
		}
	case MsgCheck:
		if f.SetChecked(msg.Name, msg.Value, msg.Checked) && msg.Validate {
			f.Trigger(msg.Name)
		}
	case MsgFiles:
		if f.SetFiles(msg.Name, rules.FileNames(msg.Files)) && msg.Validate {
			f.Trigger(msg.Name)
		}
	case MsgValidate:
		f.Validate()
	case MsgTrigger:
		f.Trigger(msg.Names...)
	case MsgReset:
		if msg.Name == "" {
			f.Reset()
		} else {
			f.ResetField(msg.Name)
		}
	default:
		return nil, errors.New("F061").WithDetailf("Unknown message type %q.", msg.Type)
	}
	return l.state(msg, f.IsValid())
}

// state snapshots the form into a reply.
func (l *liveSession) state(msg *LiveMessage, valid bool) (*LiveReply, error) {
	reply := &LiveReply{
		Type:   MsgState,
		Valid:  valid,
		Errors: l.form.Errors(),
		Fields: FieldStates(l.form),
	}
	if msg.Render {
		html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(l.form.Root())
		if err != nil {
			return nil, err
		}
		reply.HTML = html
	}
	return reply, nil
}

func (l *liveSession) replyError(err error) {
	l.logger.Debug("live message rejected", "error", err)
	l.write(&LiveReply{Type: MsgError, Error: errors.FromError(err, "F060")})
}

// write sends a reply. Only the read loop writes data frames.
func (l *liveSession) write(reply *LiveReply) error {
	l.seq++
	reply.Seq = l.seq
	l.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := l.conn.WriteJSON(reply); err != nil {
		l.server.httpMetrics.ObserveWebSocketError("write")
		l.logger.Error("write error", "error", err)
		return err
	}
	return nil
}
