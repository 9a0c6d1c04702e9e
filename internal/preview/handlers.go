package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/pipeline"
	"github.com/gorilla/websocket"
)

// editorData feeds the editor template.
type editorData struct {
	Title          string
	StyleCSS       template.CSS
	HighlightCSS   template.CSS
	Commands       bool
	Placeholder    string
	DebounceMillis int
}

// placeholderText lists a few rule examples to show in the empty editor.
func placeholderText() string {
	rules := pipeline.DefaultLineRules()
	examples := make([]string, 0, 4)
	for _, r := range rules {
		if r.Example == "" {
			continue
		}
		examples = append(examples, r.Example)
		if len(examples) == cap(examples) {
			break
		}
	}
	return strings.Join(examples, "\n")
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	data := editorData{
		Title:          s.cfg.Title,
		StyleCSS:       template.CSS(s.styleCSS), // trusted: embedded or --asset-path
		HighlightCSS:   template.CSS(s.hlCSS),
		Commands:       s.cfg.Commands,
		Placeholder:    placeholderText(),
		DebounceMillis: int(s.cfg.Debounce.Milliseconds()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.editor.Execute(w, data); err != nil {
		s.log.Error("editor template", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	c := &client{conn: conn}
	s.hub.add(c)
	defer s.hub.remove(c)

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read", "error", err)
			}
			return
		}

		var out reply
		switch req.Type {
		case msgTransform:
			out = s.transformReply(r, req)
		case msgSync:
			if s.watcher == nil {
				continue
			}
			out = s.watchedReply(r.Context())
		default:
			out = errorReply(fmt.Errorf("unknown message type %q", req.Type))
		}

		if err := c.send(out); err != nil {
			s.log.Debug("websocket write", "error", err)
			return
		}
	}
}

func (s *Server) transformReply(r *http.Request, req request) reply {
	commands, err := parseMode(req.Mode, s.cfg.Commands)
	if err != nil {
		return errorReply(err)
	}
	res, err := s.render.fragment(r.Context(), req.Text, commands, s.resolverFor(""))
	if err != nil {
		s.log.Warn("render failed", "error", err)
		out := resultReply(res)
		out.Type = msgError
		out.Error = err.Error()
		return out
	}
	return resultReply(res)
}

// transformRequest is the JSON body of POST /api/transform.
type transformRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Markdown string `json:"markdown,omitempty"`
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)

	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	commands, err := parseMode(req.Mode, s.cfg.Commands)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.render.fragment(r.Context(), req.Text, commands, s.resolverFor(""))
	if err != nil {
		s.log.Warn("render failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Markdown: res.Markdown})
		return
	}
	s.log.Debug("transformed", "bytes", len(req.Text), "commands", len(res.Log))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("path")
	if !fs.ValidPath(name) || !fileutil.IsMarkdownFile(name) {
		http.NotFound(w, r)
		return
	}

	data, err := fs.ReadFile(s.root.FS(), name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "cannot read file", http.StatusForbidden)
		return
	}

	fallback := strings.TrimSuffix(path.Base(name), path.Ext(name))
	css := s.styleCSS + "\n" + s.hlCSS
	doc, err := s.render.page(r.Context(), string(data), fallback, css, reloadScript, s.cfg.Commands, s.resolverFor(name))
	if err != nil {
		s.log.Error("render failed", "file", name, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	s.log.Debug("view", "file", name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
