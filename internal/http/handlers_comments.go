package http

import (
	"net/http"
	"strings"

	applog "menusales/internal/log"
)

// maxCommentBytes bounds the form body of POST /comments.
const maxCommentBytes = 16 << 10

// handleListComments returns the whole log as one text blob.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	text, err := s.comments.Text(r.Context())
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// handleAddComment appends the trimmed "comment" form field. Blank comments
// are stored as empty entries. With redirect=1 the browser is sent back to
// the front page.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}

	comment := strings.TrimSpace(r.PostForm.Get("comment"))
	if err := s.comments.Add(r.Context(), comment); err != nil {
		s.writeError(w, r, applog.OpAppend, err)
		return
	}
	s.events.LogCommentAppended(r.Context(), len(comment))

	if r.FormValue("redirect") == "1" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"comment": comment})
}
