package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/areacheck/internal/domain/area"
	"github.com/okian/areacheck/internal/domain/model"
	"github.com/okian/areacheck/internal/domain/types"
	"github.com/okian/areacheck/pkg/logger"
)

// Actions accepted in the action field. An empty action checks a point.
const (
	actionGetHistory = "get_history"
	actionClear      = "clear"
)

const (
	maxFormBytes   = 64 << 10
	internalReason = "An internal server error occurred."
)

// AreaCheckHandler serves /area-check.
type AreaCheckHandler struct {
	deps   Dependencies
	logger logger.Logger
	now    func() time.Time
}

// NewAreaCheckHandler creates a new area check handler.
func NewAreaCheckHandler(deps Dependencies, l logger.Logger, now func() time.Time) *AreaCheckHandler {
	if l == nil {
		l = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &AreaCheckHandler{deps: deps, logger: l, now: now}
}

// HandleAreaCheck handles GET (query string) and POST (form body) requests
// carrying x, y, r, sessionId and action.
func (h *AreaCheckHandler) HandleAreaCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.area_check"
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		h.logger.Debug(r.Context(), "unsupported method",
			logger.String("method", r.Method),
			logger.Error(NewKind(op, ErrMethodNotAllowed)),
		)
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error(), h.now())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Debug(r.Context(), "unparsable form", logger.Error(WrapKind(op, ErrBadRequest, err)))
		writeError(w, http.StatusBadRequest, "request is invalid", h.now())
		return
	}

	sessionID := strings.TrimSpace(r.Form.Get("sessionId"))
	switch action := r.Form.Get("action"); action {
	case "":
		h.check(w, r, sessionID)
	case actionGetHistory, actionClear:
		h.history(w, r, action, sessionID)
	default:
		writeError(w, http.StatusBadRequest, "action is invalid", h.now())
	}
}

func (h *AreaCheckHandler) check(w http.ResponseWriter, r *http.Request, sessionID string) {
	raw := area.RawInput{
		X: r.Form.Get("x"),
		Y: r.Form.Get("y"),
		R: r.Form.Get("r"),
	}
	res, err := h.deps.Check(r.Context(), sessionID, raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := res.SessionID
	writeJSON(w, http.StatusOK, types.CheckResponse{
		SessionID:       &id,
		Hit:             res.Attempt.Hit,
		ExecutionTimeNS: res.Attempt.ExecutionTimeNanos,
		CurrentTime:     formatTime(h.now()),
		History:         renderHistory(res.History),
	})
}

func (h *AreaCheckHandler) history(w http.ResponseWriter, r *http.Request, action, sessionID string) {
	var (
		history []model.Attempt
		err     error
	)
	if action == actionClear {
		history, err = h.deps.Clear(r.Context(), sessionID)
	} else {
		history, err = h.deps.History(r.Context(), sessionID)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := types.CheckResponse{
		CurrentTime: formatTime(h.now()),
		History:     renderHistory(history),
	}
	if sessionID != "" {
		resp.SessionID = &sessionID
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps validation errors to 400 with their reason and everything else
// to a generic 500.
func (h *AreaCheckHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	const op = "api.area_check"
	var ve *area.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error(), h.now())
		return
	}
	h.logger.Error(r.Context(), "area check failed", logger.Error(WrapKind(op, ErrInternal, err)))
	writeError(w, http.StatusInternalServerError, internalReason, h.now())
}
