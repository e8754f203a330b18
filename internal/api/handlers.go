package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oleg578/delimconv"
	"github.com/oleg578/delimconv/pkg/config"
	"github.com/oleg578/delimconv/pkg/logger"
)

// ConvertHandler serves delimiter conversions.
type ConvertHandler struct {
	defaults config.Defaults
	maxBytes int64
	logger   *logger.Logger
}

// NewConvertHandler creates a new convert handler.
func NewConvertHandler(cfg *config.Config, log *logger.Logger) *ConvertHandler {
	return &ConvertHandler{
		defaults: cfg.Defaults,
		maxBytes: cfg.MaxInputBytes,
		logger:   log.WithComponent("convert"),
	}
}

// ConvertRequest is the body of a conversion. Omitted selections and
// options fall back to the configured defaults.
type ConvertRequest struct {
	Text    string               `json:"text"`
	Source  *delimconv.Selection `json:"source,omitempty"`
	Target  *delimconv.Selection `json:"target,omitempty"`
	Options *delimconv.Options   `json:"options,omitempty"`
}

// SwapResponse carries the exchanged selections and, when text was given,
// the result of converting with them.
type SwapResponse struct {
	Source    delimconv.Selection `json:"source"`
	Target    delimconv.Selection `json:"target"`
	Converted bool                `json:"converted"`
	Result    *delimconv.Result   `json:"result,omitempty"`
}

// Convert handles POST /v1/convert.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	session, ok := h.decode(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := session.Convert()
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	h.logger.WithContext(r.Context()).Debug("conversion completed",
		"rows", res.Rows,
		"columns", res.Columns,
		"duration", time.Since(start).String(),
	)
	WriteJSON(w, http.StatusOK, res)
}

// Swap handles POST /v1/swap.
func (h *ConvertHandler) Swap(w http.ResponseWriter, r *http.Request) {
	session, ok := h.decode(w, r)
	if !ok {
		return
	}

	res, ran, err := session.Swap()
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	resp := SwapResponse{
		Source:    session.Source,
		Target:    session.Target,
		Converted: ran,
	}
	if ran {
		resp.Result = &res
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *ConvertHandler) decode(w http.ResponseWriter, r *http.Request) (*delimconv.Session, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	requestID := logger.RequestIDFromContext(r.Context())

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, (&APIError{
				Code:    CodeInputTooLarge,
				Message: "request body too large",
				Details: map[string]any{"limit": tooLarge.Limit},
			}).WithRequestID(requestID))
			return nil, false
		}
		WriteError(w, NewValidationError("Invalid request body").WithRequestID(requestID))
		return nil, false
	}

	session := &delimconv.Session{
		Text:    req.Text,
		Source:  h.defaults.Source,
		Target:  h.defaults.Target,
		Options: h.defaults.Options,
	}
	if req.Source != nil {
		session.Source = *req.Source
	}
	if req.Target != nil {
		session.Target = *req.Target
	}
	if req.Options != nil {
		session.Options = *req.Options
	}
	return session, true
}

func (h *ConvertHandler) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := FromConvertError(err).WithRequestID(logger.RequestIDFromContext(r.Context()))
	log := h.logger.WithContext(r.Context()).WithError(err)
	if apiErr.Code == CodeInternalError {
		log.Error("conversion failed")
	} else {
		log.Info("conversion rejected", "code", apiErr.Code)
	}
	WriteError(w, apiErr)
}
