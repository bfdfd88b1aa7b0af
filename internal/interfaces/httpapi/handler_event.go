package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/courtstats/internal/usecase"
)

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEvent")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req recordEventRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.eventService.RecordEvent(ctx, usecase.RecordEventInput{
		GameID:         gameID,
		Side:           req.Side,
		Type:           req.Type,
		PlayerID:       req.PlayerID,
		ElapsedSeconds: req.ElapsedSeconds,
		Quarter:        req.Quarter,
		ReboundKind:    req.ReboundKind,
		FoulKind:       req.FoulKind,
		Shot:           req.Shot.toDomain(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record event failed", "game_id", gameID, "type", req.Type, "event_id", result.Event.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordEventResponse{
		Event: eventToDTO(result.Event),
		Apply: applyResultToDTO(result.Apply),
	})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	items, err := h.eventService.ListEvents(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// ApplyEvent re-drives a stored event whose first application failed.
func (h *Handler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyEvent")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	result, err := h.engine.ApplyEventByID(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "apply event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, applyResultToDTO(result))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	result, err := h.eventService.DeleteEvent(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, removeEventResponse{
		Event:       eventToDTO(result.Event),
		Recalculate: result.Recalculate,
	})
}

func (h *Handler) UndoLastEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoLastEvent")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	result, err := h.eventService.UndoLastEvent(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo last event failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, removeEventResponse{
		Event:       eventToDTO(result.Event),
		Recalculate: result.Recalculate,
	})
}
