package handlers

import (
	"net/http"

	"github.com/scrimlol/scrim-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type reportResultRequest struct {
	WinnerID int `json:"winner_id"`
}

func (h *MatchHandler) ListRoomMatchesHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByRoom(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) StartMatchHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.StartMatch(r.Context(), caller, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req reportResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ReportResult(r.Context(), caller, matchID, req.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, r, err)
	}
}
