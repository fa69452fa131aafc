package handlers

import (
	"net/http"

	"github.com/scrimlol/scrim-system/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GenerateBracket(r.Context(), caller, roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}); err != nil {
		serverErrorResponse(w, r, err)
	}
}
