package handlers

import (
	"net/http"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/services"
)

type RoomHandler struct {
	roomService services.RoomService
}

func NewRoomHandler(roomService services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type createRoomRequest struct {
	Name          string               `json:"name"`
	BracketFormat models.BracketFormat `json:"bracket_format"`
}

type updateRoomStatusRequest struct {
	Status models.RoomStatus `json:"status"`
}

func (h *RoomHandler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	hostID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req createRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), hostID, req.Name, req.BracketFormat)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"room": room}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoomHandler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"room": room}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoomHandler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.RoomStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.RoomStatus(raw)
		status = &s
	}

	rooms, err := h.roomService.ListRooms(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rooms": rooms}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RoomHandler) UpdateRoomStatusHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req updateRoomStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	room, err := h.roomService.UpdateStatus(r.Context(), caller, roomID, req.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"room": room}); err != nil {
		serverErrorResponse(w, r, err)
	}
}
