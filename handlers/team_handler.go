package handlers

import (
	"net/http"

	"github.com/scrimlol/scrim-system/models"
	"github.com/scrimlol/scrim-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type createTeamRequest struct {
	Name    string `json:"name"`
	Members []struct {
		UserID   int             `json:"user_id"`
		Nickname string          `json:"nickname"`
		Position models.Position `json:"position"`
	} `json:"members"`
}

func (h *TeamHandler) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req createTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	members := make([]models.TeamMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, models.TeamMember{
			UserID:   m.UserID,
			Nickname: m.Nickname,
			Position: m.Position,
		})
	}

	team, err := h.teamService.CreateTeam(r.Context(), caller, roomID, req.Name, members)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) ListRoomTeamsHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := getIDFromURL(r, "roomID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ListByRoom(r.Context(), roomID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UploadTeamLogoHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	team, err := h.teamService.UploadLogo(r.Context(), caller, teamID, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}); err != nil {
		serverErrorResponse(w, r, err)
	}
}
