package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scrimlol/scrim-system/middleware"
	"github.com/scrimlol/scrim-system/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter %q", param, raw)
	}
	return id, nil
}

func callerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorResponse(w, r, http.StatusUnauthorized, "authentication required")
	}
	return id, ok
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// mapServiceErrorToHTTP translates service sentinel errors into HTTP
// responses; anything unrecognized is a 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBracketNotGenerated):
		errorResponse(w, r, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrNotRoomHost):
		errorResponse(w, r, http.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrRoomNameRequired),
		errors.Is(err, services.ErrInvalidBracketFormat),
		errors.Is(err, services.ErrRoomNotAwaitingBracket),
		errors.Is(err, services.ErrInvalidStatusTransition),
		errors.Is(err, services.ErrUnsupportedTeamCount),
		errors.Is(err, services.ErrInvalidRosterSize),
		errors.Is(err, services.ErrInvalidRosterPositions),
		errors.Is(err, services.ErrUnknownBracketSection),
		errors.Is(err, services.ErrMatchNotPending),
		errors.Is(err, services.ErrMatchNotStartable),
		errors.Is(err, services.ErrMatchAlreadyCompleted),
		errors.Is(err, services.ErrWinnerNotInMatch),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrUnsupportedLogoType),
		errors.Is(err, services.ErrLogoUploadsDisabled),
		errors.Is(err, services.ErrPasswordTooShort):
		errorResponse(w, r, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrTeamNameConflict):
		errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		errorResponse(w, r, http.StatusUnauthorized, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
