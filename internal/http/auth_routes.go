package http

import (
	"net/http"

	"github.com/goliatone/go-blog/internal/auth"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type checkResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}

func (api *API) registerAuthRoutes(mux *http.ServeMux) {
	api.handle(mux, "POST", "/auth/send-code", http.HandlerFunc(api.sendCode))
	api.handle(mux, "POST", "/auth/verify", http.HandlerFunc(api.verify))
	api.handle(mux, "GET", "/auth/check", http.HandlerFunc(api.check), api.protected())
	api.handle(mux, "POST", "/auth/logout", http.HandlerFunc(api.logout))
}

func (api *API) sendCode(w http.ResponseWriter, r *http.Request) {
	var req auth.SendCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := api.auth.SendCode(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (api *API) verify(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	session, err := api.auth.Verify(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: session.Token})
}

func (api *API) check(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, checkResponse{Valid: true, Email: session.Email})
}

func (api *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := api.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
