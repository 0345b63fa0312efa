package http

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

func (api *API) registerPostRoutes(mux *http.ServeMux) {
	api.handle(mux, "GET", "/posts", http.HandlerFunc(api.listPosts))
	api.handle(mux, "POST", "/posts", http.HandlerFunc(api.createPost), api.protected())
	api.handle(mux, "PUT", "/posts/{id}", http.HandlerFunc(api.updatePost), api.protected())
	api.handle(mux, "DELETE", "/posts/{id}", http.HandlerFunc(api.closePost), api.protected())
}

func decodePostInput(r *http.Request) (interfaces.PostInput, error) {
	var input interfaces.PostInput
	if err := decodeJSON(r, &input); err != nil {
		return input, err
	}
	if err := posts.ValidateInput(input); err != nil {
		return input, goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).WithTextCode("POST_INPUT_INVALID")
	}
	return input, nil
}

func (api *API) listPosts(w http.ResponseWriter, r *http.Request) {
	relayed, err := api.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeRelayed(w, relayed)
}

func (api *API) createPost(w http.ResponseWriter, r *http.Request) {
	input, err := decodePostInput(r)
	if err != nil {
		writeError(w, err)
		return
	}
	relayed, err := api.posts.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeRelayed(w, relayed)
}

func (api *API) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIssueID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := decodePostInput(r)
	if err != nil {
		writeError(w, err)
		return
	}
	relayed, err := api.posts.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeRelayed(w, relayed)
}

func (api *API) closePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIssueID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.posts.Close(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// writeRelayed passes an upstream status and body through unchanged.
func writeRelayed(w http.ResponseWriter, relayed *interfaces.Relayed) {
	status := relayed.Status
	if status == 0 {
		status = http.StatusOK
	}
	body := relayed.Body
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	writeJSON(w, status, body)
}
