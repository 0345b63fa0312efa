package http

import (
	"net/http"
	"strings"
)

func (api *API) registerArticleRoutes(mux *http.ServeMux) {
	api.handle(mux, "GET", "/articles", http.HandlerFunc(api.listArticles))
	api.handle(mux, "GET", "/articles/{id...}", http.HandlerFunc(api.getArticle))
	api.handle(mux, "GET", "/categories", http.HandlerFunc(api.listCategories))
	api.handle(mux, "GET", "/categories/{id}", http.HandlerFunc(api.getCategory))
	api.handle(mux, "GET", "/tags", http.HandlerFunc(api.listTags))
	api.handle(mux, "GET", "/tags/{id}", http.HandlerFunc(api.getTag))
}

func (api *API) listArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := strings.TrimSpace(query.Get("category"))
	tag := strings.TrimSpace(query.Get("tag"))

	var (
		list any
		err  error
	)
	switch {
	case category != "":
		list, err = api.articles.ByCategory(r.Context(), category)
	case tag != "":
		list, err = api.articles.ByTag(r.Context(), tag)
	default:
		list, err = api.articles.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *API) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := api.articles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (api *API) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := api.articles.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (api *API) getCategory(w http.ResponseWriter, r *http.Request) {
	detail, err := api.articles.Category(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (api *API) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := api.articles.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (api *API) getTag(w http.ResponseWriter, r *http.Request) {
	detail, err := api.articles.Tag(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
