package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/YogeshBarai/url-shortener/internal/entity"
	"github.com/YogeshBarai/url-shortener/internal/metrics"
	"github.com/YogeshBarai/url-shortener/internal/usecase"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type apiHandler struct {
	urls     urlUseCase
	metrics  *metrics.Metrics
	validate *validator.Validate
	links    linkBuilder
}

func (h *apiHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	var owner *int64
	if s, ok := SessionFromContext(r.Context()); ok {
		owner = &s.UserID
	}

	url, err := h.urls.ShortenURL(r.Context(), req.OriginalURL, owner)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	h.metrics.URLsShortened.WithLabelValues(ownerLabel(owner)).Inc()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toURLResponse(url, h.links.shortURL(r, url.ShortCode)))
}

func (h *apiHandler) resolveShortCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	if !usecase.IsShortCode(shortCode) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
		return
	}

	url, err := h.urls.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, urlNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(url, h.links.shortURL(r, url.ShortCode)))
}

func (h *apiHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	urls, err := h.urls.ListOwnedURLs(r.Context(), s.UserID)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	resp := make([]urlResponse, 0, len(urls))
	for i := range urls {
		resp = append(resp, toURLResponse(&urls[i], h.links.shortURL(r, urls[i].ShortCode)))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}
