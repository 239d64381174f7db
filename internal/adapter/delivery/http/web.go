package http

import (
	"context"
	"errors"
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

const (
	msgAccountCreated     = "Account created successfully!"
	msgAccountExists      = "An account with this username or email already exists."
	msgPasswordTooLong    = "Password must be at most 72 bytes long."
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgLoginToShorten     = "Please log in to shorten URLs."
)

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL string, userID *int64) (*entity.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	ListOwnedURLs(ctx context.Context, userID int64) ([]entity.URL, error)
}

type userUseCase interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, error)
}

type visitorUseCase interface {
	RecordVisit(ctx context.Context) (entity.SiteStats, error)
}

type webHandler struct {
	urls           urlUseCase
	users          userUseCase
	visitors       visitorUseCase
	sessions       *SessionManager
	metrics        *metrics.Metrics
	validate       *validator.Validate
	links          linkBuilder
	allowAnonymous bool
}

func (h *webHandler) registerPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, pageRegister, pageData{
		Title:   "Register",
		Flashes: popFlashes(w, r),
	})
}

func (h *webHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	if err := render.DecodeForm(r.Body, &req); err != nil {
		h.page(w, r, http.StatusBadRequest, pageRegister, pageData{
			Title:   "Register",
			Flashes: []flashMessage{dangerFlash(invalidRequestBodyResponse.Message)},
		})
		return
	}

	form := map[string]string{"username": req.Username, "email": req.Email}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.ResultFailure).Inc()
		h.page(w, r, http.StatusBadRequest, pageRegister, pageData{
			Title:   "Register",
			Flashes: validationFlashes(err),
			Form:    form,
		})
		return
	}

	_, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.metrics.Registrations.WithLabelValues(metrics.ResultFailure).Inc()

		if errors.Is(err, entity.ErrUserExists) {
			h.page(w, r, http.StatusConflict, pageRegister, pageData{
				Title:   "Register",
				Flashes: []flashMessage{dangerFlash(msgAccountExists)},
				Form:    form,
			})
			return
		}

		if errors.Is(err, entity.ErrPasswordTooLong) {
			h.page(w, r, http.StatusBadRequest, pageRegister, pageData{
				Title:   "Register",
				Flashes: []flashMessage{dangerFlash(msgPasswordTooLong)},
				Form:    form,
			})
			return
		}

		h.serverError(w, r, err)
		return
	}

	h.metrics.Registrations.WithLabelValues(metrics.ResultSuccess).Inc()

	setFlash(w, successFlash(msgAccountCreated))
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *webHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, pageLogin, pageData{
		Title:   "Log in",
		Flashes: popFlashes(w, r),
	})
}

func (h *webHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	if err := render.DecodeForm(r.Body, &req); err != nil {
		h.page(w, r, http.StatusBadRequest, pageLogin, pageData{
			Title:   "Log in",
			Flashes: []flashMessage{dangerFlash(invalidRequestBodyResponse.Message)},
		})
		return
	}

	form := map[string]string{"email": req.Email}

	if err := h.validate.Struct(req); err != nil {
		h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		h.page(w, r, http.StatusBadRequest, pageLogin, pageData{
			Title:   "Log in",
			Flashes: validationFlashes(err),
			Form:    form,
		})
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()

		if errors.Is(err, entity.ErrInvalidCredentials) {
			h.page(w, r, http.StatusOK, pageLogin, pageData{
				Title:   "Log in",
				Flashes: []flashMessage{dangerFlash(msgInvalidCredentials)},
				Form:    form,
			})
			return
		}

		h.serverError(w, r, err)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *webHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *webHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	s, _ := SessionFromContext(r.Context())

	urls, err := h.urls.ListOwnedURLs(r.Context(), s.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	views := make([]urlView, 0, len(urls))
	for _, u := range urls {
		views = append(views, urlView{
			ShortCode:   u.ShortCode,
			ShortURL:    h.links.shortURL(r, u.ShortCode),
			OriginalURL: u.OriginalURL,
			CreatedAt:   u.CreatedAt,
		})
	}

	h.page(w, r, http.StatusOK, pageDashboard, pageData{
		Title:   "Dashboard",
		Flashes: popFlashes(w, r),
		URLs:    views,
	})
}

func (h *webHandler) index(w http.ResponseWriter, r *http.Request) {
	stats, err := h.visitors.RecordVisit(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, pageIndex, pageData{
		Title:   "Home",
		Flashes: popFlashes(w, r),
		Stats:   &stats,
	})
}

func (h *webHandler) shorten(w http.ResponseWriter, r *http.Request) {
	s, loggedIn := SessionFromContext(r.Context())
	if !loggedIn && !h.allowAnonymous {
		setFlash(w, dangerFlash(msgLoginToShorten))
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var req shortenForm

	if err := render.DecodeForm(r.Body, &req); err != nil {
		h.page(w, r, http.StatusBadRequest, pageIndex, pageData{
			Title:   "Home",
			Flashes: []flashMessage{dangerFlash(invalidRequestBodyResponse.Message)},
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.page(w, r, http.StatusBadRequest, pageIndex, pageData{
			Title:   "Home",
			Flashes: validationFlashes(err),
			Form:    map[string]string{"long_url": req.LongURL},
		})
		return
	}

	var owner *int64
	if loggedIn {
		owner = &s.UserID
	}

	url, err := h.urls.ShortenURL(r.Context(), req.LongURL, owner)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.metrics.URLsShortened.WithLabelValues(ownerLabel(owner)).Inc()

	shortURL := h.links.shortURL(r, url.ShortCode)

	h.page(w, r, http.StatusOK, pageIndex, pageData{
		Title:    "Home",
		Flashes:  []flashMessage{successFlash("Short URL: " + shortURL)},
		ShortURL: shortURL,
	})
}

func (h *webHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, ok := h.resolve(w, r, shortCode)
	if !ok {
		return
	}

	h.metrics.Redirects.WithLabelValues(metrics.ResultSuccess).Inc()

	http.Redirect(w, r, url.OriginalURL, http.StatusFound)
}

// resolve looks up shortCode and writes the 404 or 500 page itself when the
// lookup does not succeed.
func (h *webHandler) resolve(w http.ResponseWriter, r *http.Request, shortCode string) (*entity.URL, bool) {
	if !usecase.IsShortCode(shortCode) {
		h.metrics.Redirects.WithLabelValues(metrics.ResultNotFound).Inc()
		h.notFound(w, r)
		return nil, false
	}

	url, err := h.urls.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			h.metrics.Redirects.WithLabelValues(metrics.ResultNotFound).Inc()
			h.notFound(w, r)
			return nil, false
		}

		h.metrics.Redirects.WithLabelValues(metrics.ResultFailure).Inc()
		h.serverError(w, r, err)
		return nil, false
	}

	return url, true
}

func (h *webHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusNotFound, pageNotFound, pageData{Title: "Not Found"})
}

func (h *webHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	h.page(w, r, http.StatusInternalServerError, pageError, pageData{Title: "Error"})
}

func (h *webHandler) page(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if err := renderPage(w, r, status, name, data); err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func validationFlashes(err error) []flashMessage {
	errs := getValidationErrors(err)
	msgs := make([]flashMessage, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, dangerFlash(e.String()))
	}
	return msgs
}

func ownerLabel(owner *int64) string {
	if owner == nil {
		return "anonymous"
	}
	return "user"
}
