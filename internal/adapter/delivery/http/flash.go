package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookieName = "flash"

const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

type flashMessage struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// setFlash stores messages to be shown by the next rendered page.
func setFlash(w http.ResponseWriter, msgs ...flashMessage) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns pending messages and clears them.
func popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var msgs []flashMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil
	}

	return msgs
}

func successFlash(msg string) flashMessage {
	return flashMessage{Category: flashSuccess, Message: msg}
}

func dangerFlash(msg string) flashMessage {
	return flashMessage{Category: flashDanger, Message: msg}
}
