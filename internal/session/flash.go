package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// FlashCookie carries a one-shot notice across a redirect.
const FlashCookie = "cc_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is one notice.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetFlash stores a notice for the next page render.
func SetFlash(w http.ResponseWriter, f Flash) {
	if strings.TrimSpace(f.Message) == "" {
		return
	}
	if f.Kind == "" {
		f.Kind = FlashSuccess
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash reads and clears the notice.
func TakeFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	ck, err := r.Cookie(FlashCookie)
	if err != nil {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(ck.Value))
	if err != nil {
		return Flash{}, false
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return Flash{}, false
	}
	return f, true
}
