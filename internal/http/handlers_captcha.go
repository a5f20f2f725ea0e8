package httpx

import "net/http"

// captchaInfoHandler serves GET /api/captcha: the public site key clients
// need to render a challenge once the login flow starts demanding one. The
// secret never appears here; an empty key tells the client no challenge
// provider is configured.
func captchaInfoHandler(siteKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"siteKey": siteKey,
			"enabled": siteKey != "",
		})
	}
}
