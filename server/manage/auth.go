package servermanage

import (
	"net/http"
	"sync"
	"time"
)

const (
	UserCookieName       = "user_token"
	DEFAULT_TOKEN_EXPIRY = 30 * time.Minute
)

// auth for management is in memory as the expected number of operators is
// tiny and a restart logging everyone out is fine
type managementUser struct {
	username   string
	expireTime time.Time
}

type tokenStore struct {
	tokenToUser   map[string]*managementUser
	tokenDuration time.Duration
	now           func() time.Time
	mu            sync.Mutex
}

func newTokenStore(tokenDuration time.Duration) *tokenStore {
	return &tokenStore{
		tokenToUser:   map[string]*managementUser{},
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// getToken also pushes the token's expiry back
func (t *tokenStore) getToken(token string) (managementUser, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropExpired()
	user, ok := t.tokenToUser[token]
	if !ok {
		return managementUser{}, false
	}
	user.expireTime = t.now().Add(t.tokenDuration)
	return *user, true
}

func (t *tokenStore) addToken(token string, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokenToUser[token] = &managementUser{
		username:   username,
		expireTime: t.now().Add(t.tokenDuration),
	}
}

// must hold mu
func (t *tokenStore) dropExpired() {
	currentTime := t.now()
	for token, user := range t.tokenToUser {
		if currentTime.After(user.expireTime) {
			delete(t.tokenToUser, token)
		}
	}
}

func (h *manageHandler) ensureLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(UserCookieName)
		if err != nil {
			http.Redirect(w, r, "/manage/login", http.StatusSeeOther)
			return
		}
		if _, doesExist := h.tokens.getToken(cookie.Value); !doesExist {
			http.Redirect(w, r, "/manage/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
