package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/a-h/respond"
)

// New requires every request to carry one of the API keys. keyToClient maps
// each key to the name of the client that holds it.
func New(keyToClient map[string]string, next http.Handler) *Auth {
	return &Auth{
		Next:        next,
		KeyToClient: keyToClient,
	}
}

type Auth struct {
	Next        http.Handler
	KeyToClient map[string]string
}

// LoadFromFile reads a JSON object of API keys to client names.
func LoadFromFile(name string) (keyToClient map[string]string, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to open keys file: %w", err)
	}
	defer f.Close()
	m := make(map[string]string)
	if err = json.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("auth: failed to decode keys file: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("auth: keys file %q contains no keys", name)
	}
	return m, nil
}

type clientContextKey int

const clientKey clientContextKey = 0

// Client returns the name of the authenticated client.
func Client(r *http.Request) (name string, ok bool) {
	name, ok = r.Context().Value(clientKey).(string)
	return
}

func (a *Auth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	name, ok := a.KeyToClient[key]
	if key == "" || !ok {
		respond.WithError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	r = r.WithContext(context.WithValue(r.Context(), clientKey, name))
	a.Next.ServeHTTP(w, r)
}
