package trello

import "sync"

// Credentials holds the application key and the user's token. One value is
// shared by the client and whoever stores new tokens, so a re-authorization
// takes effect on the next request.
type Credentials struct {
	mu     sync.RWMutex
	appKey string
	token  string
}

func NewCredentials(appKey, token string) *Credentials {
	return &Credentials{appKey: appKey, token: token}
}

func (c *Credentials) AppKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appKey
}

func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Credentials) HasToken() bool {
	return c.Token() != ""
}
