package client

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// sessionJar is an http.CookieJar that can forget everything at once.
// It holds the ambient session credential; nothing outside the transport
// reads from it.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := newCookieJar()
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: jar}, nil
}

func newCookieJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// Reset drops all stored cookies.
func (j *sessionJar) Reset() {
	jar, err := newCookieJar()
	if err != nil {
		return
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
}
