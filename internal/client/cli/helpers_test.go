package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/client"
	"github.com/dmitrijs2005/padho/internal/client/config"
	"github.com/dmitrijs2005/padho/internal/fakebackend"
	"github.com/dmitrijs2005/padho/internal/logging"
)

// output collects everything printed through printlnFn.
type output struct {
	mu    sync.Mutex
	lines []string
}

func captureOutput(t *testing.T) *output {
	t.Helper()
	o := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.lines = append(o.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return o
}

func (o *output) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

func (o *output) has(line string) bool {
	for _, l := range o.all() {
		if l == line {
			return true
		}
	}
	return false
}

func (o *output) find(prefix string) (string, bool) {
	for _, l := range o.all() {
		if strings.HasPrefix(l, prefix) {
			return l, true
		}
	}
	return "", false
}

// stubInputs answers text prompts from texts in order, and every password
// and choice prompt with password and choice.
func stubInputs(t *testing.T, texts []string, password, choice string) {
	t.Helper()
	origST, origGP, origGC := getSimpleText, getPassword, getChoice

	var mu sync.Mutex
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(texts) == 0 {
			return "", fmt.Errorf("unexpected prompt %q", prompt)
		}
		next := texts[0]
		texts = texts[1:]
		return next, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	getChoice = func(_ *bufio.Reader, _ string, _ []string, def string, _ io.Writer) (string, error) {
		if choice == "" {
			return def, nil
		}
		return choice, nil
	}

	t.Cleanup(func() {
		getSimpleText, getPassword, getChoice = origST, origGP, origGC
	})
}

func testConfig(backendURL string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.BackendURL = backendURL
	c.ProviderURL = backendURL + "/dev/provider"
	c.CallbackPort = 0
	c.RequestTimeout = 5 * time.Second
	return c
}

// newTestApp builds an App talking to b over HTTP.
func newTestApp(t *testing.T, b *fakebackend.Backend) *App {
	t.Helper()
	cfg := testConfig(b.URL)
	api, err := client.NewHTTPClient(cfg.BackendURL, cfg.RequestTimeout, logging.Discard())
	require.NoError(t, err)
	return newApp(cfg, logging.Discard(), api, bufio.NewReader(strings.NewReader("")), io.Discard)
}
