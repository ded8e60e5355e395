package graphsso

import (
	"net/http"
	"strings"
	"sync"
)

// termination records one call to the fake host's terminal page methods.
type termination struct {
	message  string
	title    string
	linkText string
	linkURL  string
	isError  bool
}

// fakeHost is an in-memory Host used across the package's tests.
type fakeHost struct {
	mu sync.Mutex

	accounts     []*Account
	currentUser  *Account
	establishErr error

	established  []string
	clearCalls   int
	terminations []termination
}

func newFakeHost(accounts ...*Account) *fakeHost {
	return &fakeHost{accounts: accounts}
}

func (f *fakeHost) CurrentUser(_ *http.Request) *Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentUser
}

func (f *fakeHost) FindAccountByEmail(email string) *Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

func (f *fakeHost) EstablishSession(_ http.ResponseWriter, _ *http.Request, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.establishErr != nil {
		return f.establishErr
	}
	f.established = append(f.established, accountID)
	return nil
}

func (f *fakeHost) ClearSession(_ http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
}

func (f *fakeHost) LoginURL() string     { return "https://blog.example.com/wp-login.php" }
func (f *fakeHost) DashboardURL() string { return "https://blog.example.com/wp-admin/" }
func (f *fakeHost) HomeURL() string      { return "https://blog.example.com/" }
func (f *fakeHost) SiteURL() string      { return "https://blog.example.com" }

func (f *fakeHost) IsLogoutSignal(r *http.Request) bool {
	return r.URL.Query().Get("loggedout") == "true"
}

func (f *fakeHost) TerminateWithError(w http.ResponseWriter, _ *http.Request, message string) {
	f.mu.Lock()
	f.terminations = append(f.terminations, termination{message: message, isError: true})
	f.mu.Unlock()
	http.Error(w, message, http.StatusForbidden)
}

func (f *fakeHost) TerminateWithChoice(w http.ResponseWriter, _ *http.Request, message, title, linkText, linkURL string) {
	f.mu.Lock()
	f.terminations = append(f.terminations, termination{
		message: message, title: title, linkText: linkText, linkURL: linkURL,
	})
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(message + "\n" + linkURL))
}

func (f *fakeHost) lastTermination() (termination, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.terminations) == 0 {
		return termination{}, false
	}
	return f.terminations[len(f.terminations)-1], true
}

// fakeRegistry records extension point registrations.
type fakeRegistry struct {
	loginHandlers         []http.HandlerFunc
	passwordResetHandlers []http.HandlerFunc
}

func (f *fakeRegistry) OnLoginPage(h http.HandlerFunc)     { f.loginHandlers = append(f.loginHandlers, h) }
func (f *fakeRegistry) OnPasswordReset(h http.HandlerFunc) { f.passwordResetHandlers = append(f.passwordResetHandlers, h) }
