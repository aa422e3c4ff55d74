package oauth_test

import (
	"strings"
	"testing"

	"github.com/hemdhoni222/todo-app/internal/oauth"
)

func TestStateRoundTrip(t *testing.T) {
	g := oauth.NewGoogle("id", "secret", "http://localhost/cb", "state-secret")
	s := g.NewState()
	if !g.VerifyState(s) {
		t.Fatal("freshly minted state did not verify")
	}
}

func TestStateTamper(t *testing.T) {
	g := oauth.NewGoogle("id", "secret", "http://localhost/cb", "state-secret")
	s := g.NewState()

	i := strings.IndexByte(s, '.')
	forged := "forgednonce" + s[i:]
	if g.VerifyState(forged) {
		t.Fatal("tampered state accepted")
	}
	if g.VerifyState("nodotanywhere") {
		t.Fatal("unsigned state accepted")
	}
	if g.VerifyState(s[:i] + ".!!!notbase64") {
		t.Fatal("bad signature encoding accepted")
	}
}

func TestStateKeyMismatch(t *testing.T) {
	a := oauth.NewGoogle("id", "secret", "http://localhost/cb", "key-a")
	b := oauth.NewGoogle("id", "secret", "http://localhost/cb", "key-b")
	if b.VerifyState(a.NewState()) {
		t.Fatal("state signed with another key accepted")
	}
}

func TestAuthURLForcesChooser(t *testing.T) {
	g := oauth.NewGoogle("client-123", "secret", "http://localhost/cb", "k")
	u := g.AuthURL(g.NewState())
	if !strings.Contains(u, "prompt=select_account") {
		t.Fatalf("auth url missing account chooser: %s", u)
	}
	if !strings.Contains(u, "client_id=client-123") {
		t.Fatalf("auth url missing client id: %s", u)
	}
}
