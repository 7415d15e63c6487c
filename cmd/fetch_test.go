package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s|%s|%s|%s", r.Method, body, r.Header.Get("X-Test"), r.UserAgent())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Stdout(t *testing.T) {
	srv := newEchoServer(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"get", nil, "GET|||" + UserAgents["warp"]},
		{"post", []string{"-d", "q=1"}, "POST|q=1||" + UserAgents["warp"]},
		{"method", []string{"-X", "delete"}, "DELETE|||" + UserAgents["warp"]},
		{"headers", []string{"-H", "X-Test: yes", "-A", "agent/1"}, "GET||yes|agent/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, _ := useTestIO(t)
			args := append(append([]string{}, tt.args...), srv.URL+"/echo")
			if err := fetch(newFlagContext(t, "fetch", fetchFlags, args...)); err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if out.String() != tt.want {
				t.Fatalf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestFetch_OutputFile(t *testing.T) {
	srv := newEchoServer(t)
	out, _, fs := useTestIO(t)
	ctx := newFlagContext(t, "fetch", fetchFlags, "-o", "/out/page.txt", srv.URL+"/echo")
	if err := fs.MkdirAll("/out", 0755); err != nil {
		t.Fatal(err)
	}
	if err := fetch(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("stdout should stay empty, got %q", out.String())
	}
	got, err := afero.ReadFile(fs, "/out/page.txt")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "GET|||"+UserAgents["warp"] {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestFetch_Failures(t *testing.T) {
	srv := newEchoServer(t)
	tests := []struct {
		name string
		args []string
	}{
		{"fail on 404", []string{"-f", srv.URL + "/missing"}},
		{"malformed url", []string{"http://[::1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, _ := useTestIO(t)
			err := fetch(newFlagContext(t, "fetch", fetchFlags, tt.args...))
			ec, ok := err.(cli.ExitCoder)
			if !ok || ec.ExitCode() != 1 {
				t.Fatalf("expected exit code 1, got %v", err)
			}
			if out.Len() != 0 {
				t.Fatalf("no body expected, got %q", out.String())
			}
		})
	}
}

func TestFetch_404WithoutFail(t *testing.T) {
	srv := newEchoServer(t)
	out, _, _ := useTestIO(t)
	if err := fetch(newFlagContext(t, "fetch", fetchFlags, srv.URL+"/missing")); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("expected the 404 body on stdout")
	}
}

func TestFetch_HelpArg(t *testing.T) {
	useTestIO(t)
	ctx := newFlagContext(t, "fetch", fetchFlags, "help")
	ctx.App.Commands = []cli.Command{{Name: "fetch", Flags: fetchFlags}}
	ctx.Command = ctx.App.Commands[0]
	if err := fetch(ctx); err != nil {
		t.Fatalf("help: %v", err)
	}
}
