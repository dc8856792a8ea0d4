package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PortfolioVoice/internal/api/voice"
	"PortfolioVoice/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VOICE_CATALOG_PATH", "")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "voicenav" {
		t.Errorf("Use = %q, want %q", cmd.Use, "voicenav")
	}

	want := map[string]bool{"score": false, "resolve": false, "catalog": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	if formatFlag == nil || formatFlag.DefValue != "text" {
		t.Errorf("--format flag = %v, want default text", formatFlag)
	}
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	if _, err := run(t, "catalog", "--format", "yaml"); err == nil {
		t.Error("Execute() error = nil, want a format error")
	}
}

func TestScoreCmd(t *testing.T) {
	out, err := run(t, "score", "can I see your resume")
	if err != nil {
		t.Fatalf("score error = %v", err)
	}
	if !strings.Contains(out, "navigate_section resume") {
		t.Errorf("score output = %q, want the resume intent", out)
	}

	out, err = run(t, "score", "--format", "json", "open tidbit")
	if err != nil {
		t.Fatalf("score --format json error = %v", err)
	}
	var got scoreOutput
	if err := jsoniter.UnmarshalFromString(out, &got); err != nil {
		t.Fatalf("decode error = %v (output %q)", err, out)
	}
	if got.Intent.Target != "tidbit" || got.Intent.Score != 5 {
		t.Errorf("intent = %+v, want tidbit with score 5", got.Intent)
	}
}

func TestScoreCmdNoMatch(t *testing.T) {
	out, err := run(t, "score", "qwerty")
	if err != nil {
		t.Fatalf("score error = %v", err)
	}
	if !strings.Contains(out, "No entry matched.") {
		t.Errorf("score output = %q, want the no match line", out)
	}
}

func TestResolveCmdLocal(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "home from about",
			args: []string{"resolve", "--page", "/about.html", "take me home"},
			want: []string{"Target:  landing", "redirect_to_page index.html"},
		},
		{
			name: "filter from a project page",
			args: []string{"resolve", "--page", "/tidbit.html", "mobile"},
			want: []string{"redirect_to_page index.html", "apply_filter mobile (deferred"},
		},
		{
			name: "nothing matched",
			args: []string{"resolve", "--page", "/index.html", "qwerty"},
			want: []string{"Target:  landing", "scroll_within_page #landing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("resolve error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output = %q, want it to contain %q", out, want)
				}
			}
		})
	}
}

func TestResolveCmdRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"{\"action\":\"navigate_page\",\"target\":\"about\",\"confidence\":0.2}"}`))
	}))
	defer srv.Close()

	out, err := run(t, "resolve", "--remote", "--proxy", srv.URL, "--format", "json", "who is she")
	if err != nil {
		t.Fatalf("resolve --remote error = %v", err)
	}

	var got voice.CommandResponse
	if err := jsoniter.UnmarshalFromString(out, &got); err != nil {
		t.Fatalf("decode error = %v (output %q)", err, out)
	}
	if got.Source != entity.SourceRemote || got.Resolution.Target != "about" {
		t.Errorf("outcome = %s/%s, want remote/about", got.Source, got.Resolution.Target)
	}
	if !got.Resolution.LowConfidence {
		t.Error("LowConfidence = false, want true below the threshold")
	}
}

func TestResolveCmdRemoteNeedsProxy(t *testing.T) {
	t.Setenv("VOICE_PROXY_URL", "")

	if _, err := run(t, "resolve", "--remote", "open tidbit"); err == nil {
		t.Error("resolve --remote error = nil, want missing proxy error")
	}
}

func TestCatalogCmd(t *testing.T) {
	out, err := run(t, "catalog", "--kind", "filter_tag", "--format", "json")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}

	var entries []entity.DestinationEntry
	if err := jsoniter.UnmarshalFromString(out, &entries); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("filter tags = %d, want 5", len(entries))
	}

	if _, err := run(t, "catalog", "--kind", "planet"); err == nil {
		t.Error("catalog --kind planet error = nil, want unknown kind")
	}
}
