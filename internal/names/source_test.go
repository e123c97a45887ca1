package names

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

const listingPage = `<html><body>
<div class="content">
  <div class="browsename"><a class="nll" href="/name/okafor">Okafor</a></div>
  <div class="browsename"><a class="nll" href="/name/eze">  Eze  </a></div>
  <div class="browsename"><a class="nll" href="/name/mary-ann">Mary Ann</a></div>
  <div class="browsename"><a class="nll" href="/name/o7">O7</a></div>
  <div class="browsename"><a class="nll" href="/names/usage/igbo">Igbo</a></div>
  <div class="browsename"><a class="other" href="/name/nnadi">Nnadi</a></div>
  <div class="browsename"><a class="nll" href="/name/chidi">Chídì</a></div>
</div>
</body></html>`

func newDirectoryServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_FetchGroup(t *testing.T) {
	var gotPath, gotUA string
	srv := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(listingPage))
	})

	src := NewSource(srv.URL+"/", WithUserAgent("schoolsynth-test"))
	got, err := src.FetchGroup(context.Background(), "igbo")
	if err != nil {
		t.Fatalf("FetchGroup() error = %v", err)
	}

	want := []string{"Okafor", "Eze", "Chídì"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FetchGroup() = %v, want %v", got, want)
	}
	if gotPath != "/names/gender/unisex/usage/igbo" {
		t.Errorf("request path = %s", gotPath)
	}
	if gotUA != "schoolsynth-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestSource_FetchGroup_NonSuccessStatus(t *testing.T) {
	srv := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := NewSource(srv.URL).FetchGroup(context.Background(), "hausa")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound || fetchErr.Group != "hausa" {
		t.Errorf("unexpected FetchError %+v", fetchErr)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error message %q should mention the status", err.Error())
	}
}

func TestSource_FetchGroup_NoMatches(t *testing.T) {
	srv := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>No names here</p></body></html>`))
	})

	got, err := NewSource(srv.URL).FetchGroup(context.Background(), "yoruba")
	if err != nil {
		t.Fatalf("FetchGroup() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("FetchGroup() = %#v, want empty non-nil slice", got)
	}
}

func TestSource_FetchGroup_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewSource(url).FetchGroup(context.Background(), "igbo")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Err == nil {
		t.Error("transport failure should carry the underlying error")
	}
}

func TestSource_Refresh(t *testing.T) {
	srv := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		group := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		if group == "broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<div><div class="browsename"><a class="nll" href="/name/x">` + strings.ToUpper(group[:1]) + group[1:] + `</a></div></div>`))
	})
	src := NewSource(srv.URL)

	got, err := src.Refresh(context.Background(), []string{"igbo", "hausa"})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	want := map[string][]string{"igbo": {"Igbo"}, "hausa": {"Hausa"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Refresh() = %v, want %v", got, want)
	}
	if err := ValidateGroups(got); err != nil {
		t.Errorf("ValidateGroups() error = %v", err)
	}

	if _, err := src.Refresh(context.Background(), []string{"igbo", "broken"}); err == nil {
		t.Error("expected error when one group fails")
	}
}

func TestValidateGroups(t *testing.T) {
	if err := ValidateGroups(nil); err == nil {
		t.Error("expected error for no groups")
	}
	if err := ValidateGroups(map[string][]string{"igbo": {}}); err == nil {
		t.Error("expected error for empty group")
	}
}
