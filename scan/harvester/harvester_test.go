package harvester

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNodeTableHarvester(t *testing.T) {
	page := `<html><body>
<table>
<thead><tr><th>Host</th><th>Port</th></tr></thead>
<tbody>
<tr><td>node-a.example</td><td>31401</td></tr>
<tr><td> node-b.example </td><td> 8000 </td></tr>
<tr><td>node-c.example</td><td></td></tr>
<tr><td>node-d.example</td><td>not-a-port</td></tr>
</tbody>
</table>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	h := NewNodeTableHarvester(srv.URL)
	addrs, err := h.Harvest()
	if err != nil {
		t.Fatalf("Harvest() failed: %v", err)
	}

	want := []string{"node-a.example:31401", "node-b.example:8000", "node-c.example"}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("Harvest() = %v, want %v", addrs, want)
	}
}

func TestPageGrepHarvester(t *testing.T) {
	page := `<html><body>
<p>Known nodes: 10.0.0.1:31401 and node.example:8000.</p>
<p>Bogus: 10.0.0.2:99999 and plaintext without ports.</p>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	h := NewPageGrepHarvester(srv.URL)
	addrs, err := h.Harvest()
	if err != nil {
		t.Fatalf("Harvest() failed: %v", err)
	}

	want := []string{"10.0.0.1:31401", "node.example:8000"}
	if !reflect.DeepEqual(addrs, want) {
		t.Errorf("Harvest() = %v, want %v", addrs, want)
	}
}

type fixedHarvester struct {
	name  string
	addrs []string
	err   error
}

func (f *fixedHarvester) Harvest() ([]string, error) { return f.addrs, f.err }
func (f *fixedHarvester) Name() string               { return f.name }

func TestCollectDeduplicatesAcrossSources(t *testing.T) {
	got := Collect([]Harvester{
		&fixedHarvester{name: "one", addrs: []string{"a.example:1", "b.example:2"}},
		&fixedHarvester{name: "two", addrs: []string{"b.example:2", "c.example:3", ""}},
		&fixedHarvester{name: "broken", err: os.ErrDeadlineExceeded},
	})

	want := []string{"a.example:1", "b.example:2", "c.example:3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestAppendNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "servers.txt")
	if err := os.WriteFile(path, []byte("a.example:1\n"), 0644); err != nil {
		t.Fatalf("failed to seed servers file: %v", err)
	}

	added, err := AppendNew(path, []string{"a.example:1", "b.example:2", "b.example:2"})
	if err != nil {
		t.Fatalf("AppendNew() failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read servers file: %v", err)
	}
	if string(data) != "a.example:1\nb.example:2\n" {
		t.Errorf("servers file = %q", string(data))
	}
}

func TestAppendNewCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.txt")

	added, err := AppendNew(path, []string{"a.example:1"})
	if err != nil {
		t.Fatalf("AppendNew() failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
}
