package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// Both pure-Go backends must behave the same through the Store contract.
func TestStoreContract(t *testing.T) {
	backends := map[string]Store{
		"memory": NewMemory(),
	}
	if f, err := NewFile(t.TempDir()); err == nil {
		backends["file"] = f
	} else {
		t.Fatalf("file backend: %v", err)
	}

	for name, s := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := s.Get(ctx, "missing")
			if err != nil || got != nil {
				t.Fatalf("missing key: got %q, err=%v", got, err)
			}

			if err := s.Set(ctx, "despesas", []byte(`[1]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err = s.Get(ctx, "despesas")
			if err != nil || string(got) != `[1]` {
				t.Fatalf("get after set: got %q, err=%v", got, err)
			}

			if err := s.Set(ctx, "despesas", []byte(`[1,2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = s.Get(ctx, "despesas")
			if string(got) != `[1,2]` {
				t.Fatalf("get after overwrite: got %q", got)
			}

			err = s.SetMulti(ctx, map[string][]byte{
				"investimentos": []byte(`[3]`),
				"transacoes":    []byte(`[4]`),
			})
			if err != nil {
				t.Fatalf("setmulti: %v", err)
			}
			for key, want := range map[string]string{"investimentos": `[3]`, "transacoes": `[4]`} {
				got, _ = s.Get(ctx, key)
				if string(got) != want {
					t.Fatalf("%s: got %q, want %q", key, got, want)
				}
			}

			if err := s.Delete(ctx, "despesas"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			got, _ = s.Get(ctx, "despesas")
			if got != nil {
				t.Fatalf("get after delete: got %q", got)
			}
			// Deleting again is a no-op.
			if err := s.Delete(ctx, "despesas"); err != nil {
				t.Fatalf("second delete: %v", err)
			}
		})
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", "a.b"} {
		if err := f.Set(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("%q expected error", key)
		}
	}
}

func TestFilePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := f.Set(context.Background(), "salario", []byte(`{"valor":5000}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(context.Background(), "salario")
	if err != nil || string(got) != `{"valor":5000}` {
		t.Fatalf("get after reopen: got %q, err=%v", got, err)
	}

	// No stray temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fincontrol.db")
	s, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "categories", []byte(`["Outros"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "categories")
	if err != nil || string(got) != `["Outros"]` {
		t.Fatalf("get: got %q, err=%v", got, err)
	}

	err = s.SetMulti(ctx, map[string][]byte{
		"dividas":    []byte(`[]`),
		"pagamentos": []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("setmulti: %v", err)
	}
	got, _ = s.Get(ctx, "dividas")
	if string(got) != `[]` {
		t.Fatalf("dividas: got %q", got)
	}
}
