package roles

import (
	"strings"
	"testing"
	"time"

	"roles-tui/config"
)

const target = "0x1234567890123456789012345678901234567890"

func TestRender(t *testing.T) {
	if out := Render(nil, 0); !strings.Contains(out, "No roles created yet") {
		t.Errorf("expected empty notice, got %q", out)
	}

	entries := []config.RoleEntry{{ID: 12, Target: target, Revoked: true}, {ID: 4021, Target: target}}
	out := Render(entries, 1)
	for _, want := range []string{"Role 12 (revoked)", "Role 4021", "2 roles"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestRenderEntry(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	t.Run("batch file", func(t *testing.T) {
		out := RenderEntry(config.RoleEntry{ID: 7, Target: target, BatchFile: "roles-batch-1.json", CreatedAt: created}, "")
		for _, want := range []string{"Role 7", target, "roles-batch-1.json", "2026-03-01 12:30:00"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})

	t.Run("options and revoked", func(t *testing.T) {
		out := RenderEntry(config.RoleEntry{ID: 7, Target: target, Options: "send", Revoked: true, CreatedAt: created}, "")
		for _, want := range []string{"send", "revoked"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
		if strings.Contains(out, "delegatecall") {
			t.Errorf("send-only role shown with delegatecall: %q", out)
		}

		if out := RenderEntry(config.RoleEntry{ID: 7, Target: target, CreatedAt: created}, ""); !strings.Contains(out, "send + delegatecall") {
			t.Errorf("expected older entries to default to both, got %q", out)
		}
	})

	t.Run("tx with explorer", func(t *testing.T) {
		hash := "0xfeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface"
		out := RenderEntry(config.RoleEntry{ID: 7, Target: target, TxHash: hash, CreatedAt: created}, "https://etherscan.io")
		if !strings.Contains(out, "https://etherscan.io/tx/"+hash) {
			t.Errorf("expected explorer link in %q", out)
		}
	})
}
