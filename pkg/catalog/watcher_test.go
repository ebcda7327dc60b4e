package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestWatcher_ReloadsOnChangeAndReportsOutcome(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roles.yaml")
	writeCatalogFile(t, path, "roles: []\n")

	c, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(c, path, nil)
	require.NoError(t, err)
	w.settle = 20 * time.Millisecond

	type outcome struct {
		ok    bool
		roles int
	}
	outcomes := make(chan outcome, 4)
	w.OnReload(func(ok bool, roles int) { outcomes <- outcome{ok, roles} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	writeCatalogFile(t, path, `roles:
  - name: membership_chair
    display_name: Membership Chair
    level: 25
    permissions:
      - resource: member
        action: view
        scope: chapter
`)

	select {
	case o := <-outcomes:
		assert.True(t, o.ok)
		assert.Equal(t, len(BuiltinRoles())+1, o.roles)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
	_, ok := c.Role("membership_chair")
	assert.True(t, ok)

	writeCatalogFile(t, path, "roles: [\n")

	select {
	case o := <-outcomes:
		assert.False(t, o.ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no failed reload observed")
	}
	_, ok = c.Role("membership_chair")
	assert.True(t, ok, "failed reload keeps the previous catalog")

	cancel()
	<-done
}
