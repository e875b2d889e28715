package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	commonDir string
	err       error
}

func (f *fakeResolver) Run(ctx context.Context, cwd string, okExit []int, args ...string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.commonDir, nil
}

func TestStartReturnsNilWatcherWhenCommonDirUnresolvable(t *testing.T) {
	w, err := Start(context.Background(), &fakeResolver{err: assertErr{}}, t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestStartWatchesRefsAndSignalsOnChange(t *testing.T) {
	dir := t.TempDir()
	refsDir := filepath.Join(dir, "refs", "heads")
	require.NoError(t, os.MkdirAll(refsDir, 0o755))

	w, err := Start(context.Background(), &fakeResolver{commonDir: dir}, dir)
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(refsDir, "main"), []byte("abc123\n"), 0o644))

	select {
	case <-w.Events:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a signal after writing under refs/heads")
	}
}

func TestSignalDebouncesWithinWindow(t *testing.T) {
	w := &Watcher{Events: make(chan struct{}, 1)}
	w.signal()
	w.signal()

	count := 0
	for {
		select {
		case <-w.Events:
			count++
		default:
			assert.Equal(t, 1, count, "second signal within the debounce window should be dropped")
			return
		}
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "not a git repository" }
