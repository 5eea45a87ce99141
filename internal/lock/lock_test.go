package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eykd/adsheet-go/internal/lock"
)

// stubFlocker scripts the answers of a flock handle.
type stubFlocker struct {
	acquired  bool
	lockErr   error
	unlockErr error
	calls     []string
}

func (s *stubFlocker) TryLock() (bool, error) {
	s.calls = append(s.calls, "trylock")
	return s.acquired, s.lockErr
}

func (s *stubFlocker) Unlock() error {
	s.calls = append(s.calls, "unlock")
	return s.unlockErr
}

func TestLock_TryLock(t *testing.T) {
	diskFull := errors.New("no space left on device")

	tests := []struct {
		name     string
		acquired bool
		lockErr  error
		wantErr  error
		wantMsg  string
	}{
		{name: "export target free", acquired: true},
		{
			name:    "export already running",
			wantErr: lock.ErrAlreadyLocked,
			wantMsg: "another adsheet export to this file is in progress",
		},
		{
			name:    "flock failure is wrapped",
			lockErr: diskFull,
			wantErr: diskFull,
			wantMsg: "acquiring lock: no space left on device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubFlocker{acquired: tt.acquired, lockErr: tt.lockErr}

			err := lock.New(s).TryLock(context.Background())

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("TryLock() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TryLock() error = %v, want %v", err, tt.wantErr)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLock_TryLock_CancelledContextSkipsFlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &stubFlocker{acquired: true}

	err := lock.New(s).TryLock(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("TryLock() error = %v, want context.Canceled", err)
	}
	if len(s.calls) != 0 {
		t.Errorf("flock touched after cancellation: %v", s.calls)
	}
}

func TestLock_Unlock(t *testing.T) {
	busy := errors.New("bad file descriptor")
	s := &stubFlocker{acquired: true, unlockErr: busy}
	l := lock.New(s)

	if err := l.TryLock(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := l.Unlock()

	if !errors.Is(err, busy) {
		t.Errorf("Unlock() error = %v, want wrapped %v", err, busy)
	}
	if got := len(s.calls); got != 2 || s.calls[1] != "unlock" {
		t.Errorf("calls = %v", s.calls)
	}
}

func TestLock_PathOfInjectedFlocker(t *testing.T) {
	if got := lock.New(&stubFlocker{}).Path(); got != "" {
		t.Errorf("Path() = %q, want empty", got)
	}
}

func TestNewForTarget_LockPath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clean.csv")

	l := lock.NewForTarget(out)

	if got, want := l.Path(), out+".lock"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestNewForTarget_SecondHolderIsRejected(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clean.xlsx")
	first := lock.NewForTarget(out)
	second := lock.NewForTarget(out)

	if err := first.TryLock(context.Background()); err != nil {
		t.Fatalf("first TryLock() error = %v", err)
	}
	if err := second.TryLock(context.Background()); !errors.Is(err, lock.ErrAlreadyLocked) {
		t.Fatalf("second TryLock() error = %v, want ErrAlreadyLocked", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := second.TryLock(context.Background()); err != nil {
		t.Fatalf("TryLock() after release error = %v", err)
	}
	if err := second.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
}
