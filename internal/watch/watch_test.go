package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const validEnv = "MANAGEBAC_URL=https://x.managebac.cn\nMANAGEBAC_EMAIL=a@b.com\nMANAGEBAC_PASSWORD=secret\n"

func TestUntilValidImmediate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(validEnv), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := UntilValid(ctx, zap.NewNop(), path); err != nil {
		t.Fatalf("already-valid file should return at once: %v", err)
	}
}

func TestUntilValidSeesCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	done := make(chan error, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() {
		done <- UntilValid(ctx, zap.NewNop(), path)
	}()

	// Give the watcher a moment to subscribe, then create the file.
	time.Sleep(300 * time.Millisecond)
	if err := os.WriteFile(path, []byte(validEnv), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("UntilValid: %v", err)
		}
	case <-time.After(8 * time.Second):
		t.Fatal("UntilValid did not observe the created file")
	}
}

func TestUntilValidIgnoresInvalidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MANAGEBAC_URL=https://your-school.managebac.cn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() {
		done <- UntilValid(ctx, zap.NewNop(), path)
	}()

	time.Sleep(300 * time.Millisecond)
	// Still invalid: must not release the wait.
	if err := os.WriteFile(path, []byte("MANAGEBAC_EMAIL=a@b.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		t.Fatalf("returned on invalid write: %v", err)
	case <-time.After(time.Second):
	}

	if err := os.WriteFile(path, []byte(validEnv), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("UntilValid: %v", err)
		}
	case <-time.After(8 * time.Second):
		t.Fatal("UntilValid did not observe the valid rewrite")
	}
}

func TestUntilValidHonorsCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- UntilValid(ctx, zap.NewNop(), path)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a context error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("UntilValid ignored cancellation")
	}
}
