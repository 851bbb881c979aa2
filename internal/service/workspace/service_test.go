package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/service/outline"
)

// memRepo is an in-memory SnapshotRepository with the same version guard
// as the real ones.
type memRepo struct {
	mu      sync.Mutex
	snaps   map[string]*models.Snapshot
	saves   int
	loadErr error
	saveErr error
}

func newMemRepo() *memRepo { return &memRepo{snaps: make(map[string]*models.Snapshot)} }

func (m *memRepo) Load(_ context.Context, userID string) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snaps[userID], nil
}

func (m *memRepo) Save(_ context.Context, userID string, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if cur, ok := m.snaps[userID]; ok && cur.Version >= snap.Version {
		return nil
	}
	m.snaps[userID] = snap
	return nil
}

func (m *memRepo) get(userID string) *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[userID]
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestApply_PersistsLocallyAndSyncsCloud(t *testing.T) {
	local, cloud := newMemRepo(), newMemRepo()
	svc := NewService(local, cloud, time.Second, testLogger())
	ctx := context.Background()

	res, err := svc.Apply(ctx, "u1", &outline.CreateOutlineOp{Title: "Physics"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Kind != outline.KindCreateOutline || res.Version != 1 {
		t.Errorf("result = %+v", res)
	}
	created, ok := res.Result.(*models.Outline)
	if !ok || created.Title != "Physics" {
		t.Fatalf("result entity = %#v", res.Result)
	}

	if snap := local.get("u1"); snap == nil || snap.Version != 1 || len(snap.Outlines) != 1 {
		t.Fatalf("local snapshot = %+v, want version 1 with one outline", snap)
	}

	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}
	if snap := cloud.get("u1"); snap == nil || snap.Version != 1 {
		t.Errorf("cloud snapshot = %+v, want flushed on close", snap)
	}
}

func TestApply_FailedOperationPersistsNothing(t *testing.T) {
	local := newMemRepo()
	svc := NewService(local, nil, 0, testLogger())

	_, err := svc.Apply(context.Background(), "u1", &outline.DeleteSectionOp{OutlineID: "missing", SectionID: "s"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if local.saves != 0 {
		t.Errorf("local saves = %d, want 0", local.saves)
	}
}

func TestApply_LocalFailureKeepsMutation(t *testing.T) {
	local := newMemRepo()
	local.saveErr = errors.New("disk full")
	svc := NewService(local, nil, 0, testLogger())
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "u1", &outline.CreateOutlineOp{}); err != nil {
		t.Fatalf("Apply() error = %v, want nil (persist failures are logged)", err)
	}
	snap, err := svc.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Outlines) != 1 {
		t.Errorf("outlines = %d, want 1", len(snap.Outlines))
	}
}

func TestLoad_PicksHigherVersion(t *testing.T) {
	tests := []struct {
		name         string
		local, cloud *models.Snapshot
		cloudErr     error
		wantTitle    string
		wantCached   bool
	}{
		{
			name:      "local newer",
			local:     &models.Snapshot{Version: 5, Outlines: []models.Outline{{ID: "a", Title: "local"}}},
			cloud:     &models.Snapshot{Version: 3, Outlines: []models.Outline{{ID: "a", Title: "cloud"}}},
			wantTitle: "local",
		},
		{
			name:       "cloud newer",
			local:      &models.Snapshot{Version: 2, Outlines: []models.Outline{{ID: "a", Title: "local"}}},
			cloud:      &models.Snapshot{Version: 7, Outlines: []models.Outline{{ID: "a", Title: "cloud"}}},
			wantTitle:  "cloud",
			wantCached: true,
		},
		{
			name:       "only cloud",
			cloud:      &models.Snapshot{Version: 1, Outlines: []models.Outline{{ID: "a", Title: "cloud"}}},
			wantTitle:  "cloud",
			wantCached: true,
		},
		{
			name:      "cloud unreachable",
			local:     &models.Snapshot{Version: 1, Outlines: []models.Outline{{ID: "a", Title: "local"}}},
			cloudErr:  errors.New("connection refused"),
			wantTitle: "local",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, cloud := newMemRepo(), newMemRepo()
			if tt.local != nil {
				local.snaps["u1"] = tt.local
			}
			if tt.cloud != nil {
				cloud.snaps["u1"] = tt.cloud
			}
			cloud.loadErr = tt.cloudErr

			svc := NewService(local, cloud, time.Second, testLogger())
			defer svc.Close()

			snap, err := svc.Snapshot(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}
			if got := snap.Outlines[0].Title; got != tt.wantTitle {
				t.Errorf("title = %q, want %q", got, tt.wantTitle)
			}
			if tt.wantCached && local.get("u1").Outlines[0].Title != "cloud" {
				t.Error("cloud snapshot not cached locally")
			}
		})
	}
}

func TestLoad_LocalFailureIsInternal(t *testing.T) {
	local := newMemRepo()
	local.loadErr = errors.New("corrupt file")
	svc := NewService(local, nil, 0, testLogger())

	_, err := svc.Snapshot(context.Background(), "u1")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}

	// A later request retries the load.
	local.mu.Lock()
	local.loadErr = nil
	local.mu.Unlock()
	if _, err := svc.Snapshot(context.Background(), "u1"); err != nil {
		t.Errorf("retry error = %v", err)
	}
}

func TestUnauthenticated(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	_, err := svc.Apply(context.Background(), "", &outline.CreateOutlineOp{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "alice", &outline.CreateOutlineOp{Title: "mine"}); err != nil {
		t.Fatal(err)
	}
	snap, err := svc.Snapshot(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Outlines) != 0 {
		t.Errorf("bob sees %d outlines", len(snap.Outlines))
	}
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	ctx := context.Background()

	changes, cancel, err := svc.Subscribe(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	res, err := svc.Apply(ctx, "u1", &outline.CreateOutlineOp{Title: "x"})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		created := res.Result.(*models.Outline)
		if c.Kind != outline.KindCreateOutline || c.OutlineID != created.ID || c.Version != 1 {
			t.Errorf("change = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	cancel()
	if _, ok := <-changes; ok {
		t.Error("channel still open after cancel")
	}
}

func TestApplyDrop(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	ctx := context.Background()

	a := mustCreate(t, svc, "A")
	b := mustCreate(t, svc, "B")

	res, err := svc.ApplyDrop(ctx, "u1", &outline.Drop{
		Payload: outline.Transfer{Kind: outline.TransferOutlineMerge, OutlineID: a.ID},
		Target:  outline.DropTarget{OutlineID: b.ID},
	})
	if err != nil {
		t.Fatalf("ApplyDrop() error = %v", err)
	}
	if res.Kind != outline.KindMergeOutlines {
		t.Errorf("kind = %s", res.Kind)
	}

	if _, err := svc.ApplyDrop(ctx, "u1", nil); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("nil drop error = %v", err)
	}
}

func TestApply_ConcurrentRequestsAreSerialized(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	ctx := context.Background()
	o := mustCreate(t, svc, "shared")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Apply(ctx, "u1", &outline.AddSectionOp{OutlineID: o.ID}); err != nil {
				t.Errorf("Apply() error = %v", err)
			}
		}()
	}
	wg.Wait()

	snap, err := svc.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(snap.Outlines[0].Sections); got != n {
		t.Errorf("sections = %d, want %d", got, n)
	}
	if snap.Version != n+1 {
		t.Errorf("version = %d, want %d", snap.Version, n+1)
	}
}

func TestClose_RejectsNewWork(t *testing.T) {
	svc := NewService(newMemRepo(), nil, 0, testLogger())
	if err := svc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Snapshot(context.Background(), "u1"); !errors.Is(err, domain.ErrInternal) {
		t.Errorf("error = %v, want ErrInternal after Close", err)
	}
}

func mustCreate(t *testing.T, svc *Service, title string) *models.Outline {
	t.Helper()
	res, err := svc.Apply(context.Background(), "u1", &outline.CreateOutlineOp{Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return res.Result.(*models.Outline)
}
