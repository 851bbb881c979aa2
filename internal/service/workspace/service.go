package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
	"studyplan/internal/domain/repositories"
	"studyplan/internal/domain/services"
	"studyplan/internal/service/outline"
)

// subscriberBuffer is how many changes a slow subscriber may lag behind
// before changes are dropped for it.
const subscriberBuffer = 16

// Service implements services.WorkspaceService
type Service struct {
	local        repositories.SnapshotRepository
	cloud        repositories.SnapshotRepository // nil disables cloud sync
	cloudTimeout time.Duration
	logger       *slog.Logger
	storeOpts    []outline.Option

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

// session is one user's loaded store. mu serializes every store access.
type session struct {
	userID string

	loadOnce sync.Once
	loadErr  error

	mu     sync.Mutex
	store  *outline.Store
	syncer *cloudSyncer

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan outline.Change
}

// NewService creates a workspace service. cloud may be nil.
func NewService(
	local repositories.SnapshotRepository,
	cloud repositories.SnapshotRepository,
	cloudTimeout time.Duration,
	logger *slog.Logger,
	storeOpts ...outline.Option,
) *Service {
	return &Service{
		local:        local,
		cloud:        cloud,
		cloudTimeout: cloudTimeout,
		logger:       logger,
		storeOpts:    storeOpts,
		sessions:     make(map[string]*session),
	}
}

var _ services.WorkspaceService = (*Service)(nil)

// Snapshot returns a deep copy of the user's workspace.
func (s *Service) Snapshot(ctx context.Context, userID string) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := s.with(ctx, userID, func(st *outline.Store) error {
		snap = st.Snapshot()
		return nil
	})
	return snap, err
}

// Tree builds the nested folder/outline tree.
func (s *Service) Tree(ctx context.Context, userID string) (*models.TreeNode, error) {
	var tree *models.TreeNode
	err := s.with(ctx, userID, func(st *outline.Store) error {
		tree = st.Tree()
		return nil
	})
	return tree, err
}

// Active returns the active copy or nil.
func (s *Service) Active(ctx context.Context, userID string) (*models.Outline, error) {
	var active *models.Outline
	err := s.with(ctx, userID, func(st *outline.Store) error {
		active = st.Active()
		return nil
	})
	return active, err
}

// Apply runs one typed operation against the user's store.
func (s *Service) Apply(ctx context.Context, userID string, op outline.Operation) (*services.OperationResult, error) {
	if op == nil {
		return nil, domain.Invalid("operation is required")
	}
	var res *services.OperationResult
	err := s.with(ctx, userID, func(st *outline.Store) error {
		out, err := st.Apply(op)
		if err != nil {
			return err
		}
		res = &services.OperationResult{Kind: op.Kind(), Result: out, Version: st.Version()}
		return nil
	})
	if err != nil {
		s.logOpError(userID, op.Kind(), err)
		return nil, err
	}
	return res, nil
}

// ApplyDrop validates a drop payload and runs the operation it maps to.
func (s *Service) ApplyDrop(ctx context.Context, userID string, drop *outline.Drop) (*services.OperationResult, error) {
	if drop == nil {
		return nil, domain.Invalid("drop is required")
	}
	op, err := drop.Operation()
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, userID, op)
}

// Subscribe streams committed changes for a user. Changes are dropped for
// a subscriber whose buffer is full.
func (s *Service) Subscribe(ctx context.Context, userID string) (<-chan outline.Change, func(), error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan outline.Change, subscriberBuffer)
	sess.subMu.Lock()
	id := sess.nextID
	sess.nextID++
	sess.subs[id] = ch
	sess.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			sess.subMu.Lock()
			delete(sess.subs, id)
			sess.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Close stops every cloud sync worker after a final flush.
func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		// Wait for an in-flight load so its worker is not leaked.
		sess.loadOnce.Do(func() { sess.loadErr = errors.New("closed before load") })
		if sess.syncer != nil {
			sess.syncer.Close()
		}
	}
	return nil
}

func (s *Service) with(ctx context.Context, userID string, fn func(*outline.Store) error) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.store)
}

// session returns the loaded session for userID, loading it on first use.
// Loading happens outside the service lock so one slow load does not hold
// up other users.
func (s *Service) session(ctx context.Context, userID string) (*session, error) {
	if userID == "" {
		return nil, domain.Unauthenticated("sign in required")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, &domain.InternalError{Message: "workspace service is shutting down"}
	}
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{userID: userID, subs: make(map[int]chan outline.Change)}
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	sess.loadOnce.Do(func() { sess.loadErr = s.open(ctx, sess) })
	if sess.loadErr != nil {
		s.mu.Lock()
		if s.sessions[userID] == sess {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, sess.loadErr
	}
	return sess, nil
}

func (s *Service) open(ctx context.Context, sess *session) error {
	snap, err := s.load(ctx, sess.userID)
	if err != nil {
		return err
	}

	opts := append([]outline.Option{outline.WithLogger(s.logger)}, s.storeOpts...)
	sess.store = outline.New(snap, opts...)
	if s.cloud != nil {
		sess.syncer = newCloudSyncer(s.cloud, sess.userID, s.cloudTimeout, s.logger)
	}
	sess.store.SetHooks(s.hooks(sess))

	s.logger.Debug("workspace loaded",
		"user_id", sess.userID,
		"version", sess.store.Version(),
	)
	return nil
}

// load picks the higher version of the local and cloud snapshots. A cloud
// failure falls back to the local copy.
func (s *Service) load(ctx context.Context, userID string) (*models.Snapshot, error) {
	local, err := s.local.Load(ctx, userID)
	if err != nil {
		s.logger.Error("local load failed", "user_id", userID, "error", err)
		return nil, &domain.InternalError{Message: "failed to load workspace"}
	}
	if s.cloud == nil {
		return local, nil
	}

	cctx := ctx
	if s.cloudTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.cloudTimeout)
		defer cancel()
	}
	remote, err := s.cloud.Load(cctx, userID)
	if err != nil {
		s.logger.Warn("cloud load failed, using local snapshot", "user_id", userID, "error", err)
		return local, nil
	}

	if remote == nil || (local != nil && local.Version >= remote.Version) {
		return local, nil
	}
	if err := s.local.Save(ctx, userID, remote); err != nil {
		s.logger.Warn("caching cloud snapshot locally failed", "user_id", userID, "error", err)
	}
	return remote, nil
}

func (s *Service) hooks(sess *session) outline.Hooks {
	h := outline.Hooks{
		PersistLocal: func(snap *models.Snapshot) error {
			return s.local.Save(context.Background(), sess.userID, snap)
		},
		NotifyView: sess.publish,
		SyncActive: func(active *models.Outline) {
			s.logger.Debug("active outline refreshed",
				"user_id", sess.userID,
				"outline_id", active.ID,
			)
		},
	}
	if sess.syncer != nil {
		h.TouchCloud = sess.syncer.Touch
	}
	return h
}

func (sess *session) publish(c outline.Change) {
	sess.subMu.Lock()
	defer sess.subMu.Unlock()
	for _, ch := range sess.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (s *Service) logOpError(userID, kind string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCyclicMove):
		s.logger.Debug("operation rejected", "user_id", userID, "kind", kind, "error", err)
	default:
		s.logger.Error("operation failed", "user_id", userID, "kind", kind, "error", err)
	}
}
