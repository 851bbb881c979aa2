package outline

import (
	"log/slog"
	"time"

	"studyplan/internal/domain"
	models "studyplan/internal/domain/models/outline"
)

// Hooks are invoked after every committed mutation, in field order.
// A failed mutation invokes none of them.
type Hooks struct {
	// PersistLocal writes the snapshot to durable local storage. Errors are
	// logged; the in-memory mutation stands.
	PersistLocal func(snap *models.Snapshot) error

	// NotifyView tells subscribers that the model changed.
	NotifyView func(change Change)

	// TouchCloud schedules a best-effort remote sync. It must not block.
	TouchCloud func(snap *models.Snapshot)

	// SyncActive receives a fresh copy of the active outline when the saved
	// outline it mirrors was mutated.
	SyncActive func(active *models.Outline)
}

// Change describes one committed mutation.
type Change struct {
	Kind      string `json:"kind"`
	OutlineID string `json:"outline_id,omitempty"`
	FolderID  string `json:"folder_id,omitempty"`
	Version   int64  `json:"version"`
}

// Store owns the folder/outline/section/link tree and the widget shelf.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	folders  []*models.Folder
	outlines []*models.Outline
	shelf    []models.Link

	activeID string
	active   *models.Outline

	version int64
	hooks   Hooks
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHooks sets the persistence and view callbacks.
func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for hook failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New builds a store from a snapshot. The snapshot is normalized and copied;
// the caller keeps ownership of snap.
func New(snap *models.Snapshot, opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if snap == nil {
		snap = &models.Snapshot{}
	}
	work := copySnapshot(snap)
	Normalize(work)

	s.version = work.Version
	for i := range work.Folders {
		f := work.Folders[i]
		s.folders = append(s.folders, &f)
	}
	for i := range work.Outlines {
		o := work.Outlines[i]
		s.outlines = append(s.outlines, &o)
	}
	s.shelf = work.Shelf
	if work.Active != nil {
		s.activeID = work.Active.ID
		s.active = work.Active
	}

	return s
}

// SetHooks replaces the hooks. Used when the store is loaded before its
// persistence targets are ready.
func (s *Store) SetHooks(h Hooks) { s.hooks = h }

// Version is incremented by every committed mutation.
func (s *Store) Version() int64 { return s.version }

// Snapshot returns a deep copy of the persisted state.
func (s *Store) Snapshot() *models.Snapshot {
	snap := &models.Snapshot{
		Version:  s.version,
		Folders:  make([]models.Folder, 0, len(s.folders)),
		Outlines: make([]models.Outline, 0, len(s.outlines)),
		Shelf:    copyLinks(s.shelf),
	}
	for _, f := range s.folders {
		snap.Folders = append(snap.Folders, copyFolder(f))
	}
	for _, o := range s.outlines {
		snap.Outlines = append(snap.Outlines, copyOutline(o))
	}
	if s.active != nil {
		a := copyOutline(s.active)
		snap.Active = &a
	}
	return snap
}

// Outline returns a copy of a saved outline.
func (s *Store) Outline(id string) (*models.Outline, error) {
	o, _, err := s.findOutline(id)
	if err != nil {
		return nil, err
	}
	c := copyOutline(o)
	return &c, nil
}

// Outlines returns copies of the outlines in a container, in order.
// A nil folderID lists the root.
func (s *Store) Outlines(folderID *string) []models.Outline {
	out := make([]models.Outline, 0)
	for _, o := range s.outlines {
		if sameContainer(o.FolderID, folderID) {
			out = append(out, copyOutline(o))
		}
	}
	return out
}

// Folder returns a copy of a folder.
func (s *Store) Folder(id string) (*models.Folder, error) {
	f, _, err := s.findFolder(id)
	if err != nil {
		return nil, err
	}
	c := copyFolder(f)
	return &c, nil
}

// Shelf returns a copy of the widget shelf.
func (s *Store) Shelf() []models.Link { return copyLinks(s.shelf) }

// commit runs the post-mutation hooks. It must be called exactly once per
// successful mutation, after the in-memory edit is complete.
func (s *Store) commit(c Change) {
	s.version++
	c.Version = s.version

	syncActive := c.OutlineID != "" && c.OutlineID == s.activeID
	if syncActive {
		if o, _, err := s.findOutline(c.OutlineID); err == nil {
			a := copyOutline(o)
			s.active = &a
		} else {
			syncActive = false
		}
	}

	snap := s.Snapshot()

	if s.hooks.PersistLocal != nil {
		if err := s.hooks.PersistLocal(snap); err != nil {
			s.logger.Error("local persist failed",
				"kind", c.Kind,
				"version", c.Version,
				"error", err,
			)
		}
	}
	if s.hooks.NotifyView != nil {
		s.hooks.NotifyView(c)
	}
	if s.hooks.TouchCloud != nil {
		s.hooks.TouchCloud(snap)
	}
	if syncActive && s.hooks.SyncActive != nil {
		a := copyOutline(s.active)
		s.hooks.SyncActive(&a)
	}
}

func (s *Store) findOutline(id string) (*models.Outline, int, error) {
	for i, o := range s.outlines {
		if o.ID == id {
			return o, i, nil
		}
	}
	return nil, -1, domain.NewNotFound("outline", id)
}

func (s *Store) findFolder(id string) (*models.Folder, int, error) {
	for i, f := range s.folders {
		if f.ID == id {
			return f, i, nil
		}
	}
	return nil, -1, domain.NewNotFound("folder", id)
}

func (s *Store) findSection(outlineID, sectionID string) (*models.Outline, int, error) {
	o, _, err := s.findOutline(outlineID)
	if err != nil {
		return nil, -1, err
	}
	idx := o.SectionIndex(sectionID)
	if idx < 0 {
		return nil, -1, domain.NewNotFound("section", sectionID)
	}
	return o, idx, nil
}

// resolveContainer checks that a destination folder exists. Nil or empty
// means root and is always valid.
func (s *Store) resolveContainer(folderID *string) (*string, error) {
	if folderID == nil || *folderID == "" {
		return nil, nil
	}
	f, _, err := s.findFolder(*folderID)
	if err != nil {
		return nil, err
	}
	id := f.ID
	return &id, nil
}

func (s *Store) touch(o *models.Outline) {
	o.UpdatedAt = s.now()
}

func sameContainer(a, b *string) bool {
	if a == nil || *a == "" {
		return b == nil || *b == ""
	}
	return b != nil && *a == *b
}

func strPtr(s string) *string { return &s }
