package outline

import (
	"encoding/json"

	"studyplan/internal/domain"
	"studyplan/internal/domain/models/schedule"
)

// Operation kinds. They double as the Change.Kind reported to hooks.
const (
	KindCreateOutline    = "create_outline"
	KindRenameOutline    = "rename_outline"
	KindDeleteOutline    = "delete_outline"
	KindDuplicateOutline = "duplicate_outline"
	KindMergeOutlines    = "merge_outlines"
	KindMoveOutline      = "move_outline"
	KindUpdateOutline    = "update_outline"

	KindAddSection     = "add_section"
	KindDeleteSection  = "delete_section"
	KindReorderSection = "reorder_section"
	KindUpdateSection  = "update_section"

	KindAddLink     = "add_link"
	KindDeleteLink  = "delete_link"
	KindReorderLink = "reorder_link"
	KindUpdateLink  = "update_link"

	KindCreateFolder = "create_folder"
	KindRenameFolder = "rename_folder"
	KindDeleteFolder = "delete_folder"
	KindMoveFolder   = "move_folder"
	KindUpdateFolder = "update_folder"

	KindAddShelfItem     = "add_shelf_item"
	KindUpdateShelfItem  = "update_shelf_item"
	KindDeleteShelfItem  = "delete_shelf_item"
	KindReorderShelfItem = "reorder_shelf_item"
	KindCopyShelfItem    = "copy_shelf_item"

	KindActivate   = "activate"
	KindDeactivate = "deactivate"

	KindImportSchedule = "import_schedule"
)

// Operation is one user gesture expressed as data. Apply dispatches it.
type Operation interface {
	Kind() string
	apply(s *Store) (any, error)
}

type CreateOutlineOp struct {
	Title    string  `json:"title"`
	FolderID *string `json:"folder_id,omitempty"`
}

type RenameOutlineOp struct {
	OutlineID string `json:"outline_id"`
	Title     string `json:"title"`
}

type DeleteOutlineOp struct {
	OutlineID string `json:"outline_id"`
}

type DuplicateOutlineOp struct {
	OutlineID string  `json:"outline_id"`
	Title     *string `json:"title,omitempty"`
}

type MergeOutlinesOp struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Title    string `json:"title"`
}

// MoveOutlineOp moves an outline; a nil FolderID means root.
type MoveOutlineOp struct {
	OutlineID string  `json:"outline_id"`
	FolderID  *string `json:"folder_id"`
}

// UpdateOutlineOp renames and/or moves an outline as one mutation.
type UpdateOutlineOp struct {
	OutlineID string `json:"outline_id"`
	OutlinePatch
}

type AddSectionOp struct {
	OutlineID string `json:"outline_id"`
	SectionInput
}

type DeleteSectionOp struct {
	OutlineID string `json:"outline_id"`
	SectionID string `json:"section_id"`
}

type ReorderSectionOp struct {
	OutlineID string `json:"outline_id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

type UpdateSectionOp struct {
	OutlineID string `json:"outline_id"`
	SectionID string `json:"section_id"`
	SectionPatch
}

type AddLinkOp struct {
	OutlineID string    `json:"outline_id"`
	SectionID string    `json:"section_id"`
	Link      LinkInput `json:"link"`
}

type DeleteLinkOp struct {
	OutlineID string `json:"outline_id"`
	SectionID string `json:"section_id"`
	LinkID    string `json:"link_id"`
}

type ReorderLinkOp struct {
	OutlineID string `json:"outline_id"`
	SectionID string `json:"section_id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

type UpdateLinkOp struct {
	OutlineID string    `json:"outline_id"`
	SectionID string    `json:"section_id"`
	LinkID    string    `json:"link_id"`
	Patch     LinkPatch `json:"patch"`
}

type CreateFolderOp struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

type RenameFolderOp struct {
	FolderID string `json:"folder_id"`
	Title    string `json:"title"`
}

type DeleteFolderOp struct {
	FolderID string `json:"folder_id"`
}

// MoveFolderOp re-parents a folder; a nil ParentID means root.
type MoveFolderOp struct {
	FolderID string  `json:"folder_id"`
	ParentID *string `json:"parent_id"`
}

// UpdateFolderOp renames and/or re-parents a folder as one mutation.
type UpdateFolderOp struct {
	FolderID string `json:"folder_id"`
	FolderPatch
}

type AddShelfItemOp struct {
	Link LinkInput `json:"link"`
}

type UpdateShelfItemOp struct {
	ItemID string    `json:"item_id"`
	Patch  LinkPatch `json:"patch"`
}

type DeleteShelfItemOp struct {
	ItemID string `json:"item_id"`
}

type ReorderShelfItemOp struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type CopyShelfItemOp struct {
	ItemID    string `json:"item_id"`
	OutlineID string `json:"outline_id"`
	SectionID string `json:"section_id"`
}

type ActivateOp struct {
	OutlineID string `json:"outline_id"`
}

type DeactivateOp struct{}

type ImportScheduleOp struct {
	Schedule *schedule.Schedule `json:"schedule"`
	FolderID *string            `json:"folder_id"`
}

func (CreateOutlineOp) Kind() string    { return KindCreateOutline }
func (RenameOutlineOp) Kind() string    { return KindRenameOutline }
func (DeleteOutlineOp) Kind() string    { return KindDeleteOutline }
func (DuplicateOutlineOp) Kind() string { return KindDuplicateOutline }
func (MergeOutlinesOp) Kind() string    { return KindMergeOutlines }
func (MoveOutlineOp) Kind() string      { return KindMoveOutline }
func (UpdateOutlineOp) Kind() string    { return KindUpdateOutline }
func (AddSectionOp) Kind() string       { return KindAddSection }
func (DeleteSectionOp) Kind() string    { return KindDeleteSection }
func (ReorderSectionOp) Kind() string   { return KindReorderSection }
func (UpdateSectionOp) Kind() string    { return KindUpdateSection }
func (AddLinkOp) Kind() string          { return KindAddLink }
func (DeleteLinkOp) Kind() string       { return KindDeleteLink }
func (ReorderLinkOp) Kind() string      { return KindReorderLink }
func (UpdateLinkOp) Kind() string       { return KindUpdateLink }
func (CreateFolderOp) Kind() string     { return KindCreateFolder }
func (RenameFolderOp) Kind() string     { return KindRenameFolder }
func (DeleteFolderOp) Kind() string     { return KindDeleteFolder }
func (MoveFolderOp) Kind() string       { return KindMoveFolder }
func (UpdateFolderOp) Kind() string     { return KindUpdateFolder }
func (AddShelfItemOp) Kind() string     { return KindAddShelfItem }
func (UpdateShelfItemOp) Kind() string  { return KindUpdateShelfItem }
func (DeleteShelfItemOp) Kind() string  { return KindDeleteShelfItem }
func (ReorderShelfItemOp) Kind() string { return KindReorderShelfItem }
func (CopyShelfItemOp) Kind() string    { return KindCopyShelfItem }
func (ActivateOp) Kind() string         { return KindActivate }
func (DeactivateOp) Kind() string       { return KindDeactivate }
func (ImportScheduleOp) Kind() string   { return KindImportSchedule }

func (op CreateOutlineOp) apply(s *Store) (any, error) { return s.CreateOutline(op.Title, op.FolderID) }
func (op RenameOutlineOp) apply(s *Store) (any, error) { return s.RenameOutline(op.OutlineID, op.Title) }
func (op DeleteOutlineOp) apply(s *Store) (any, error) { return nil, s.DeleteOutline(op.OutlineID) }
func (op DuplicateOutlineOp) apply(s *Store) (any, error) {
	return s.DuplicateOutline(op.OutlineID, op.Title)
}
func (op MergeOutlinesOp) apply(s *Store) (any, error) {
	return s.MergeOutlines(op.SourceID, op.TargetID, op.Title)
}
func (op MoveOutlineOp) apply(s *Store) (any, error) { return s.MoveOutline(op.OutlineID, op.FolderID) }
func (op AddSectionOp) apply(s *Store) (any, error)  { return s.AddSection(op.OutlineID, op.SectionInput) }
func (op UpdateOutlineOp) apply(s *Store) (any, error) {
	return s.UpdateOutline(op.OutlineID, op.OutlinePatch)
}
func (op DeleteSectionOp) apply(s *Store) (any, error) {
	return nil, s.DeleteSection(op.OutlineID, op.SectionID)
}
func (op ReorderSectionOp) apply(s *Store) (any, error) {
	return nil, s.ReorderSection(op.OutlineID, op.From, op.To)
}
func (op UpdateSectionOp) apply(s *Store) (any, error) {
	return s.UpdateSection(op.OutlineID, op.SectionID, op.SectionPatch)
}
func (op AddLinkOp) apply(s *Store) (any, error) { return s.AddLink(op.OutlineID, op.SectionID, op.Link) }
func (op DeleteLinkOp) apply(s *Store) (any, error) {
	return nil, s.DeleteLink(op.OutlineID, op.SectionID, op.LinkID)
}
func (op ReorderLinkOp) apply(s *Store) (any, error) {
	return nil, s.ReorderLink(op.OutlineID, op.SectionID, op.From, op.To)
}
func (op UpdateLinkOp) apply(s *Store) (any, error) {
	return s.UpdateLink(op.OutlineID, op.SectionID, op.LinkID, op.Patch)
}
func (op CreateFolderOp) apply(s *Store) (any, error) { return s.CreateFolder(op.Title, op.ParentID) }
func (op RenameFolderOp) apply(s *Store) (any, error) { return s.RenameFolder(op.FolderID, op.Title) }
func (op DeleteFolderOp) apply(s *Store) (any, error) { return nil, s.DeleteFolder(op.FolderID) }
func (op MoveFolderOp) apply(s *Store) (any, error)   { return s.MoveFolder(op.FolderID, op.ParentID) }
func (op AddShelfItemOp) apply(s *Store) (any, error) { return s.AddShelfItem(op.Link) }
func (op UpdateFolderOp) apply(s *Store) (any, error) {
	return s.UpdateFolder(op.FolderID, op.FolderPatch)
}
func (op UpdateShelfItemOp) apply(s *Store) (any, error) {
	return s.UpdateShelfItem(op.ItemID, op.Patch)
}
func (op DeleteShelfItemOp) apply(s *Store) (any, error) { return nil, s.DeleteShelfItem(op.ItemID) }
func (op ReorderShelfItemOp) apply(s *Store) (any, error) {
	return nil, s.ReorderShelfItem(op.From, op.To)
}
func (op CopyShelfItemOp) apply(s *Store) (any, error) {
	return s.CopyShelfItem(op.ItemID, op.OutlineID, op.SectionID)
}
func (op ActivateOp) apply(s *Store) (any, error) { return s.Activate(op.OutlineID) }
func (DeactivateOp) apply(s *Store) (any, error) {
	s.Deactivate()
	return nil, nil
}
func (op ImportScheduleOp) apply(s *Store) (any, error) {
	return s.ImportSchedule(op.Schedule, op.FolderID)
}

// Apply runs one operation against the store. The result is the entity the
// operation created or edited, or nil for removals and reorders.
func (s *Store) Apply(op Operation) (any, error) {
	if op == nil {
		return nil, domain.Invalid("operation is required")
	}
	return op.apply(s)
}

var operationFactories = map[string]func() Operation{
	KindCreateOutline:    func() Operation { return &CreateOutlineOp{} },
	KindRenameOutline:    func() Operation { return &RenameOutlineOp{} },
	KindDeleteOutline:    func() Operation { return &DeleteOutlineOp{} },
	KindDuplicateOutline: func() Operation { return &DuplicateOutlineOp{} },
	KindMergeOutlines:    func() Operation { return &MergeOutlinesOp{} },
	KindMoveOutline:      func() Operation { return &MoveOutlineOp{} },
	KindUpdateOutline:    func() Operation { return &UpdateOutlineOp{} },
	KindAddSection:       func() Operation { return &AddSectionOp{} },
	KindDeleteSection:    func() Operation { return &DeleteSectionOp{} },
	KindReorderSection:   func() Operation { return &ReorderSectionOp{} },
	KindUpdateSection:    func() Operation { return &UpdateSectionOp{} },
	KindAddLink:          func() Operation { return &AddLinkOp{} },
	KindDeleteLink:       func() Operation { return &DeleteLinkOp{} },
	KindReorderLink:      func() Operation { return &ReorderLinkOp{} },
	KindUpdateLink:       func() Operation { return &UpdateLinkOp{} },
	KindCreateFolder:     func() Operation { return &CreateFolderOp{} },
	KindRenameFolder:     func() Operation { return &RenameFolderOp{} },
	KindDeleteFolder:     func() Operation { return &DeleteFolderOp{} },
	KindMoveFolder:       func() Operation { return &MoveFolderOp{} },
	KindUpdateFolder:     func() Operation { return &UpdateFolderOp{} },
	KindAddShelfItem:     func() Operation { return &AddShelfItemOp{} },
	KindUpdateShelfItem:  func() Operation { return &UpdateShelfItemOp{} },
	KindDeleteShelfItem:  func() Operation { return &DeleteShelfItemOp{} },
	KindReorderShelfItem: func() Operation { return &ReorderShelfItemOp{} },
	KindCopyShelfItem:    func() Operation { return &CopyShelfItemOp{} },
	KindActivate:         func() Operation { return &ActivateOp{} },
	KindDeactivate:       func() Operation { return &DeactivateOp{} },
	KindImportSchedule:   func() Operation { return &ImportScheduleOp{} },
}

// DecodeOperation parses a {"kind": ..., ...} document into its operation.
func DecodeOperation(data []byte) (Operation, error) {
	var envelope struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, domain.Invalid("malformed operation: %v", err)
	}
	factory, ok := operationFactories[envelope.Kind]
	if !ok {
		return nil, domain.Invalid("unknown operation kind %q", envelope.Kind)
	}

	op := factory()
	if err := json.Unmarshal(data, op); err != nil {
		return nil, domain.Invalid("malformed %s operation: %v", envelope.Kind, err)
	}
	return op, nil
}
