package outline

import (
	"encoding/json"

	"studyplan/internal/domain"
)

// Transfer kinds carried by a drag gesture
const (
	TransferShelfItem    = "shelf_item"
	TransferSectionMove  = "section_move"
	TransferOutlineMerge = "outline_merge"
	TransferLinkReorder  = "link_reorder"
)

// Transfer is the payload picked up when a drag starts.
type Transfer struct {
	Kind string `json:"kind"`

	ItemID    string `json:"item_id,omitempty"`    // shelf_item
	OutlineID string `json:"outline_id,omitempty"` // section_move, outline_merge, link_reorder
	SectionID string `json:"section_id,omitempty"` // link_reorder
	From      int    `json:"from,omitempty"`       // section_move, link_reorder
}

// DropTarget is where the payload was released.
type DropTarget struct {
	OutlineID string `json:"outline_id,omitempty"`
	SectionID string `json:"section_id,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Title     string `json:"title,omitempty"` // merged outline title
}

// Drop is a completed gesture: payload plus target.
type Drop struct {
	Payload Transfer   `json:"payload"`
	Target  DropTarget `json:"target"`
}

// DecodeDrop parses and validates a drop body.
func DecodeDrop(data []byte) (*Drop, error) {
	var d Drop
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, domain.Invalid("malformed drop: %v", err)
	}
	return &d, nil
}

// Operation turns the drop into the single store operation it stands for.
// Payloads that do not fit the target are rejected here, before the store
// sees anything.
func (d *Drop) Operation() (Operation, error) {
	p, t := d.Payload, d.Target
	switch p.Kind {
	case TransferShelfItem:
		if p.ItemID == "" || t.OutlineID == "" || t.SectionID == "" {
			return nil, domain.Invalid("shelf item drop needs item_id and a target section")
		}
		return CopyShelfItemOp{ItemID: p.ItemID, OutlineID: t.OutlineID, SectionID: t.SectionID}, nil

	case TransferSectionMove:
		if p.OutlineID == "" || t.Index == nil {
			return nil, domain.Invalid("section move needs outline_id and a target index")
		}
		if t.OutlineID != "" && t.OutlineID != p.OutlineID {
			return nil, domain.Invalid("sections can only be reordered within their outline")
		}
		return ReorderSectionOp{OutlineID: p.OutlineID, From: p.From, To: *t.Index}, nil

	case TransferOutlineMerge:
		if p.OutlineID == "" || t.OutlineID == "" {
			return nil, domain.Invalid("outline merge needs a source and a target outline")
		}
		return MergeOutlinesOp{SourceID: p.OutlineID, TargetID: t.OutlineID, Title: t.Title}, nil

	case TransferLinkReorder:
		if p.OutlineID == "" || p.SectionID == "" || t.Index == nil {
			return nil, domain.Invalid("link reorder needs outline_id, section_id and a target index")
		}
		if (t.OutlineID != "" && t.OutlineID != p.OutlineID) || (t.SectionID != "" && t.SectionID != p.SectionID) {
			return nil, domain.Invalid("links can only be reordered within their section")
		}
		return ReorderLinkOp{OutlineID: p.OutlineID, SectionID: p.SectionID, From: p.From, To: *t.Index}, nil

	default:
		return nil, domain.Invalid("unknown transfer kind %q", p.Kind)
	}
}
