package outline

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Id generators. Outlines and folders get UUIDs; sections and links get
// short prefixed ids that only need to be unique within their owner.
var (
	newOutlineID = func() string { return uuid.NewString() }
	newFolderID  = func() string { return uuid.NewString() }
	newSectionID = func() string { return "s_" + gonanoid.Must(14) }
	newLinkID    = func() string { return "l_" + gonanoid.Must(14) }
)
