package outline

// Snapshot is the persisted shape of a workspace. It is plain data with no
// cycles and serializes directly to JSON.
type Snapshot struct {
	Version  int64     `json:"version"`
	Folders  []Folder  `json:"folders"`
	Outlines []Outline `json:"outlines"`
	Shelf    []Link    `json:"shelf"`
	Active   *Outline  `json:"active,omitempty"` // detached "Home" copy
}
