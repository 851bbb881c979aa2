package config

const (
	// MaxOutlineTitleLength is the maximum length for outline titles.
	MaxOutlineTitleLength = 255

	// MaxFolderTitleLength is the maximum length for folder titles.
	// Same as outline titles for consistency.
	MaxFolderTitleLength = 255

	// MaxSectionNameLength is the maximum length for section names.
	MaxSectionNameLength = 255

	// MaxSectionDescLength bounds the free-text notes of a section.
	MaxSectionDescLength = 20000

	// MaxLinkLabelLength is the maximum length for link labels.
	MaxLinkLabelLength = 255

	// MaxLinkURLLength matches the practical URL limit of common browsers.
	MaxLinkURLLength = 2048

	// MaxBriefLength bounds the free-text brief sent to the completion model.
	MaxBriefLength = 8000
)
