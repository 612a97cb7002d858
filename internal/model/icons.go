package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconOK         = " " // Space (OK - no icon to reduce noise)
	IconUnmanaged  = "?" // Discovered block without an ownership comment
	IconMissingKey = "✗" // Key file referenced by the block is absent
	IconSplit      = "◆" // Block lives in its own split file
	IconDuplicate  = "≈" // Alias present in both representations
	IconBadPerms   = "!" // Key file permissions too open
)
