package model

const (
	// StatusUnchanged means the keystore already matched the desired state.
	StatusUnchanged = "unchanged"
	// StatusChanged marks a mutation that was applied to the keystore.
	StatusChanged = "changed"
	// StatusWouldChange indicates dry-run detected a pending mutation.
	StatusWouldChange = "would_change"
	// StatusSatisfied marks a verify result where presence matches intent.
	StatusSatisfied = "satisfied"
	// StatusMissing marks a verify result where an import is needed.
	StatusMissing = "missing"
	// StatusDrifted marks a verify result where an entry must be replaced
	// or removed to match intent.
	StatusDrifted = "drifted"
)

// Diff records the presence state of an alias before and after
// reconciliation. An empty string means the alias was absent.
type Diff struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Outcome is the terminal record of reconciling one certificate entry.
// It is produced exactly once per entry and never mutated afterward.
type Outcome struct {
	EntryID string `json:"entry_id"`
	Changed bool   `json:"changed"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Diff    Diff   `json:"diff"`
}

// VerifyResult is the read-only assessment of one certificate entry,
// reported by the verify command without mutating the keystore.
type VerifyResult struct {
	EntryID string `json:"entry_id"`
	Alias   string `json:"alias"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
