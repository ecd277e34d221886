package constants

// TriageDecision is the canonical outcome for a file in a triage batch.
type TriageDecision string

// Stable values (these exact strings appear in the audit log).
const (
	DecisionRelevant   TriageDecision = "relevant"
	DecisionIrrelevant TriageDecision = "irrelevant"
	DecisionError      TriageDecision = "error"
)
