package types

// TodoStatus is the closed enum of todo lifecycle states.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoBlocked    TodoStatus = "blocked"
	TodoCompleted  TodoStatus = "completed"
	TodoCancelled  TodoStatus = "cancelled"
)

// IsValid reports whether s is one of the closed set of todo statuses.
func (s TodoStatus) IsValid() bool {
	switch s {
	case TodoPending, TodoInProgress, TodoBlocked, TodoCompleted, TodoCancelled:
		return true
	default:
		return false
	}
}

// Priority is a closed, ordered enum used by Todo.Priority.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid reports whether p is a recognized priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Todo is a single actionable item tracked in a scope's todos.yaml.
type Todo struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Status      TodoStatus `yaml:"status"`
	Priority    Priority   `yaml:"priority,omitempty"`
	Assignee    string     `yaml:"assignee,omitempty"`
	Tags        []string   `yaml:"tags,omitempty"`
	// RelatedKnowledge references Knowledge.ID entries that motivated this
	// todo or that it produced. [EXPANDED: supplements original todo.rs.]
	RelatedKnowledge []string       `yaml:"related_knowledge,omitempty"`
	Outcome          string         `yaml:"outcome,omitempty"`
	Custom           map[string]any `yaml:"custom,omitempty"`
	Timestamps       `yaml:",inline"`
}

// DecisionStatus is the closed enum of decision lifecycle states.
type DecisionStatus string

const (
	DecisionProposed     DecisionStatus = "proposed"
	DecisionUnderReview  DecisionStatus = "under_review"
	DecisionApproved     DecisionStatus = "approved"
	DecisionRejected     DecisionStatus = "rejected"
	DecisionImplemented  DecisionStatus = "implemented"
	DecisionDeprecated   DecisionStatus = "deprecated"
)

// IsValid reports whether s is one of the closed set of decision statuses.
func (s DecisionStatus) IsValid() bool {
	switch s {
	case DecisionProposed, DecisionUnderReview, DecisionApproved, DecisionRejected,
		DecisionImplemented, DecisionDeprecated:
		return true
	default:
		return false
	}
}

// Alternative records an option considered and rejected in reaching a
// Decision. [EXPANDED: supplements original decision.rs.]
type Alternative struct {
	Description      string `yaml:"description"`
	RejectionReason  string `yaml:"rejection_reason,omitempty"`
}

// Decision is a single recorded architectural or process decision.
type Decision struct {
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	Description  string         `yaml:"description,omitempty"`
	Status       DecisionStatus `yaml:"status"`
	Context      string         `yaml:"context,omitempty"`
	Rationale    string         `yaml:"rationale,omitempty"`
	Alternatives []Alternative  `yaml:"alternatives,omitempty"`
	Tags         []string       `yaml:"tags,omitempty"`
	Custom       map[string]any `yaml:"custom,omitempty"`
	Timestamps   `yaml:",inline"`
}

// Knowledge is a single recorded insight, carrying a bounded confidence
// score. Referred to as "insight" in the original source and in SPEC_FULL.
type Knowledge struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Content    string         `yaml:"content"`
	Category   string         `yaml:"category,omitempty"`
	Tags       []string       `yaml:"tags,omitempty"`
	Confidence int            `yaml:"confidence,omitempty"`
	Custom     map[string]any `yaml:"custom,omitempty"`
	Timestamps `yaml:",inline"`
}

// Usage is the closed enum shared by Pattern and Convention.
type Usage string

const (
	UsageRequired    Usage = "required"
	UsageRecommended Usage = "recommended"
	UsageOptional    Usage = "optional"
	UsageDeprecated  Usage = "deprecated"
)

// IsValid reports whether u is a recognized usage level.
func (u Usage) IsValid() bool {
	switch u {
	case UsageRequired, UsageRecommended, UsageOptional, UsageDeprecated:
		return true
	default:
		return false
	}
}

// Pattern is a recorded, reusable engineering pattern with an effectiveness
// score bounded the same way Knowledge.Confidence is.
type Pattern struct {
	ID            string         `yaml:"id"`
	Title         string         `yaml:"title"`
	Description   string         `yaml:"description,omitempty"`
	Usage         Usage          `yaml:"usage"`
	Effectiveness int            `yaml:"effectiveness,omitempty"`
	Examples      []string       `yaml:"examples,omitempty"`
	Tags          []string       `yaml:"tags,omitempty"`
	Custom        map[string]any `yaml:"custom,omitempty"`
	Timestamps    `yaml:",inline"`
}

// Convention is a recorded team/repo convention.
type Convention struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Usage       Usage          `yaml:"usage"`
	Examples    []string       `yaml:"examples,omitempty"`
	Tags        []string       `yaml:"tags,omitempty"`
	Custom      map[string]any `yaml:"custom,omitempty"`
	Timestamps  `yaml:",inline"`
}

// Document kind file names, relative to a scope directory's .rhema/ dir's
// parent (the documents live alongside the descriptor's owning scope dir,
// not inside .rhema/ itself — see internal/store).
const (
	FileKnowledge   = "knowledge.yaml"
	FileTodos       = "todos.yaml"
	FileDecisions   = "decisions.yaml"
	FilePatterns    = "patterns.yaml"
	FileConventions = "conventions.yaml"
)

// TodoFile, DecisionFile, KnowledgeFile, PatternFile, and ConventionFile are
// the typed collection wrappers persisted as each document file's top-level
// YAML shape.
type TodoFile struct {
	Todos []Todo `yaml:"todos"`
}

type DecisionFile struct {
	Decisions []Decision `yaml:"decisions"`
}

type KnowledgeFile struct {
	Entries []Knowledge `yaml:"entries"`
}

type PatternFile struct {
	Patterns []Pattern `yaml:"patterns"`
}

type ConventionFile struct {
	Conventions []Convention `yaml:"conventions"`
}
