package domain

// Category is the fixed taxonomy a transcript entry classifies into.
type Category string

// The ten categories. Every entry maps to exactly one; anything that does
// not match a more specific rule is CategoryOther.
const (
	CategoryUserRequest    Category = "user_request"
	CategoryTaskDelegation Category = "task_delegation"
	CategoryFileOperation  Category = "file_operation"
	CategoryTodoUpdate     Category = "todo_update"
	CategoryGitCommand     Category = "git_command"
	CategorySummary        Category = "summary"
	CategoryError          Category = "error"
	CategoryAcknowledgment Category = "acknowledgment"
	CategoryVerbose        Category = "verbose"
	CategoryOther          Category = "other"
)

// relevanceByCategory assigns each category its fixed relevance score.
// User requests and sub-agent delegations are the strongest signals of
// intent; read-only tool noise scores zero and is never kept.
var relevanceByCategory = map[Category]int{
	CategoryUserRequest:    10,
	CategoryTaskDelegation: 10,
	CategoryGitCommand:     9,
	CategoryFileOperation:  8,
	CategoryTodoUpdate:     8,
	CategorySummary:        7,
	CategoryError:          3,
	CategoryAcknowledgment: 1,
	CategoryVerbose:        0,
	CategoryOther:          0,
}

// Relevance returns the fixed score for the category, in [0, 10].
func (c Category) Relevance() int {
	return relevanceByCategory[c]
}

// ClassifiedItem is the classifier's verdict on a single entry: what kind
// of work it represents, the fields worth keeping, and how much it matters.
type ClassifiedItem struct {
	Category  Category
	Fields    map[string]string
	Relevance int
}

// ContextItem is a classified item that survived deduplication and
// budgeting. Items keep original transcript order unless the set overflowed
// the soft token target, in which case they are reordered by relevance.
type ContextItem struct {
	ClassifiedItem

	// Tokens is the estimated serialised cost, filled by the distiller.
	Tokens int
}

// Field keys used in ClassifiedItem.Fields.
const (
	FieldText        = "text"
	FieldSubagent    = "subagent"
	FieldDescription = "description"
	FieldPrompt      = "prompt"
	FieldAction      = "action"
	FieldFile        = "file"
	FieldCount       = "count"
	FieldCommand     = "command"
	FieldMessage     = "message"
)
