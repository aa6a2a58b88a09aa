package domain

// Action names an operation a principal wants to perform on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionManage Action = "manage" // sharing, membership, ownership transfer
)

// Resource describes the target of an authorization check. Ownership and
// sharing facts are supplied by the resource-owning collaborator (boards,
// tasks); the auth core never mutates them.
type Resource struct {
	Type    string // e.g. "board", "task"
	ID      string
	OwnerID string
	// SharedWith lists group IDs the resource has been shared with.
	SharedWith []string
}
