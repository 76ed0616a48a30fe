package events

const (
	MaterialAddedEvent               = "material.added"
	MaterialUpdatedEvent             = "material.updated"
	MaterialDeletedEvent             = "material.deleted"
	MaterialTransactionAppliedEvent  = "material.transaction.applied"
	MaterialTransactionReversedEvent = "material.transaction.reversed"

	ProductAddedEvent   = "product.added"
	ProductUpdatedEvent = "product.updated"
	ProductDeletedEvent = "product.deleted"
	RecipeUpsertedEvent = "recipe.upserted"

	ProductionCommittedEvent = "production.committed"
	ProductionDeletedEvent   = "production.deleted"

	SaleCreatedEvent   = "sale.created"
	SaleUpdatedEvent   = "sale.updated"
	SaleCompletedEvent = "sale.completed"
	SaleDeletedEvent   = "sale.deleted"

	ExpenseAddedEvent   = "expense.added"
	ExpenseUpdatedEvent = "expense.updated"
	ExpenseDeletedEvent = "expense.deleted"

	SettingsUpdatedEvent = "settings.updated"

	SnapshotSaveFailedEvent = "snapshot.save.failed"
)

// CommandCommitted is the payload of every event recorded for a committed command
type CommandCommitted struct {
	Command  string      `json:"command"`
	EntityID string      `json:"entityId,omitempty"`
	Entity   interface{} `json:"entity,omitempty"`
}

// SaveFailed is recorded when the engine could not persist a committed snapshot
type SaveFailed struct {
	Error string `json:"error"`
}

// NewCommandEvent builds the event for a committed command on an owner's stream
func NewCommandEvent(eventType, ownerID, command, entityID string, entity interface{}) Event {
	return NewEvent(eventType, ownerID, CommandCommitted{
		Command:  command,
		EntityID: entityID,
		Entity:   entity,
	})
}
