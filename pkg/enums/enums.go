package enums

// ProductState flags directory products that should no longer be ordered.
type ProductState string

const (
	ProductStateValid   ProductState = "Valid"
	ProductStateInvalid ProductState = "Invalid"
)

// AuditAction is the verb recorded for a model change.
type AuditAction string

const (
	AuditActionCreated AuditAction = "created"
	AuditActionUpdated AuditAction = "updated"
	AuditActionDeleted AuditAction = "deleted"
)

// AuditAggregate names the entity kind an audit event refers to.
type AuditAggregate string

const (
	AuditAggregateOrder        AuditAggregate = "order"
	AuditAggregateConfirmation AuditAggregate = "confirmation"
)
