package shared

// BaseAggregateRoot extends BaseEntity with the version counter backing
// optimistic locking on balance and stock writes, and with the buffer of
// domain events raised since the aggregate was loaded. Events are
// collected by the application service after a successful save and
// handed to the event bus.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// IncrementVersion bumps the optimistic-lock counter. Repositories call
// it after a conditional update succeeds.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent buffers an event until the surrounding operation commits.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the events buffered since load.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the buffer once the events are published.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot builds a fresh aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
