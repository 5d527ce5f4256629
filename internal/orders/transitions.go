package orders

import (
	"github.com/bpmconnect/bpmconnect-backend/pkg/enums"
)

// Party identifies which side of an order the actor is on.
type Party string

const (
	PartyBuyer  Party = "buyer"
	PartySeller Party = "seller"
)

// IsValid reports whether the party is one of the two known sides.
func (p Party) IsValid() bool {
	return p == PartyBuyer || p == PartySeller
}

type transitionKey struct {
	from enums.OrderStatus
	to   enums.OrderStatus
}

// allowedTransitions is the full status machine. A missing key means the
// transition is rejected regardless of actor.
var allowedTransitions = map[transitionKey][]Party{
	{enums.OrderStatusPending, enums.OrderStatusAccepted}:     {PartySeller},
	{enums.OrderStatusAccepted, enums.OrderStatusInProgress}:  {PartySeller},
	{enums.OrderStatusInProgress, enums.OrderStatusDelivered}: {PartySeller},
	{enums.OrderStatusDelivered, enums.OrderStatusCompleted}:  {PartySeller},
	{enums.OrderStatusInRevision, enums.OrderStatusDelivered}: {PartySeller},
	{enums.OrderStatusInRevision, enums.OrderStatusCompleted}: {PartySeller},
	{enums.OrderStatusDelivered, enums.OrderStatusInRevision}: {PartyBuyer},
	{enums.OrderStatusPending, enums.OrderStatusCancelled}:    {PartyBuyer},
	{enums.OrderStatusAccepted, enums.OrderStatusCancelled}:   {PartyBuyer},
	{enums.OrderStatusInProgress, enums.OrderStatusCancelled}: {PartyBuyer},
	{enums.OrderStatusAccepted, enums.OrderStatusDisputed}:    {PartyBuyer, PartySeller},
	{enums.OrderStatusInProgress, enums.OrderStatusDisputed}:  {PartyBuyer, PartySeller},
	{enums.OrderStatusDelivered, enums.OrderStatusDisputed}:   {PartyBuyer, PartySeller},
	{enums.OrderStatusInRevision, enums.OrderStatusDisputed}:  {PartyBuyer, PartySeller},
}

// CanTransition reports whether the given party may move an order between the
// two statuses.
func CanTransition(from, to enums.OrderStatus, party Party) bool {
	parties, ok := allowedTransitions[transitionKey{from: from, to: to}]
	if !ok {
		return false
	}
	for _, p := range parties {
		if p == party {
			return true
		}
	}
	return false
}

// TransitionExists reports whether any party may move between the statuses.
func TransitionExists(from, to enums.OrderStatus) bool {
	_, ok := allowedTransitions[transitionKey{from: from, to: to}]
	return ok
}
