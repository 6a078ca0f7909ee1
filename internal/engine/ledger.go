package engine

import (
	"context"

	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/store/schema"
)

// transferOwnership moves a punk between held sets and maintains the
// snapshot's distinct-owner counter: the counter increments when the receiver
// was empty-handed before the addition and decrements when the sender ends up
// empty-handed after the removal. Missing accounts and punks are constructed
// with defaults; ownership transfer has no failure mode beyond persistence.
func (e *Engine) transferOwnership(ctx context.Context, st *schema.State, punkID, from, to string) error {
	sender, err := e.getOrCreateAccount(ctx, from)
	if err != nil {
		return err
	}

	// A self-transfer must mutate a single entity, not two copies of it
	receiver := sender
	if !domain.SameAddress(from, to) {
		receiver, err = e.getOrCreateAccount(ctx, to)
		if err != nil {
			return err
		}
	}

	if sender.Holds(punkID) {
		sender.Remove(punkID)
		if len(sender.Punks) == 0 {
			st.Owners--
		}
	}

	if !receiver.Holds(punkID) {
		if len(receiver.Punks) == 0 {
			st.Owners++
		}
		receiver.Add(punkID)
	}

	if err := e.store.SaveAccount(ctx, sender); err != nil {
		return err
	}
	if receiver != sender {
		if err := e.store.SaveAccount(ctx, receiver); err != nil {
			return err
		}
	}

	punk, err := e.getOrCreatePunk(ctx, punkID)
	if err != nil {
		return err
	}
	punk.Owner = receiver.Address
	punk.Wrapped = domain.SameAddress(receiver.Address, e.wrapper)
	if err := e.store.SavePunk(ctx, punk); err != nil {
		return err
	}

	return e.store.SaveState(ctx, st)
}
