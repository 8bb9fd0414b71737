package listview

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrSubmitting is returned when a mutation is requested while another one
// is still in flight. Guards against double-click double-delete.
var ErrSubmitting = errors.New("a change is already being submitted")

// Action names a mutation kind for policy lookup.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionToggle Action = "toggle"
)

// Policy says what happens to the held page after a mutation succeeds.
type Policy int

const (
	// PolicyPatch edits the held row in place. Only one scalar changed;
	// a re-fetch would flicker and can shift pagination under the user.
	PolicyPatch Policy = iota

	// PolicyRefetch re-issues the current query. Creation and update can
	// change sort order, category membership, or page boundaries in ways
	// a local patch cannot predict.
	PolicyRefetch
)

// Payload is a client-validated mutation body. Validation failures
// short-circuit before anything reaches the network.
type Payload interface {
	Validate() error
}

// ToggleSpec wires one boolean field of a row to its dedicated toggle
// sub-route.
type ToggleSpec[T any] struct {
	// Route builds the PUT path for a row, e.g. /admin/games/42/status.
	Route func(id string) string

	// Field is the JSON key carrying the new value.
	Field string

	Get func(T) bool
	Set func(*T, bool)
}

// Coordinator applies create/update/delete/toggle actions for one
// controller, with a declarative after-success policy per action.
type Coordinator[T any] struct {
	ctrl     *Controller[T]
	toggles  map[string]ToggleSpec[T]
	policies map[Action]Policy

	submitting atomic.Bool
}

func NewCoordinator[T any](ctrl *Controller[T], toggles map[string]ToggleSpec[T], policies map[Action]Policy) *Coordinator[T] {
	merged := map[Action]Policy{
		ActionToggle: PolicyPatch,
		ActionCreate: PolicyRefetch,
		ActionUpdate: PolicyRefetch,
	}
	for action, policy := range policies {
		if (action == ActionCreate || action == ActionUpdate) && policy == PolicyPatch {
			// A local patch cannot represent a row the server may have
			// re-shaped; these always re-fetch.
			continue
		}
		merged[action] = policy
	}
	return &Coordinator[T]{ctrl: ctrl, toggles: toggles, policies: merged}
}

// Submitting reports whether a mutation is in flight, so the UI can disable
// the triggering control.
func (m *Coordinator[T]) Submitting() bool { return m.submitting.Load() }

func (m *Coordinator[T]) begin() error {
	if !m.submitting.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	return nil
}

// ToggleField flips a boolean field on a row. The held row is updated only
// after the server confirms; a failure leaves the original value displayed.
func (m *Coordinator[T]) ToggleField(ctx context.Context, id, field string) error {
	spec, ok := m.toggles[field]
	if !ok {
		panic(fmt.Sprintf("listview: toggle field %q not declared for %s", field, m.ctrl.cfg.Resource))
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.submitting.Store(false)

	row, ok := m.ctrl.findRow(id)
	if !ok {
		return fmt.Errorf("row %s is not on the current page", id)
	}
	next := !spec.Get(row)

	if err := m.ctrl.client.Put(ctx, spec.Route(id), map[string]any{spec.Field: next}); err != nil {
		return err
	}

	if m.policies[ActionToggle] == PolicyRefetch {
		return m.ctrl.Refresh(ctx)
	}
	m.ctrl.patchRow(id, func(r *T) { spec.Set(r, next) })
	return nil
}

// DeleteRow removes a row. Confirmation is the caller's job and is
// mandatory before invoking this. On success the row is dropped locally and
// the total decremented; emptying a page past the first walks back one page
// and re-fetches so the user never lands on an empty mid-range page.
func (m *Coordinator[T]) DeleteRow(ctx context.Context, id string) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.submitting.Store(false)

	if err := m.ctrl.client.Delete(ctx, m.ctrl.cfg.Resource+"/"+id); err != nil {
		return err
	}

	if m.ctrl.removeRow(id) {
		return m.ctrl.Refresh(ctx)
	}
	return nil
}

// CreateRow validates then creates. Success re-fetches the current page.
func (m *Coordinator[T]) CreateRow(ctx context.Context, payload Payload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.submitting.Store(false)

	if err := m.ctrl.client.Post(ctx, m.ctrl.cfg.Resource, payload, "", nil); err != nil {
		return err
	}
	return m.ctrl.Refresh(ctx)
}

// UpdateRow validates then updates. Success re-fetches the current page.
func (m *Coordinator[T]) UpdateRow(ctx context.Context, id string, payload Payload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	if err := m.begin(); err != nil {
		return err
	}
	defer m.submitting.Store(false)

	if err := m.ctrl.client.Put(ctx, m.ctrl.cfg.Resource+"/"+id, payload); err != nil {
		return err
	}
	return m.ctrl.Refresh(ctx)
}
