// Package reorder turns drag gestures into reorder intents.
//
// [Controller] is a small state machine driven through a narrow gesture
// interface (OnDragStart, OnDragOver, OnDragEnd, OnDragCancel). It never
// mutates the item list itself; when a drag completes over a different item
// it emits a single [Intent] meaning "move source to target's position" and
// leaves the move to the owner of the list.
//
// # States
//
//	Idle ──start──▶ Dragging ◀──over("")── Hovering
//	                    │  ──over(id)──────▶  │
//	                    └──── end / cancel ───┘──▶ Idle
//
// Drop and cancel are transient: the controller is back in Idle by the time
// OnDragEnd or OnDragCancel returns.
//
// # Sensors
//
// Gesture recognition is separate from the state machine. [PointerSensor]
// applies an activation constraint so that taps and clicks are not treated
// as drags, then resolves the hover target by closest-center collision.
// [KeyboardSensor] drives the same controller from arrow keys.
package reorder
