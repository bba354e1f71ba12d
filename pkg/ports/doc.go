/*
Package ports defines the driven ports (interfaces) the effect needs from its host.

These interfaces decouple the orchestrator and the material code from the AR
runtime, so the same workflow runs against a device, the CLI simulator or the
in-memory fakes used in tests.

# Key Interfaces

  - HintBinder: Shows or hides on-screen instruction hints, statically or live.
  - MaterialSlot: Receives the signal assigned to a material texture slot.
  - OverlayRoot: The full-screen overlay object (a material slot that can hide).
  - PlaneTracker: The tracked surface (its world scale, and tap anchoring).
  - Positioner: The node whose scale is normalised against the plane.
  - Camera: Live camera facing and recording state.
  - Touch: The tap gesture stream.

Scene bundles one of each. It is built once when the host finishes loading and
is read-only afterwards.
*/
package ports
